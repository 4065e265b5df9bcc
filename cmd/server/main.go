package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/obi-dev/campushub/internal/admin"
	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/auth"
	"github.com/obi-dev/campushub/internal/bookings"
	"github.com/obi-dev/campushub/internal/community"
	"github.com/obi-dev/campushub/internal/db"
	"github.com/obi-dev/campushub/internal/listings"
	"github.com/obi-dev/campushub/internal/messaging"
	mware "github.com/obi-dev/campushub/internal/middleware"
	"github.com/obi-dev/campushub/internal/payments"
	"github.com/obi-dev/campushub/internal/policy"
	"github.com/obi-dev/campushub/internal/reports"
	"github.com/obi-dev/campushub/internal/timebank"
	"github.com/obi-dev/campushub/internal/user"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	db.Init()
	alerts.Init()
	defer alerts.Close()

	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "campushub"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(context.Background()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", auth.Signup)
	authGroup.POST("/login", auth.Login)
	authGroup.POST("/password/forgot", auth.RequestPasswordReset)
	authGroup.POST("/password/reset", auth.ResetPassword)

	// Public browse routes
	e.GET("/users/:id/profile", user.GetPublicProfile)
	e.GET("/users/:id/reviews", bookings.GetUserReviews)
	e.GET("/listings", listings.SearchListings)
	e.GET("/posts", community.ListPosts)
	e.GET("/posts/:id", community.GetPost)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware)

	api.GET("/auth/me", auth.Me)
	api.PATCH("/users/profile", user.UpdateProfile)

	api.POST("/listings", listings.CreateListing)
	api.GET("/listings/me", listings.GetUserListings)
	api.PATCH("/listings/:id", listings.UpdateListing)

	api.POST("/bookings", bookings.CreateBooking)
	api.GET("/bookings/me", bookings.GetUserBookings)
	api.POST("/bookings/:id/confirm", bookings.ConfirmBooking)
	api.POST("/bookings/:id/reject", bookings.RejectBooking)
	api.POST("/bookings/:id/cancel", bookings.CancelBooking)
	api.POST("/bookings/:id/complete", bookings.CompleteBooking)
	api.POST("/bookings/:id/review", bookings.CreateReview)
	api.GET("/bookings/:id/review", bookings.GetBookingReview)

	api.GET("/timebank/balance", timebank.GetBalance)
	api.GET("/timebank/transactions", timebank.GetUserTransactions)
	api.POST("/timebank/send", timebank.SendHours)
	api.POST("/timebank/transactions/:id/approve", timebank.ApproveTransaction)
	api.POST("/timebank/transactions/:id/reject", timebank.RejectTransaction)

	api.POST("/posts", community.CreatePost)
	api.DELETE("/posts/:id", community.DeletePost)
	api.POST("/events", community.CreateEvent)
	api.GET("/events", community.ListUpcomingEvents)
	api.POST("/events/:id/attend", community.AttendEvent)
	api.DELETE("/events/:id/attend", community.UnattendEvent)

	api.POST("/bookings/:id/messages", messaging.SendMessage)
	api.GET("/bookings/:id/messages", messaging.ListMessages)
	api.GET("/bookings/:id/messages/unread", messaging.UnreadCount)
	api.POST("/bookings/:id/messages/:message_id/read", messaging.MarkMessageRead)
	api.GET("/ws/bookings/:id", messaging.BookingWS)

	api.POST("/reports", reports.FileReport)

	api.POST("/payments/zaincash", payments.SubmitZainCash)
	api.GET("/payments/me", payments.MyPayments)

	api.GET("/notifications", alerts.ListNotifications)
	api.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	// Moderation routes (moderator and up)
	mod := e.Group("/moderation")
	mod.Use(mware.JWTMiddleware)
	mod.Use(mware.RequirePolicy(policy.ActionResolveReports))
	mod.GET("/reports", reports.ListReports)
	mod.POST("/reports/:id/resolve", reports.ResolveReport)
	mod.POST("/reports/:id/reject", reports.RejectReport)

	// Admin routes
	adm := e.Group("/admin")
	adm.Use(mware.JWTMiddleware)
	adm.Use(mware.AdminGuard)
	adm.GET("/stats", admin.Stats)
	adm.GET("/users", admin.ListUsers)
	adm.POST("/users/:id/suspend", admin.SuspendUser)
	adm.POST("/users/:id/activate", admin.ActivateUser)
	adm.POST("/users/:id/role", admin.SetUserRole)
	adm.GET("/payments/pending", payments.PendingPayments)
	adm.POST("/payments/:id/verify", payments.VerifyPayment)
	adm.POST("/payments/:id/reject", payments.RejectPayment)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := e.Start(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
