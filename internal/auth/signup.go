package auth

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/db"
	"github.com/obi-dev/campushub/internal/policy"
)

type SignupRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	University string `json:"university"`
}

type SignupResponse struct {
	Token string `json:"token"`
}

// Signup registers a user and opens their time-bank balance in the same transaction.
func Signup(c echo.Context) error {
	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and a password of at least 6 characters are required"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}

	ctx := context.Background()
	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db transaction error"})
	}
	defer tx.Rollback(ctx)

	// Everyone starts as a plain member
	var userID string
	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password, role, university)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, uuid.New().String(), req.Name, req.Email, string(hashed), policy.RoleMember, req.University).Scan(&userID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO time_bank_balances (user_id, hours_earned, hours_spent, hours_pending)
		VALUES ($1, 0, 0, 0)
	`, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "balance creation failed"})
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transaction failed"})
	}

	// Welcome email is best-effort
	_ = alerts.EnqueueWelcomeEmail(userID, req.Email, req.Name)

	signed, err := signToken(userID, policy.RoleMember)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token generation failed"})
	}

	return c.JSON(http.StatusOK, SignupResponse{Token: signed})
}

func signToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
