package payments

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/db"
	"github.com/obi-dev/campushub/internal/policy"
)

const maxProofBytes = 5 << 20 // 5 MiB

var proofExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func uploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

// SubmitZainCash accepts a manual ZainCash payment claim: the sender's phone,
// the transaction reference they were given, the amount, and a screenshot as
// proof. The claim sits pending until a staff member verifies it by hand.
func SubmitZainCash(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	phone := strings.TrimSpace(c.FormValue("phone"))
	reference := strings.TrimSpace(c.FormValue("reference"))
	amountStr := strings.TrimSpace(c.FormValue("amount"))
	if phone == "" || reference == "" || amountStr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone, reference and amount are required"})
	}
	amount, err := strconv.ParseInt(amountStr, 10, 64)
	if err != nil || amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be a positive integer"})
	}

	file, err := c.FormFile("proof")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "proof image is required"})
	}
	if file.Size > maxProofBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "proof image too large (max 5MB)"})
	}
	contentType := file.Header.Get("Content-Type")
	ext, okType := proofExtensions[contentType]
	if !okType {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "proof must be a jpeg, png or webp image"})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read upload"})
	}
	defer src.Close()

	paymentID := uuid.New().String()
	dir := uploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to prepare storage"})
	}
	proofPath := filepath.Join(dir, paymentID+ext)
	dst, err := os.Create(proofPath)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store proof"})
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(src, maxProofBytes+1)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store proof"})
	}

	_, err = db.Conn.Exec(context.Background(),
		`INSERT INTO payments (id, user_id, amount, phone, reference, proof_path)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		paymentID, userID, amount, phone, reference, proofPath,
	)
	if err != nil {
		_ = os.Remove(proofPath)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record payment"})
	}

	ref := paymentID
	_ = alerts.NotifyStaff(policy.StaffRoles(), "payment:submitted",
		"ZainCash payment awaiting verification",
		fmt.Sprintf("Amount %d IQD, reference %s", amount, reference), &ref)
	_ = alerts.EnqueueAdminAlert(userID, "info",
		fmt.Sprintf("ZainCash payment submitted: id=%s amount=%d reference=%s", paymentID, amount, reference))

	return c.JSON(http.StatusCreated, echo.Map{
		"id":      paymentID,
		"status":  StatusPending,
		"message": "payment submitted, awaiting manual verification",
	})
}

// MyPayments lists the caller's payment claims, newest first
func MyPayments(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT id::text, user_id::text, amount, phone, reference, proof_path, status,
                verification_note, verified_by::text, created_at, verified_at
         FROM payments WHERE user_id = $1 ORDER BY created_at DESC`, userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load payments"})
	}
	defer rows.Close()

	items := []Payment{}
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Phone, &p.Reference, &p.ProofPath,
			&p.Status, &p.VerificationNote, &p.VerifiedBy, &p.CreatedAt, &p.VerifiedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse payment"})
		}
		items = append(items, p)
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": items})
}
