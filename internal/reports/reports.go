package reports

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/alerts"
	"github.com/obi-dev/campushub/internal/db"
	"github.com/obi-dev/campushub/internal/policy"
)

type fileReportRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Reason     string `json:"reason"`
	Details    string `json:"details"`
}

// FileReport lets any authenticated user flag content for moderation.
// A second pending report by the same user against the same target is rejected.
func FileReport(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req fileReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if err := ValidateFiling(req.TargetType, req.Reason); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := uuid.Parse(req.TargetID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid target id"})
	}

	var existing string
	err := db.Conn.QueryRow(context.Background(),
		`SELECT id::text FROM reports
         WHERE reporter_id = $1 AND target_type = $2 AND target_id = $3 AND status = 'pending'`,
		userID, req.TargetType, req.TargetID,
	).Scan(&existing)
	if err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "you already have a pending report for this target"})
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check existing reports"})
	}

	reportID := uuid.New().String()
	_, err = db.Conn.Exec(context.Background(),
		`INSERT INTO reports (id, reporter_id, target_type, target_id, reason, details)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		reportID, userID, req.TargetType, req.TargetID, req.Reason, req.Details,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to file report"})
	}

	ref := reportID
	_ = alerts.NotifyStaff(policy.StaffRoles(), "report:filed",
		"New report filed", "A "+req.TargetType+" was reported: "+req.Reason, &ref)

	return c.JSON(http.StatusCreated, echo.Map{"id": reportID, "message": "report filed"})
}

// ListReports returns the moderation queue, optionally filtered by status.
// Guarded by policy.ActionResolveReports.
func ListReports(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = StatusPending
	}
	if status != StatusPending && status != StatusResolved && status != StatusRejected && status != "all" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}

	query := `SELECT r.id::text, r.reporter_id::text, u.name, r.target_type, r.target_id::text,
                     r.reason, r.details, r.status, r.resolution_note, r.resolved_by::text,
                     r.created_at, r.resolved_at
              FROM reports r
              JOIN users u ON u.id = r.reporter_id`
	args := []interface{}{}
	if status != "all" {
		query += ` WHERE r.status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY r.created_at ASC LIMIT 200`

	rows, err := db.Conn.Query(context.Background(), query, args...)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reports"})
	}
	defer rows.Close()

	reports := []Report{}
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.ReporterID, &r.ReporterName, &r.TargetType, &r.TargetID,
			&r.Reason, &r.Details, &r.Status, &r.ResolutionNote, &r.ResolvedBy,
			&r.CreatedAt, &r.ResolvedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse report"})
		}
		reports = append(reports, r)
	}
	return c.JSON(http.StatusOK, echo.Map{"reports": reports})
}

// ResolveReport upholds a report, optionally hiding the offending content.
func ResolveReport(c echo.Context) error {
	return decideReport(c, StatusResolved)
}

// RejectReport dismisses a report without touching the content.
func RejectReport(c echo.Context) error {
	return decideReport(c, StatusRejected)
}

type decideRequest struct {
	Note        string `json:"note"`
	HideContent bool   `json:"hide_content"`
}

// decideReport is the single resolution path for both outcomes. The status
// change and any content hide happen in one transaction, and the status guard
// makes a second decision on the same report a no-op 409.
func decideReport(c echo.Context, decision string) error {
	staffID, ok := c.Get("user_id").(string)
	if !ok || staffID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reportID := c.Param("id")
	if _, err := uuid.Parse(reportID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid report id"})
	}

	var req decideRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.HideContent && decision != StatusResolved {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hide_content only applies when resolving"})
	}

	ctx := context.Background()

	var targetType, targetID, reporterID string
	err := db.Conn.QueryRow(ctx,
		`SELECT target_type, target_id::text, reporter_id::text FROM reports WHERE id = $1`, reportID,
	).Scan(&targetType, &targetID, &reporterID)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "report not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load report"})
	}
	if req.HideContent && !Hideable(targetType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ErrNotHideable.Error()})
	}

	tx, err := db.Conn.Begin(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx,
		`UPDATE reports
         SET status = $1, resolution_note = NULLIF($2, ''), resolved_by = $3, resolved_at = NOW()
         WHERE id = $4 AND status = 'pending'`,
		decision, req.Note, staffID, reportID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update report"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "report already decided"})
	}

	if req.HideContent {
		if err := hideTarget(ctx, tx, targetType, targetID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to hide content"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit"})
	}

	ref := reportID
	meta := "{}"
	title := "Your report was reviewed"
	body := "Outcome: " + decision
	if req.Note != "" {
		body += ". Note: " + req.Note
	}
	_ = alerts.CreateNotification(reporterID, "report:"+decision, title, body, &ref, &meta)

	return c.JSON(http.StatusOK, echo.Map{"id": reportID, "status": decision, "content_hidden": req.HideContent})
}

// hideTarget removes the reported content from public view inside the
// caller's transaction.
func hideTarget(ctx context.Context, tx pgx.Tx, targetType, targetID string) error {
	switch targetType {
	case TargetPost:
		_, err := tx.Exec(ctx, `UPDATE posts SET status = 'hidden' WHERE id = $1`, targetID)
		return err
	case TargetListing:
		_, err := tx.Exec(ctx, `UPDATE listings SET status = 'removed' WHERE id = $1`, targetID)
		return err
	case TargetProfile:
		_, err := tx.Exec(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, targetID)
		return err
	}
	return ErrNotHideable
}
