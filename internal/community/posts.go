package community

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"

	"github.com/obi-dev/campushub/internal/db"
)

type createPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreatePost publishes a community post by the authenticated user
func CreatePost(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if req.Title == "" || req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and body are required"})
	}
	if len(req.Title) > 200 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title too long (max 200 characters)"})
	}
	if len(req.Body) > 10000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body too long (max 10000 characters)"})
	}

	postID := uuid.New().String()
	_, err := db.Conn.Exec(context.Background(),
		`INSERT INTO posts (id, author_id, title, body) VALUES ($1, $2, $3, $4)`,
		postID, userID, req.Title, req.Body,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create post"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": postID, "message": "post created"})
}

// ListPosts returns visible posts, newest first, paginated
func ListPosts(c echo.Context) error {
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	rows, err := db.Conn.Query(context.Background(),
		`SELECT p.id::text, p.author_id::text, u.name, p.title, p.body, p.status, p.created_at
         FROM posts p
         JOIN users u ON u.id = p.author_id
         WHERE p.status = 'visible'
         ORDER BY p.created_at DESC
         LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load posts"})
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Body, &p.Status, &p.CreatedAt); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to parse post"})
		}
		posts = append(posts, p)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts, "limit": limit, "offset": offset})
}

// GetPost returns a single visible post
func GetPost(c echo.Context) error {
	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	var p Post
	err := db.Conn.QueryRow(context.Background(),
		`SELECT p.id::text, p.author_id::text, u.name, p.title, p.body, p.status, p.created_at
         FROM posts p
         JOIN users u ON u.id = p.author_id
         WHERE p.id = $1 AND p.status = 'visible'`, postID,
	).Scan(&p.ID, &p.AuthorID, &p.AuthorName, &p.Title, &p.Body, &p.Status, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load post"})
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePost removes the caller's own post
func DeletePost(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	postID := c.Param("id")
	if _, err := uuid.Parse(postID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	res, err := db.Conn.Exec(context.Background(),
		`UPDATE posts SET status = 'removed' WHERE id = $1 AND author_id = $2 AND status <> 'removed'`,
		postID, userID,
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete post"})
	}
	if res.RowsAffected() == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found or not yours"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted"})
}
