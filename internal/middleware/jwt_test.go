package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func runJWTMiddleware(token string) (*httptest.ResponseRecorder, bool, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := JWTMiddleware(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, called, c
}

func TestJWTMiddlewareAcceptsSessionToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signTestToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"role":    "member",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec, called, c := runJWTMiddleware(token)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", c.Get("user_id"))
	assert.Equal(t, "member", c.Get("role"))
}

func TestJWTMiddlewareRejectsPurposeScopedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	// A reset token is signed with the same key but must never open a session.
	token := signTestToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"purpose": "password_reset",
		"exp":     time.Now().Add(30 * time.Minute).Unix(),
	})
	rec, called, _ := runJWTMiddleware(token)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRequiresRoleClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signTestToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	rec, called, _ := runJWTMiddleware(token)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsBadTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cases := []struct {
		name  string
		token string
	}{
		{"missing header", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong key", func() string {
			tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"user_id": "user-1",
				"role":    "member",
				"exp":     time.Now().Add(time.Hour).Unix(),
			})
			s, _ := tok.SignedString([]byte("other-secret"))
			return s
		}()},
	}
	for _, tc := range cases {
		rec, called, _ := runJWTMiddleware(tc.token)
		assert.False(t, called, tc.name)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.name)
	}
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token := signTestToken(t, jwt.MapClaims{
		"user_id": "user-1",
		"role":    "member",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	rec, called, _ := runJWTMiddleware(token)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
