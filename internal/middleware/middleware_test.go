package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/harvestbites/storefront/pkg/tokens"
)

func TestSessionIssuesCookie(t *testing.T) {
	t.Parallel()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	h := Session(func(c echo.Context) error {
		seen = SessionID(c)
		return nil
	})
	require.NoError(t, h(c))

	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "sid", cookies[0].Name)
	require.Equal(t, seen, cookies[0].Value)
}

func TestSessionReusesCookie(t *testing.T) {
	t.Parallel()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "existing-session"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	h := Session(func(c echo.Context) error {
		seen = SessionID(c)
		return nil
	})
	require.NoError(t, h(c))

	require.Equal(t, "existing-session", seen)
	require.Empty(t, rec.Result().Cookies())
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	t.Parallel()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := &AuthMiddleware{JWTSecret: []byte("secret")}
	h := m.RequireAuth(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), `"from":"/api/v1/cart"`)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	t.Parallel()
	secret := []byte("secret")
	claims := tokens.AccessClaims{
		Email: "asha@example.com",
		Name:  "Asha",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signed})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := &AuthMiddleware{JWTSecret: secret}
	var email string
	h := m.RequireAuth(func(c echo.Context) error {
		email, _ = c.Get("user_email").(string)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "asha@example.com", email)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	secret := []byte("secret")
	claims := tokens.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: signed})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := &AuthMiddleware{JWTSecret: secret}
	h := m.RequireAuth(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, h(c))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
