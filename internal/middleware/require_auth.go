package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harvestbites/storefront/pkg/tokens"
)

type AuthMiddleware struct {
	JWTSecret []byte
}

// RequireAuth gates protected routes. A missing or invalid token fails
// closed: the response carries the originally requested path so the
// client can return there after login.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie("accessToken")
		if err != nil || accessCookie.Value == "" {
			return unauthorized(c)
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err != nil || claims == nil {
			c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
			c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
			return unauthorized(c)
		}

		c.Set("user_id", claims.Subject)
		c.Set("user_email", claims.Email)
		c.Set("user_name", claims.Name)
		return next(c)
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"error": "unauthorized",
		"from":  c.Request().URL.Path,
	})
}
