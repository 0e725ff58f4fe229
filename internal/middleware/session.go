package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const sessionCookie = "sid"

// Session pins an anonymous session id cookie on every request. Cart and
// checkout state in the store are keyed by it.
func Session(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ck, err := c.Cookie(sessionCookie)
		if err != nil || ck.Value == "" {
			sid := uuid.NewString()
			c.SetCookie(&http.Cookie{
				Name:     sessionCookie,
				Value:    sid,
				Path:     "/",
				Expires:  time.Now().Add(365 * 24 * time.Hour),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set("session_id", sid)
			return next(c)
		}
		c.Set("session_id", ck.Value)
		return next(c)
	}
}

func SessionID(c echo.Context) string {
	if v, ok := c.Get("session_id").(string); ok {
		return v
	}
	return ""
}
