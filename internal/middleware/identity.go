package middleware

// identity.go holds the caller identification shared by the rate limiter
// and any other middleware that keys state per user.

import "github.com/labstack/echo/v4"

// userID returns the id stored by Session, or "guest" for anonymous calls.
func userID(c echo.Context) string {
	if v, ok := c.Get(UserIDContextKey).(string); ok && v != "" {
		return v
	}
	return "guest"
}
