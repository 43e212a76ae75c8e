package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-topup-store/internal/model"
)

// Context keys and the cookie name shared with the handlers.
const (
	SessionCookieName = "session"
	UserContextKey    = "user"
	UserIDContextKey  = "user_id"
)

// SessionResolver maps a session token to its user.  Unknown or expired
// tokens resolve to (nil, nil).
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*model.User, error)
}

// Session reads the session cookie and, when it names a live session,
// stores the user under UserContextKey and its id under UserIDContextKey.
// Requests without a valid session continue anonymously; authorization is
// left to RequireAuth and RequireRole.  Each lookup is bounded by timeout;
// a non-positive timeout falls back to five seconds.
func Session(resolver SessionResolver, timeout time.Duration) echo.MiddlewareFunc {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookieName)
			if err != nil || ck.Value == "" {
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			u, err := resolver.CurrentUser(ctx, ck.Value)
			cancel()
			if err != nil {
				log.Printf("session: resolve token: %v", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "internal server error"})
			}
			if u != nil {
				c.Set(UserContextKey, u)
				c.Set(UserIDContextKey, strconv.FormatUint(u.ID, 10))
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Session, or nil.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(UserContextKey).(*model.User)
	return u
}
