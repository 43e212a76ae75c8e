package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/game-topup-store/internal/handler" // handlers that implement each endpoint
)

// RegisterRoutes registers the health check.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers sign-up, sign-in, logout and the current-user
// check.  limiter guards the credential endpoints against guessing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/signup", a.SignUp, limiter)
	g.POST("/signin", a.SignIn, limiter)
	g.POST("/logout", a.Logout)
	// /auth/me answers {"user": null} for anonymous callers instead of 401.
	g.GET("/me", a.Me)
}

// RegisterPublic registers the storefront catalog.  These routes need no
// session; cache replays their responses from Redis.
func RegisterPublic(e *echo.Echo, p *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/games", cache)
	g.GET("", p.ListGames)
	g.GET("/:slug", p.GameBySlug)
}
