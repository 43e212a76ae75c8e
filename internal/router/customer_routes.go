package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-topup-store/internal/handler"
	"github.com/iliyamo/game-topup-store/internal/middleware"
)

// RegisterCustomer registers checkout and order history.  Any signed-in
// user may order; admins included.
func RegisterCustomer(e *echo.Echo, h *handler.OrderHandler, limiter echo.MiddlewareFunc) {
	g := e.Group("/orders", middleware.RequireAuth())
	g.POST("", h.Create, limiter)
	g.GET("", h.Mine)
}
