package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-topup-store/internal/handler"
	"github.com/iliyamo/game-topup-store/internal/middleware"
	"github.com/iliyamo/game-topup-store/internal/model"
)

// RegisterAdmin registers catalog management, order fulfillment and the
// dashboard under /admin.  Every route requires the admin role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler) {
	g := e.Group("/admin", middleware.RequireRole(model.RoleAdmin))

	g.GET("/games", h.ListGames)
	g.POST("/games", h.CreateGame)
	g.GET("/games/:id", h.GetGame)
	g.PUT("/games/:id", h.UpdateGame)
	g.DELETE("/games/:id", h.DeleteGame)

	g.GET("/products", h.ListProducts)
	g.POST("/products", h.CreateProduct)
	g.POST("/products/bulk-update", h.BulkUpdatePrices)
	g.GET("/products/:id", h.GetProduct)
	g.PUT("/products/:id", h.UpdateProduct)
	g.DELETE("/products/:id", h.DeleteProduct)

	g.GET("/offers", h.ListOffers)
	g.POST("/offers", h.CreateOffer)
	g.GET("/offers/:id", h.GetOffer)
	g.PUT("/offers/:id", h.UpdateOffer)
	g.DELETE("/offers/:id", h.DeleteOffer)

	g.GET("/packs", h.ListPacks)
	g.POST("/packs", h.CreatePack)
	g.GET("/packs/:id", h.GetPack)
	g.PUT("/packs/:id", h.UpdatePack)
	g.DELETE("/packs/:id", h.DeletePack)

	g.GET("/orders", h.ListOrders)
	g.POST("/orders/update", h.UpdateOrderStatus)
	g.GET("/dashboard", h.Dashboard)
}
