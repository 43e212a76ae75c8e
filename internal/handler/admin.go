package handler

import (
	"context"
	"time"

	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/service"
)

// AdminHandler bundles the repositories behind the admin dashboard.  Every
// route it serves sits behind RequireRole(admin).
type AdminHandler struct {
	Games    *repository.GameRepo
	Products *repository.ProductRepo
	Offers   *repository.OfferRepo
	Packs    *repository.PackRepo
	Orders   *service.OrderService
	Timeout  time.Duration
}

// NewAdminHandler panics if any dependency is nil.
func NewAdminHandler(games *repository.GameRepo, products *repository.ProductRepo, offers *repository.OfferRepo,
	packs *repository.PackRepo, orders *service.OrderService, timeout time.Duration) *AdminHandler {
	if games == nil || products == nil || offers == nil || packs == nil || orders == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Games: games, Products: products, Offers: offers, Packs: packs, Orders: orders, Timeout: timeout}
}

func validStatus(s *string) bool {
	return s == nil || *s == "active" || *s == "inactive"
}

// checkProducts rejects product lists naming ids outside the game.
func (h *AdminHandler) checkProducts(ctx context.Context, gameID uint64, ids []uint64) error {
	ok, err := h.Products.AllInGame(ctx, gameID, ids)
	if err != nil {
		return err
	}
	if !ok {
		return &service.ValidationError{Fields: []string{"product_ids"}}
	}
	return nil
}
