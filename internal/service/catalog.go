package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
)

// GameStore is the read side of the game repository used by the storefront.
type GameStore interface {
	ListActive(ctx context.Context) ([]*model.Game, error)
	GetActiveBySlug(ctx context.Context, slug string) (*model.Game, error)
}

// ProductStore lists the active products of a game.
type ProductStore interface {
	ListActiveByGame(ctx context.Context, gameID uint64) ([]*model.Product, error)
}

// PackStore lists the active packs of a game.
type PackStore interface {
	ListActiveByGame(ctx context.Context, gameID uint64) ([]*model.Pack, error)
}

// GameDetail is the public view of one game: its active products with
// resolved prices, its running offers and its active packs.
type GameDetail struct {
	Game     *model.Game           `json:"game"`
	Products []model.PricedProduct `json:"products"`
	Offers   []*model.Offer        `json:"offers"`
	Packs    []*model.Pack         `json:"packs"`
}

// CatalogService serves the public storefront.
type CatalogService struct {
	games    GameStore
	products ProductStore
	offers   OfferLookup
	packs    PackStore
	now      func() time.Time
}

func NewCatalogService(games GameStore, products ProductStore, offers OfferLookup, packs PackStore) *CatalogService {
	return &CatalogService{games: games, products: products, offers: offers, packs: packs, now: time.Now}
}

// ListGames returns active games, newest first.
func (s *CatalogService) ListGames(ctx context.Context) ([]*model.Game, error) {
	return s.games.ListActive(ctx)
}

// GameDetail looks up an active game by slug and prices its products
// against the offers running now.
func (s *CatalogService) GameDetail(ctx context.Context, slug string) (*GameDetail, error) {
	game, err := s.games.GetActiveBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrGameNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	products, err := s.products.ListActiveByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	offers, err := s.offers.ListActiveForGame(ctx, game.ID, s.now())
	if err != nil {
		return nil, err
	}
	packs, err := s.packs.ListActiveByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	return &GameDetail{Game: game, Products: PriceProducts(products, offers), Offers: offers, Packs: packs}, nil
}

// PriceProducts resolves the price of every product against offers, keeping
// the input order.
func PriceProducts(products []*model.Product, offers []*model.Offer) []model.PricedProduct {
	out := make([]model.PricedProduct, 0, len(products))
	for _, p := range products {
		q := ResolvePrice(*p, offersFor(p.ID, offers))
		out = append(out, model.PricedProduct{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			BasePrice:   q.BasePrice,
			Price:       q.Price,
			OfferName:   q.OfferName,
		})
	}
	return out
}
