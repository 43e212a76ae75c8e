package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
)

type stubGames struct{ games []*model.Game }

func (s stubGames) ListActive(context.Context) ([]*model.Game, error) { return s.games, nil }

func (s stubGames) GetActiveBySlug(_ context.Context, slug string) (*model.Game, error) {
	for _, g := range s.games {
		if g.Slug == slug {
			return g, nil
		}
	}
	return nil, repository.ErrGameNotFound
}

type stubProducts []*model.Product

func (s stubProducts) ListActiveByGame(_ context.Context, gameID uint64) ([]*model.Product, error) {
	var out []*model.Product
	for _, p := range s {
		if p.GameID == gameID {
			out = append(out, p)
		}
	}
	return out, nil
}

type stubPacks []*model.Pack

func (s stubPacks) ListActiveByGame(context.Context, uint64) ([]*model.Pack, error) { return s, nil }

func TestCatalogService_GameDetail(t *testing.T) {
	games := stubGames{games: []*model.Game{{ID: 1, Name: "Free Fire", Slug: "free-fire", Status: model.StatusActive}}}
	products := stubProducts{
		{ID: 1, GameID: 1, Name: "100 Diamonds", BasePrice: dec("1.99")},
		{ID: 2, GameID: 1, Name: "520 Diamonds", BasePrice: dec("9.99"), DiscountPrice: decPtr("8.99")},
	}
	offers := &catalogFake{offers: []*model.Offer{
		{ID: 3, GameID: 1, Name: "Ramadan", OfferType: model.OfferFixed, DiscountValue: dec("0.50"), ProductIDs: []uint64{1}},
	}}
	packs := stubPacks{{ID: 8, GameID: 1, Name: "Starter"}}
	svc := NewCatalogService(games, products, offers, packs)

	d, err := svc.GameDetail(context.Background(), "free-fire")
	require.NoError(t, err)
	assert.Equal(t, "Free Fire", d.Game.Name)
	require.Len(t, d.Products, 2)
	assert.True(t, dec("1.49").Equal(d.Products[0].Price))
	assert.Equal(t, strPtr("Ramadan"), d.Products[0].OfferName)
	assert.True(t, dec("8.99").Equal(d.Products[1].Price))
	assert.Equal(t, strPtr(DiscountLabel), d.Products[1].OfferName)
	assert.Len(t, d.Offers, 1)
	assert.Len(t, d.Packs, 1)

	_, err = svc.GameDetail(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValidationErrorMessage(t *testing.T) {
	var fe fieldErrors
	fe.check(false, "b")
	fe.check(true, "skipped")
	fe.check(false, "a")
	err := fe.err()
	require.Error(t, err)
	assert.Equal(t, "invalid or missing fields: a, b", err.Error())

	var none fieldErrors
	assert.NoError(t, none.err())
}
