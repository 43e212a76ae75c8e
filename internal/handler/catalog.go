package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-topup-store/internal/service"
)

// CatalogHandler serves the public storefront.
type CatalogHandler struct {
	Catalog *service.CatalogService
	Timeout time.Duration
}

func NewCatalogHandler(catalog *service.CatalogService, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{Catalog: catalog, Timeout: timeout}
}

// ListGames: GET /games
func (h *CatalogHandler) ListGames(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	games, err := h.Catalog.ListGames(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, games)
}

// GameBySlug: GET /games/:slug
func (h *CatalogHandler) GameBySlug(c echo.Context) error {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	if slug == "" {
		return respondError(c, &service.ValidationError{Fields: []string{"slug"}})
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	detail, err := h.Catalog.GameDetail(ctx, slug)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
