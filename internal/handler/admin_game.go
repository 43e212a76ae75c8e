package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/service"
)

type gameReq struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Slug         string  `json:"slug" validate:"required,max=255"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,max=1024"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
}

type gameUpdateReq struct {
	Name         *string `json:"name" validate:"omitempty,max=255"`
	Slug         *string `json:"slug" validate:"omitempty,max=255"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,max=1024"`
	Category     *string `json:"category" validate:"omitempty,max=100"`
	Status       *string `json:"status"`
}

// ListGames: GET /admin/games
func (h *AdminHandler) ListGames(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	games, err := h.Games.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, games)
}

// GetGame: GET /admin/games/:id
func (h *AdminHandler) GetGame(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	g, err := h.Games.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// CreateGame: POST /admin/games
func (h *AdminHandler) CreateGame(c echo.Context) error {
	var req gameReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	g := &model.Game{
		Name:         strings.TrimSpace(req.Name),
		Slug:         normalizeSlug(req.Slug),
		Description:  trimPtr(req.Description),
		ThumbnailURL: trimPtr(req.ThumbnailURL),
		Category:     trimPtr(req.Category),
	}
	if g.Name == "" || g.Slug == "" {
		return respondError(c, &service.ValidationError{Fields: []string{"name", "slug"}})
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	if err := h.Games.Create(ctx, g); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// UpdateGame: PUT /admin/games/:id.  Blank fields keep the stored value.
func (h *AdminHandler) UpdateGame(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req gameUpdateReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	u := repository.GameUpdate{
		Name:         trimPtr(req.Name),
		Description:  trimPtr(req.Description),
		ThumbnailURL: trimPtr(req.ThumbnailURL),
		Category:     trimPtr(req.Category),
		Status:       trimPtr(req.Status),
	}
	if s := trimPtr(req.Slug); s != nil {
		slug := normalizeSlug(*s)
		u.Slug = &slug
	}
	if !validStatus(u.Status) {
		return respondError(c, &service.ValidationError{Fields: []string{"status"}})
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	g, err := h.Games.Update(ctx, id, u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// DeleteGame: DELETE /admin/games/:id.  Products, offers and packs cascade.
func (h *AdminHandler) DeleteGame(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	if err := h.Games.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
