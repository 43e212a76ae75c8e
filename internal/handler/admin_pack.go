package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/service"
)

type packReq struct {
	GameID        uint64           `json:"game_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=255"`
	Description   *string          `json:"description"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,max=1024"`
	OriginalPrice *decimal.Decimal `json:"original_price" validate:"required"`
	PackPrice     *decimal.Decimal `json:"pack_price" validate:"required"`
	ProductIDs    []uint64         `json:"product_ids"`
}

type packUpdateReq struct {
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Description   *string          `json:"description"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,max=1024"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	PackPrice     *decimal.Decimal `json:"pack_price"`
	Status        *string          `json:"status"`
	ProductIDs    []uint64         `json:"product_ids"`
}

// ListPacks: GET /admin/packs
func (h *AdminHandler) ListPacks(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	packs, err := h.Packs.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, packs)
}

// GetPack: GET /admin/packs/:id
func (h *AdminHandler) GetPack(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	p, err := h.Packs.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// CreatePack: POST /admin/packs.  The discount percentage is derived from
// the two prices.
func (h *AdminHandler) CreatePack(c echo.Context) error {
	var req packReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	p := &model.Pack{
		GameID:        req.GameID,
		Name:          strings.TrimSpace(req.Name),
		Description:   trimPtr(req.Description),
		ImageURL:      trimPtr(req.ImageURL),
		OriginalPrice: model.RoundMoney(*req.OriginalPrice),
		PackPrice:     model.RoundMoney(*req.PackPrice),
	}
	if p.Name == "" {
		return respondError(c, &service.ValidationError{Fields: []string{"name"}})
	}
	if err := checkPackPrices(p.OriginalPrice, p.PackPrice); err != nil {
		return respondError(c, err)
	}
	p.DiscountPercentage = model.PackDiscount(p.OriginalPrice, p.PackPrice)

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	if _, err := h.Games.GetByID(ctx, p.GameID); err != nil {
		return respondError(c, err)
	}
	if err := h.checkProducts(ctx, p.GameID, req.ProductIDs); err != nil {
		return respondError(c, err)
	}
	if err := h.Packs.Create(ctx, p, req.ProductIDs); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdatePack: PUT /admin/packs/:id.  When either price changes the
// discount percentage is recomputed from the resulting pair.
func (h *AdminHandler) UpdatePack(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req packUpdateReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	u := repository.PackUpdate{
		Name:          trimPtr(req.Name),
		Description:   trimPtr(req.Description),
		ImageURL:      trimPtr(req.ImageURL),
		OriginalPrice: roundPtr(req.OriginalPrice),
		PackPrice:     roundPtr(req.PackPrice),
		Status:        trimPtr(req.Status),
		ProductIDs:    req.ProductIDs,
	}
	if !validStatus(u.Status) {
		return respondError(c, &service.ValidationError{Fields: []string{"status"}})
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	var current *model.Pack
	if u.OriginalPrice != nil || u.PackPrice != nil || u.ProductIDs != nil {
		if current, err = h.Packs.GetByID(ctx, id); err != nil {
			return respondError(c, err)
		}
	}
	if u.ProductIDs != nil {
		if err := h.checkProducts(ctx, current.GameID, u.ProductIDs); err != nil {
			return respondError(c, err)
		}
	}
	if u.OriginalPrice != nil || u.PackPrice != nil {
		original, pack := current.OriginalPrice, current.PackPrice
		if u.OriginalPrice != nil {
			original = *u.OriginalPrice
		}
		if u.PackPrice != nil {
			pack = *u.PackPrice
		}
		if err := checkPackPrices(original, pack); err != nil {
			return respondError(c, err)
		}
		d := model.PackDiscount(original, pack)
		u.DiscountPercentage = &d
	}

	p, err := h.Packs.Update(ctx, id, u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DeletePack: DELETE /admin/packs/:id
func (h *AdminHandler) DeletePack(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	if err := h.Packs.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func checkPackPrices(original, pack decimal.Decimal) error {
	var fields []string
	if original.IsNegative() {
		fields = append(fields, "original_price")
	}
	if pack.IsNegative() || pack.GreaterThan(original) {
		fields = append(fields, "pack_price")
	}
	if len(fields) > 0 {
		return &service.ValidationError{Fields: fields}
	}
	return nil
}
