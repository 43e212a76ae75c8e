package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/service"
)

type productReq struct {
	GameID        uint64           `json:"game_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=255"`
	Description   *string          `json:"description"`
	BasePrice     *decimal.Decimal `json:"base_price" validate:"required"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Stock         *int             `json:"stock" validate:"omitempty,min=-1"`
}

type productUpdateReq struct {
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Description   *string          `json:"description"`
	BasePrice     *decimal.Decimal `json:"base_price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Stock         *int             `json:"stock" validate:"omitempty,min=-1"`
	Status        *string          `json:"status"`
}

type bulkPriceReq struct {
	ProductIDs []uint64         `json:"productIds" validate:"required,min=1"`
	Operation  string           `json:"operation" validate:"required,oneof=percentage fixed"`
	Value      *decimal.Decimal `json:"value" validate:"required"`
}

// ListProducts: GET /admin/products[?gameId=]
func (h *AdminHandler) ListProducts(c echo.Context) error {
	var gameID uint64
	if q := strings.TrimSpace(c.QueryParam("gameId")); q != "" {
		id, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			return respondError(c, &service.ValidationError{Fields: []string{"gameId"}})
		}
		gameID = id
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	products, err := h.Products.List(ctx, gameID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct: GET /admin/products/:id
func (h *AdminHandler) GetProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// CreateProduct: POST /admin/products.  Stock defaults to unlimited.
func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var req productReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	p := &model.Product{
		GameID:        req.GameID,
		Name:          strings.TrimSpace(req.Name),
		Description:   trimPtr(req.Description),
		BasePrice:     model.RoundMoney(*req.BasePrice),
		DiscountPrice: roundPtr(req.DiscountPrice),
		Stock:         model.UnlimitedStock,
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if err := checkPrices(p.BasePrice, p.DiscountPrice, p.Name != ""); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	if _, err := h.Games.GetByID(ctx, p.GameID); err != nil {
		return respondError(c, err)
	}
	if err := h.Products.Create(ctx, p); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct: PUT /admin/products/:id.  Omitted fields keep their value;
// the discount price is checked against the resulting base price.
func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req productUpdateReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	u := repository.ProductUpdate{
		Name:          trimPtr(req.Name),
		Description:   trimPtr(req.Description),
		BasePrice:     roundPtr(req.BasePrice),
		DiscountPrice: roundPtr(req.DiscountPrice),
		Stock:         req.Stock,
		Status:        trimPtr(req.Status),
	}
	if !validStatus(u.Status) {
		return respondError(c, &service.ValidationError{Fields: []string{"status"}})
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	current, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	base := current.BasePrice
	if u.BasePrice != nil {
		base = *u.BasePrice
	}
	discount := current.DiscountPrice
	if u.DiscountPrice != nil {
		discount = u.DiscountPrice
	}
	if err := checkPrices(base, discount, true); err != nil {
		return respondError(c, err)
	}

	p, err := h.Products.Update(ctx, id, u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// DeleteProduct: DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	if err := h.Products.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// BulkUpdatePrices: POST /admin/products/bulk-update
func (h *AdminHandler) BulkUpdatePrices(c echo.Context) error {
	var req bulkPriceReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	updates, err := h.Products.BulkAdjustPrices(ctx, req.ProductIDs, req.Operation, *req.Value)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"updated": len(updates), "updates": updates})
}

// checkPrices enforces base_price >= 0 and discount_price <= base_price.
func checkPrices(base decimal.Decimal, discount *decimal.Decimal, nameOK bool) error {
	var fields []string
	if !nameOK {
		fields = append(fields, "name")
	}
	if base.IsNegative() {
		fields = append(fields, "base_price")
	}
	if discount != nil && (discount.IsNegative() || discount.GreaterThan(base)) {
		fields = append(fields, "discount_price")
	}
	if len(fields) > 0 {
		return &service.ValidationError{Fields: fields}
	}
	return nil
}

func roundPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	r := model.RoundMoney(*d)
	return &r
}
