package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/service"
)

type offerReq struct {
	GameID        uint64           `json:"game_id" validate:"required"`
	Name          string           `json:"name" validate:"required,max=255"`
	Description   *string          `json:"description"`
	OfferType     string           `json:"offer_type" validate:"required,oneof=percentage fixed"`
	DiscountValue *decimal.Decimal `json:"discount_value" validate:"required"`
	StartDate     string           `json:"start_date" validate:"required"`
	EndDate       string           `json:"end_date" validate:"required"`
	ProductIDs    []uint64         `json:"product_ids"`
}

type offerUpdateReq struct {
	Name          *string          `json:"name" validate:"omitempty,max=255"`
	Description   *string          `json:"description"`
	OfferType     *string          `json:"offer_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	StartDate     *string          `json:"start_date"`
	EndDate       *string          `json:"end_date"`
	Status        *string          `json:"status"`
	ProductIDs    []uint64         `json:"product_ids"`
}

// Accepted date layouts: RFC 3339 and the HTML datetime-local / date forms,
// the latter two read as UTC.
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ListOffers: GET /admin/offers
func (h *AdminHandler) ListOffers(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	offers, err := h.Offers.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, offers)
}

// GetOffer: GET /admin/offers/:id
func (h *AdminHandler) GetOffer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	o, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// CreateOffer: POST /admin/offers
func (h *AdminHandler) CreateOffer(c echo.Context) error {
	var req offerReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	start, okStart := parseDate(req.StartDate)
	end, okEnd := parseDate(req.EndDate)
	o := &model.Offer{
		GameID:        req.GameID,
		Name:          strings.TrimSpace(req.Name),
		Description:   trimPtr(req.Description),
		OfferType:     req.OfferType,
		DiscountValue: *req.DiscountValue,
		StartDate:     start,
		EndDate:       end,
		ProductIDs:    req.ProductIDs,
	}
	if o.Name == "" {
		return respondError(c, &service.ValidationError{Fields: []string{"name"}})
	}
	if err := checkOffer(o, okStart, okEnd); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	if _, err := h.Games.GetByID(ctx, o.GameID); err != nil {
		return respondError(c, err)
	}
	if err := h.checkProducts(ctx, o.GameID, o.ProductIDs); err != nil {
		return respondError(c, err)
	}
	if err := h.Offers.Create(ctx, o); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// UpdateOffer: PUT /admin/offers/:id.  A present product_ids list replaces
// the targeted products; an absent one keeps them.
func (h *AdminHandler) UpdateOffer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req offerUpdateReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	u := repository.OfferUpdate{
		Name:          trimPtr(req.Name),
		Description:   trimPtr(req.Description),
		OfferType:     trimPtr(req.OfferType),
		DiscountValue: req.DiscountValue,
		Status:        trimPtr(req.Status),
		ProductIDs:    req.ProductIDs,
	}
	var bad []string
	if s := trimPtr(req.StartDate); s != nil {
		if t, ok := parseDate(*s); ok {
			u.StartDate = &t
		} else {
			bad = append(bad, "start_date")
		}
	}
	if s := trimPtr(req.EndDate); s != nil {
		if t, ok := parseDate(*s); ok {
			u.EndDate = &t
		} else {
			bad = append(bad, "end_date")
		}
	}
	if u.DiscountValue != nil && u.DiscountValue.IsNegative() {
		bad = append(bad, "discount_value")
	}
	if !validStatus(u.Status) {
		bad = append(bad, "status")
	}
	if len(bad) > 0 {
		return respondError(c, &service.ValidationError{Fields: bad})
	}

	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	current, err := h.Offers.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	merged := *current
	if u.OfferType != nil {
		merged.OfferType = *u.OfferType
	}
	if u.DiscountValue != nil {
		merged.DiscountValue = *u.DiscountValue
	}
	if u.StartDate != nil {
		merged.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		merged.EndDate = *u.EndDate
	}
	if err := checkOffer(&merged, true, true); err != nil {
		return respondError(c, err)
	}
	if err := h.checkProducts(ctx, current.GameID, u.ProductIDs); err != nil {
		return respondError(c, err)
	}

	o, err := h.Offers.Update(ctx, id, u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// DeleteOffer: DELETE /admin/offers/:id
func (h *AdminHandler) DeleteOffer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	if err := h.Offers.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// checkOffer validates the resulting offer: a non-negative discount, a
// percentage no larger than 100 and an end date after the start date.
func checkOffer(o *model.Offer, okStart, okEnd bool) error {
	var fields []string
	if o.DiscountValue.IsNegative() ||
		(o.OfferType == model.OfferPercentage && o.DiscountValue.GreaterThan(decimal.NewFromInt(100))) {
		fields = append(fields, "discount_value")
	}
	if !okStart {
		fields = append(fields, "start_date")
	}
	if !okEnd || (okStart && !o.EndDate.After(o.StartDate)) {
		fields = append(fields, "end_date")
	}
	if len(fields) > 0 {
		return &service.ValidationError{Fields: fields}
	}
	return nil
}
