package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/service"
)

// OrderHandler serves customer checkout and order history.
type OrderHandler struct {
	Orders  *service.OrderService
	Timeout time.Duration
}

func NewOrderHandler(orders *service.OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{Orders: orders, Timeout: timeout}
}

// createOrderReq mirrors the checkout form.  Presence checks happen in the
// service so every missing field is reported together.
type createOrderReq struct {
	GameID        uint64          `json:"gameId"`
	GameName      string          `json:"gameName"`
	PackageID     uint64          `json:"packageId"`
	PackageName   string          `json:"packageName"`
	PackagePrice  decimal.Decimal `json:"packagePrice"`
	PlayerID      string          `json:"playerId"`
	AccountName   string          `json:"accountName"`
	PaymentMethod string          `json:"paymentMethod"`
	Email         string          `json:"email"`
}

// Create: POST /orders
func (h *OrderHandler) Create(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, &service.ValidationError{Fields: []string{"body"}})
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()

	res, err := h.Orders.Create(ctx, currentUser(c), service.CreateOrderInput{
		GameID:        req.GameID,
		GameName:      req.GameName,
		PackageID:     req.PackageID,
		PackageName:   req.PackageName,
		PackagePrice:  req.PackagePrice,
		PlayerID:      req.PlayerID,
		AccountName:   req.AccountName,
		PaymentMethod: req.PaymentMethod,
		Email:         req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":     true,
		"orderId":     res.OrderID,
		"orderNumber": res.OrderNumber,
		"price":       res.Price,
		"status":      res.Status,
	})
}

// Mine: GET /orders.  Returns the caller's orders and status counts.
func (h *OrderHandler) Mine(c echo.Context) error {
	u := currentUser(c)
	if u == nil {
		return respondError(c, service.ErrUnauthenticated)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	orders, counts, err := h.Orders.ListForUser(ctx, u.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "orders": orders, "stats": counts})
}
