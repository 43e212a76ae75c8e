package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type orderStatusReq struct {
	OrderID uint64 `json:"orderId"`
	Status  string `json:"status"`
}

// ListOrders: GET /admin/orders
func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	orders, err := h.Orders.ListAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus: POST /admin/orders/update {orderId, status}
func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	var req orderStatusReq
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	o, err := h.Orders.UpdateStatus(ctx, req.OrderID, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": o})
}

// Dashboard: GET /admin/dashboard
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.Timeout)
	defer cancel()
	stats, err := h.Orders.DashboardStats(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "stats": stats})
}
