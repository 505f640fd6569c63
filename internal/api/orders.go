package api

import (
	"github.com/labstack/echo/v4"

	"medifinder/internal/entity"
	"medifinder/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder places a customer order. The customer snapshot comes from
// the token claims, never from the payload.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	uc, ok := claims(c)
	if !ok {
		return c.JSON(401, map[string]string{"error": "Invalid or expired token"})
	}

	req := service.CreateOrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	req.CustomerName = uc.Name
	req.CustomerEmail = uc.Email
	req.CustomerPhone = uc.Phone

	order, err := h.orderService.CreateOrder(ctx, &req)
	if err != nil {
		return errJSON(c, err)
	}

	return c.JSON(201, order)
}

// GetMyOrders lists the authenticated customer's order history.
func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	uc, ok := claims(c)
	if !ok {
		return c.JSON(401, map[string]string{"error": "Invalid or expired token"})
	}

	orders, err := h.orderService.GetCustomerOrders(c.Request().Context(), uc.Email)
	if err != nil {
		return errJSON(c, err)
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	return c.JSON(200, orders)
}
