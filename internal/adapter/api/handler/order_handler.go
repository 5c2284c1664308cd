package handler

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/middleware"
	"vira/internal/usecase"
	"vira/pkg/errors"
	"vira/pkg/response"
	"vira/pkg/utils"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type placeOrderRequest struct {
	ProductID int `json:"productId" validate:"required,min=1"`
	Quantity  int `json:"quantity" validate:"omitempty,min=1,max=99"`
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.PlaceOrder(c.Request().Context(), middleware.DeviceID(c), req.ProductID, req.Quantity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, order)
}

// ListOrders handles GET /v1/orders?status=&q=&page=&limit=
func (h *OrderHandler) ListOrders(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	orders, total, err := h.orderUseCase.ListOrders(
		c.Request().Context(),
		middleware.DeviceID(c),
		c.QueryParam("status"),
		c.QueryParam("q"),
		pagination,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, orders, int64(total), pagination.Page, pagination.PageSize)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Order ID is required", nil))
	}

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), middleware.DeviceID(c), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return response.Error(c, errors.BadRequest("Order ID is required", nil))
	}

	order, err := h.orderUseCase.CancelOrder(c.Request().Context(), middleware.DeviceID(c), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, order)
}
