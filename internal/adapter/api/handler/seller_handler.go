package handler

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/middleware"
	"vira/internal/usecase"
	"vira/pkg/response"
)

type SellerHandler struct {
	sellerUseCase *usecase.SellerUseCase
}

func NewSellerHandler(sellerUseCase *usecase.SellerUseCase) *SellerHandler {
	return &SellerHandler{
		sellerUseCase: sellerUseCase,
	}
}

// GetStore handles GET /v1/seller/store?status=all|active|low_stock|out_of_stock
func (h *SellerHandler) GetStore(c echo.Context) error {
	store, err := h.sellerUseCase.GetSellerStore(c.Request().Context(), middleware.DeviceID(c), c.QueryParam("status"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, store)
}

func (h *SellerHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.sellerUseCase.Dashboard(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, dashboard)
}
