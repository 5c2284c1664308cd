package handler

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/middleware"
	"vira/internal/usecase"
	"vira/pkg/response"
	"vira/pkg/utils"
)

type MarketplaceHandler struct {
	marketplaceUseCase *usecase.MarketplaceUseCase
}

func NewMarketplaceHandler(marketplaceUseCase *usecase.MarketplaceUseCase) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceUseCase: marketplaceUseCase,
	}
}

func (h *MarketplaceHandler) Home(c echo.Context) error {
	home, err := h.marketplaceUseCase.Home(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, home)
}

func (h *MarketplaceHandler) Categories(c echo.Context) error {
	return response.Success(c, h.marketplaceUseCase.Categories())
}

// ListStores handles GET /v1/marketplace/stores?category=&q=&sort=&page=&limit=
func (h *MarketplaceHandler) ListStores(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	stores, total, err := h.marketplaceUseCase.ListStores(c.Request().Context(), middleware.DeviceID(c), usecase.StoreFilter{
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
		Sort:     c.QueryParam("sort"),
	}, pagination)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, stores, int64(total), pagination.Page, pagination.PageSize)
}

func (h *MarketplaceHandler) GetStore(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	store, err := h.marketplaceUseCase.GetStore(c.Request().Context(), middleware.DeviceID(c), id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, store)
}

func (h *MarketplaceHandler) GetProduct(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return response.Error(c, err)
	}

	product, err := h.marketplaceUseCase.GetProduct(id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}
