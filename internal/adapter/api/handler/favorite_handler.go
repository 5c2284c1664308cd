package handler

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/middleware"
	"vira/internal/usecase"
	"vira/pkg/response"
)

type FavoriteHandler struct {
	favoriteUseCase *usecase.FavoriteUseCase
}

func NewFavoriteHandler(favoriteUseCase *usecase.FavoriteUseCase) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteUseCase: favoriteUseCase,
	}
}

type favoriteStatus struct {
	StoreID    int  `json:"storeId"`
	IsFavorite bool `json:"isFavorite"`
}

func (h *FavoriteHandler) List(c echo.Context) error {
	stores, err := h.favoriteUseCase.List(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stores)
}

func (h *FavoriteHandler) Count(c echo.Context) error {
	count, err := h.favoriteUseCase.Count(c.Request().Context(), middleware.DeviceID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"count": count})
}

func (h *FavoriteHandler) Status(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return response.Error(c, err)
	}

	ok, err := h.favoriteUseCase.IsFavorite(c.Request().Context(), middleware.DeviceID(c), storeID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favoriteStatus{StoreID: storeID, IsFavorite: ok})
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.favoriteUseCase.Add(c.Request().Context(), middleware.DeviceID(c), storeID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favoriteStatus{StoreID: storeID, IsFavorite: true})
}

func (h *FavoriteHandler) Remove(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.favoriteUseCase.Remove(c.Request().Context(), middleware.DeviceID(c), storeID); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favoriteStatus{StoreID: storeID, IsFavorite: false})
}

func (h *FavoriteHandler) Toggle(c echo.Context) error {
	storeID, err := intParam(c, "storeId")
	if err != nil {
		return response.Error(c, err)
	}

	on, err := h.favoriteUseCase.Toggle(c.Request().Context(), middleware.DeviceID(c), storeID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, favoriteStatus{StoreID: storeID, IsFavorite: on})
}
