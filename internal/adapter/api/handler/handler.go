package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"vira/internal/infrastructure/localstorage"
	ws "vira/internal/infrastructure/websocket"
	"vira/internal/usecase"
	"vira/pkg/errors"
)

type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	User        *UserHandler
	Marketplace *MarketplaceHandler
	Order       *OrderHandler
	Chat        *ChatHandler
	Favorite    *FavoriteHandler
	Seller      *SellerHandler
	WebSocket   *WebSocketHandler
}

type UseCases struct {
	Auth        *usecase.AuthUseCase
	User        *usecase.UserUseCase
	Marketplace *usecase.MarketplaceUseCase
	Order       *usecase.OrderUseCase
	Chat        *usecase.ChatUseCase
	Favorite    *usecase.FavoriteUseCase
	Seller      *usecase.SellerUseCase
}

func Setup(uc UseCases, storage localstorage.Storage, wsManager *ws.Manager) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(storage),
		Auth:        NewAuthHandler(uc.Auth),
		User:        NewUserHandler(uc.User),
		Marketplace: NewMarketplaceHandler(uc.Marketplace),
		Order:       NewOrderHandler(uc.Order),
		Chat:        NewChatHandler(uc.Chat),
		Favorite:    NewFavoriteHandler(uc.Favorite),
		Seller:      NewSellerHandler(uc.Seller),
		WebSocket:   NewWebSocketHandler(wsManager),
	}
}

func intParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid "+name, err)
	}
	return id, nil
}
