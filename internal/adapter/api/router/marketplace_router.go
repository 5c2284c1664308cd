package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
)

func SetupMarketplaceRouter(v1 *echo.Group, marketplaceHandler *handler.MarketplaceHandler, auth echo.MiddlewareFunc) {
	v1.GET("/home", marketplaceHandler.Home)
	v1.GET("/categories", marketplaceHandler.Categories)

	v1.GET("/marketplace/stores", marketplaceHandler.ListStores, auth) // ?category=&q=&sort=&page=&limit=
	v1.GET("/stores/:id", marketplaceHandler.GetStore, auth)
	v1.GET("/products/:id", marketplaceHandler.GetProduct, auth)
}
