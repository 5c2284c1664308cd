package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
	"vira/internal/adapter/api/middleware"
)

func SetupSellerRouter(v1 *echo.Group, sellerHandler *handler.SellerHandler, userHandler *handler.UserHandler, auth echo.MiddlewareFunc) {
	// Opening a store is how an account becomes a seller
	v1.POST("/seller/store", userHandler.OpenStore, auth)

	v1.GET("/seller/store", sellerHandler.GetStore, auth, middleware.SellerOnly)
	v1.GET("/dashboard", sellerHandler.Dashboard, auth, middleware.SellerOnly)
}
