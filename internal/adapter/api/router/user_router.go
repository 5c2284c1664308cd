package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
)

func SetupUserRouter(v1 *echo.Group, userHandler *handler.UserHandler, auth echo.MiddlewareFunc) {
	users := v1.Group("/users/me", auth)

	users.GET("", userHandler.GetProfile)
	users.PATCH("", userHandler.UpdateProfile)
	users.PUT("/password", userHandler.UpdatePassword)
	users.GET("/activity", userHandler.Activity) // Wallet-style history derived from orders
}
