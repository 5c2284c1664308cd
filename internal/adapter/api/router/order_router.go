package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
)

func SetupOrderRouter(v1 *echo.Group, orderHandler *handler.OrderHandler, auth echo.MiddlewareFunc) {
	orders := v1.Group("/orders", auth)

	orders.POST("", orderHandler.PlaceOrder)
	orders.GET("", orderHandler.ListOrders) // ?status=all|processing|shipped|completed|cancelled&q=
	orders.GET("/:id", orderHandler.GetOrder)
	orders.POST("/:id/cancel", orderHandler.CancelOrder)
}
