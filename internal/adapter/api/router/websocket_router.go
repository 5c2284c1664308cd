package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
)

// SetupWebSocketRouter sets up the storage change feed. Browsers pass the
// token as ?access_token= since they cannot set headers on the upgrade.
func SetupWebSocketRouter(v1 *echo.Group, wsHandler *handler.WebSocketHandler, auth echo.MiddlewareFunc) {
	v1.GET("/ws", wsHandler.HandleWebSocket, auth)
}
