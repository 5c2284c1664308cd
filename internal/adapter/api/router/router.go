package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
	"vira/internal/adapter/api/middleware"
	"vira/internal/infrastructure/ratelimit"
)

type Middlewares struct {
	Device  *middleware.DeviceMiddleware
	Auth    *middleware.AuthMiddleware
	Limiter *ratelimit.RateLimiter
}

// Setup mounts every route. All /v1 routes get a device; everything except
// home, categories, signup and login also requires a session token. Auth is
// attached per resource so unknown /v1 paths still answer 404.
func Setup(e *echo.Echo, h *handler.Handlers, mw Middlewares) {
	SetupHealthRouter(e, h.Health)

	v1 := e.Group("/v1", mw.Device.Identify, middleware.RateLimit(mw.Limiter, middleware.ActionGeneral))
	auth := mw.Auth.Authenticate

	SetupAuthRouter(v1, h.Auth, auth, mw.Limiter)
	SetupMarketplaceRouter(v1, h.Marketplace, auth)
	SetupUserRouter(v1, h.User, auth)
	SetupOrderRouter(v1, h.Order, auth)
	SetupChatRouter(v1, h.Chat, auth)
	SetupFavoriteRouter(v1, h.Favorite, auth)
	SetupSellerRouter(v1, h.Seller, h.User, auth)
	SetupWebSocketRouter(v1, h.WebSocket, auth)
}
