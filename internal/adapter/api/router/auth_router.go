package router

import (
	"github.com/labstack/echo/v4"

	"vira/internal/adapter/api/handler"
	"vira/internal/adapter/api/middleware"
	"vira/internal/infrastructure/ratelimit"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(v1 *echo.Group, authHandler *handler.AuthHandler, auth echo.MiddlewareFunc, limiter *ratelimit.RateLimiter) {
	authLimit := middleware.RateLimit(limiter, middleware.ActionAuth)

	// Public routes
	v1.POST("/auth/signup", authHandler.Signup, authLimit)
	v1.POST("/auth/login", authHandler.Login, authLimit)

	// Protected routes
	v1.POST("/auth/logout", authHandler.Logout, auth)
	v1.GET("/auth/me", authHandler.Me, auth)
}
