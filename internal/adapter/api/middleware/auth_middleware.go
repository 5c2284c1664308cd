package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"vira/internal/usecase"
	"vira/pkg/errors"
	"vira/pkg/response"
)

type AuthMiddleware struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthMiddleware(authUseCase *usecase.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
	}
}

// Authenticate requires a bearer token issued to the request's device for
// the account the device still holds. It must run after DeviceMiddleware.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			// Browsers cannot set headers on websocket upgrades.
			if token := c.QueryParam("access_token"); token != "" && c.IsWebSocket() {
				authHeader = "Bearer " + token
			} else {
				return response.Error(c, errors.Unauthorized("Authorization header is required", nil))
			}
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return response.Error(c, errors.Unauthorized("Invalid authorization format", nil))
		}

		device := DeviceID(c)
		if device == "" {
			return response.Error(c, errors.Unauthorized("Unknown device", nil))
		}

		user, session, err := m.authUseCase.Authenticate(c.Request().Context(), device, parts[1])
		if err != nil {
			return response.Error(c, err)
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeySession, session)
		return next(c)
	}
}
