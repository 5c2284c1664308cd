package middleware

import (
	"github.com/labstack/echo/v4"

	"vira/internal/domain/entity"
)

const (
	ContextKeyDevice  = "device"
	ContextKeyUser    = "user"
	ContextKeySession = "session"
)

// DeviceID returns the device resolved by DeviceMiddleware, or "".
func DeviceID(c echo.Context) string {
	device, _ := c.Get(ContextKeyDevice).(string)
	return device
}

func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(ContextKeyUser).(*entity.User)
	return user
}

func CurrentSession(c echo.Context) *entity.Session {
	session, _ := c.Get(ContextKeySession).(*entity.Session)
	return session
}
