package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"

	"vira/pkg/logger"
)

const (
	SessionName    = "vira_session"
	HeaderDeviceID = "X-Device-ID"

	sessionDeviceKey = "device"
	sessionMaxAge    = 365 * 24 * 60 * 60
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// DeviceMiddleware resolves the device partition of every request. Browsers
// are identified by a signed session cookie minted on first contact; other
// clients may name their device in the X-Device-ID header.
type DeviceMiddleware struct {
	store sessions.Store
}

func NewDeviceMiddleware(secret string, secure bool) *DeviceMiddleware {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &DeviceMiddleware{store: store}
}

func (m *DeviceMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		device := c.Request().Header.Get(HeaderDeviceID)
		if device != "" && !deviceIDPattern.MatchString(device) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid device id")
		}

		if device == "" {
			var err error
			if device, err = m.fromSession(c); err != nil {
				return err
			}
		}

		c.Set(ContextKeyDevice, device)
		c.Response().Header().Set(HeaderDeviceID, device)
		return next(c)
	}
}

func (m *DeviceMiddleware) fromSession(c echo.Context) (string, error) {
	// A cookie that fails to decode yields a fresh session.
	session, err := m.store.Get(c.Request(), SessionName)
	if err != nil {
		logger.Debug("Discarding unreadable session cookie: %v", err)
	}

	if device, ok := session.Values[sessionDeviceKey].(string); ok && device != "" {
		return device, nil
	}

	device := uuid.NewString()
	session.Values[sessionDeviceKey] = device
	if err := session.Save(c.Request(), c.Response()); err != nil {
		logger.Error("Failed to save session: %v", err)
		return "", echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
	}
	logger.Debug("New device session: %s", device)
	return device, nil
}
