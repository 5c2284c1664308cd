package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"vira/internal/infrastructure/localstorage"
)

const healthProbeDevice = "healthcheck"

type HealthHandler struct {
	storage localstorage.Storage
}

func NewHealthHandler(storage localstorage.Storage) *HealthHandler {
	return &HealthHandler{
		storage: storage,
	}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckStorageHealth(c echo.Context) error {
	if _, _, err := h.storage.Get(c.Request().Context(), healthProbeDevice, "ping"); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Storage unavailable",
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Storage reachable",
	})
}
