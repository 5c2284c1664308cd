package middleware

import (
	"github.com/labstack/echo/v4"

	"vira/pkg/errors"
	"vira/pkg/response"
)

// SellerOnly admits accounts that have opened a store. It must run after
// Authenticate.
func SellerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}
		if !user.HasStore {
			return response.Error(c, errors.Forbidden("Open a store to access seller tools", nil))
		}
		return next(c)
	}
}
