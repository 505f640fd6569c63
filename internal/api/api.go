package api

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"medifinder/internal/service"
)

// claims pulls the parsed token claims that the JWT middleware stored on
// the request context.
func claims(c echo.Context) (*service.UserClaims, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	uc, ok := token.Claims.(*service.UserClaims)
	return uc, ok
}

// RequirePharmacy rejects dashboard requests from non-pharmacy accounts.
func RequirePharmacy(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uc, ok := claims(c)
		if !ok {
			return c.JSON(401, map[string]string{"error": "Invalid or expired token"})
		}
		if uc.Role != "pharmacy" {
			return c.JSON(403, map[string]string{"error": "Pharmacy account required"})
		}
		return next(c)
	}
}

// errJSON maps service errors onto HTTP status codes.
func errJSON(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrInsufficientStock):
		return c.JSON(400, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(401, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(404, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(409, map[string]string{"error": err.Error()})
	default:
		return c.JSON(500, map[string]string{"error": err.Error()})
	}
}
