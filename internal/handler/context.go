package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"consignparts/internal/auth"
)

// claimsFrom extracts the authenticated user's claims set by the JWT
// middleware.
func claimsFrom(c echo.Context) (*auth.Claims, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims, nil
}

// AdminOnly rejects requests whose token does not carry the admin claim.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := claimsFrom(c)
		if err != nil {
			return err
		}
		if !claims.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "access denied")
		}
		return next(c)
	}
}
