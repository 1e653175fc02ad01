// Package handler exposes the console services over HTTP.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"zapmanager/internal/auth"
	"zapmanager/internal/errors"
	"zapmanager/internal/service"
)

// SuccessResponse is returned by mutations that carry no payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// MessageResponse carries a human readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError converts a service error into an echo HTTP error with the standard error body.
func respondError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req interface{}) *echo.HTTPError {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error:   errors.ErrValidation.Error(),
			Code:    "VALIDATION_ERROR",
			Details: err.Error(),
		})
	}
	return nil
}

// claimsFrom returns the verified token claims stored by the auth middleware, or nil.
func claimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(auth.ClaimsContextKey).(*auth.Claims)
	return claims
}

// actorFrom identifies the caller for audit records.
func actorFrom(c echo.Context) service.Actor {
	claims := claimsFrom(c)
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: claims.UserID, Username: claims.Username}
}
