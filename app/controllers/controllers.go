// Package controllers translates HTTP requests into service calls and
// domain errors back into HTTP responses.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/ctx"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
)

// fail maps a domain error onto the corresponding HTTP response. Unknown
// errors become a logged 500.
func fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		c.NotFound("Resource not found")
	case errors.Is(err, apperr.ErrUnauthenticated):
		c.Unauthorized("")
	case errors.Is(err, apperr.ErrForbidden):
		c.Forbidden("Access denied")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		c.Unauthorized("Invalid username or password")
	case errors.Is(err, apperr.ErrUserExists):
		c.Error(http.StatusConflict, "Username or email already taken")
	case errors.Is(err, apperr.ErrEmptyCart):
		c.Error(http.StatusBadRequest, "Cart is empty")
	case errors.Is(err, apperr.ErrInvalidOtp):
		c.Error(http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, apperr.ErrOtpExpired):
		c.Error(http.StatusBadRequest, "OTP has expired")
	case errors.Is(err, apperr.ErrInvalidRating):
		c.Error(http.StatusUnprocessableEntity, "Rating must be between 1 and 5")
	case errors.Is(err, apperr.ErrValidation):
		c.Error(http.StatusUnprocessableEntity, err.Error())
	default:
		logger.WithCtx(c.Ctx()).Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
