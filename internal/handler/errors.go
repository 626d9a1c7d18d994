package handler

import (
	"errors"
	"net/http"

	"taxreturn/internal/middleware"
	"taxreturn/internal/service"
	"taxreturn/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes. Unknown errors are server faults.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidDeclaration),
		errors.Is(err, service.ErrInvalidTimeRange):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrFilingNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrFilingInReview),
		errors.Is(err, service.ErrReviewNotPending),
		errors.Is(err, service.ErrReviewAlreadyPending),
		errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

// actor reads the caller set by middleware.RequireRole.
func actor(c *gin.Context) (service.Actor, bool) {
	userID, role := middleware.CurrentUser(c)
	a, err := service.NewActor(userID, role)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "User ID not found in context"))
		return service.Actor{}, false
	}
	return a, true
}
