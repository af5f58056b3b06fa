package handler

import (
	"errors"
	"net/http"

	"salescrm/internal/compensation"
	"salescrm/internal/middleware"
	"salescrm/internal/service"
	"salescrm/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps service and compensation errors to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, compensation.ErrConfiguration), errors.Is(err, compensation.ErrRuleNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrValidation), errors.Is(err, compensation.ErrConsistency):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "Internal server error"
	}
	c.JSON(status, response.Error(status, msg))
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

// actorOrAbort returns the authenticated caller; RequireRole must run before the handler.
func actorOrAbort(c *gin.Context) (service.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Unauthorized"))
	}
	return actor, ok
}
