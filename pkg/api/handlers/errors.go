package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/types"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// writeError maps domain errors to HTTP responses. Every handler
// funnels through here so a given failure always produces the same
// status and error code.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, fleet.ErrDeviceNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "device_not_found",
			Message: "Device not found",
		})
	case errors.Is(err, fleet.ErrCommandNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "command_not_found",
			Message: "Command not found",
		})
	case errors.Is(err, fleet.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "invalid_code",
			Message: "Activation code is invalid or has already been used",
		})
	case errors.Is(err, fleet.ErrCodeExpired):
		c.JSON(http.StatusGone, types.ErrorResponse{
			Error:   "code_expired",
			Message: "Activation code has expired",
		})
	case errors.Is(err, fleet.ErrDuplicateName):
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "duplicate_name",
			Message: "An active device with this name already exists",
		})
	case errors.Is(err, fleet.ErrDuplicateDeviceID):
		c.JSON(http.StatusConflict, types.ErrorResponse{
			Error:   "duplicate_device_id",
			Message: "A device with this device id is already registered",
		})
	case errors.Is(err, fleet.ErrUnknownCommand):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "unknown_command",
			Message: err.Error(),
		})
	case errors.Is(err, fleet.ErrNoFCMToken):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "no_fcm_token",
			Message: "Device has no FCM token; register one via POST /device/fcm-token first",
		})
	case errors.Is(err, fleet.ErrValidation):
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, fleet.ErrOutsideHours):
		c.JSON(http.StatusForbidden, types.ErrorResponse{
			Error:   "outside_operating_hours",
			Message: "Device is outside its operating hours",
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}
