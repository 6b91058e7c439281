package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/scope"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/types"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// CommandsHandler handles the admin command-queue endpoints
type CommandsHandler struct {
	dispatcher *fleet.Dispatcher
}

// NewCommandsHandler creates a new commands handler
func NewCommandsHandler(dispatcher *fleet.Dispatcher) *CommandsHandler {
	return &CommandsHandler{dispatcher: dispatcher}
}

// SendCommand handles POST /devices/:id/command
// @Summary      Send a command to a device
// @Description  Queues a command for the device's next poll; maintenance and lock commands also apply their effect immediately
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Device id"
// @Param        request  body      types.SendCommandRequest  true  "Command and params"
// @Success      201      {object}  types.CommandResponse
// @Failure      400      {object}  types.ErrorResponse  "Unknown command or bad params"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/command [post]
func (h *CommandsHandler) SendCommand(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.SendCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "command is required")
		return
	}

	// Admin identity comes from the auth gateway; fall back to the
	// tenant id when no user header is present.
	sentBy := c.GetHeader("X-User-ID")
	if sentBy == "" {
		sentBy = scope.CompanyID(c)
	}

	cmd, err := h.dispatcher.Send(ctx, scope.CompanyID(c), c.Param("id"), req.Command, req.Params, sentBy)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.CommandResponse{Command: cmd})
}

// PendingCommands handles GET /devices/:id/commands
// @Summary      List a device's deliverable commands
// @Description  Pending commands inside their TTL, oldest first
// @Tags         commands
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.CommandListResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/commands [get]
func (h *CommandsHandler) PendingCommands(c *gin.Context) {
	ctx := c.Request.Context()

	commands, err := h.dispatcher.Pending(ctx, scope.CompanyID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CommandListResponse{
		Commands: commands,
		Count:    len(commands),
	})
}

// CommandHistory handles GET /devices/:id/command-history
// @Summary      Command audit trail for a device
// @Description  All commands regardless of status, newest first
// @Tags         commands
// @Produce      json
// @Param        id     path      string  true   "Device id"
// @Param        limit  query     int     false  "Max rows (default 50)"
// @Success      200    {object}  types.CommandListResponse
// @Failure      404    {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/command-history [get]
func (h *CommandsHandler) CommandHistory(c *gin.Context) {
	ctx := c.Request.Context()

	limit, _ := strconv.Atoi(c.Query("limit"))

	commands, err := h.dispatcher.History(ctx, scope.CompanyID(c), c.Param("id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CommandListResponse{
		Commands: commands,
		Count:    len(commands),
	})
}

// SendNotification handles POST /devices/:id/send-notification
// @Summary      Notify a device
// @Description  Queues a notification command and attempts a best-effort push; the queue is the channel of record
// @Tags         commands
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Device id"
// @Param        request  body      types.NotifyRequest true  "Notification content"
// @Success      201      {object}  types.CommandResponse
// @Failure      400      {object}  types.ErrorResponse  "Device has no FCM token"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/send-notification [post]
func (h *CommandsHandler) SendNotification(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "title is required")
		return
	}

	cmd, err := h.dispatcher.Notify(ctx, scope.CompanyID(c), c.Param("id"), req.Title, req.Body, req.Data)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.CommandResponse{Command: cmd})
}
