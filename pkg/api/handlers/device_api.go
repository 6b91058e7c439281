package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/scope"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/types"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// DeviceAPIHandler handles the device-facing surface: activation,
// heartbeats, command pickup and acknowledgment. Devices poll; the
// server never calls out to them.
type DeviceAPIHandler struct {
	registry   *fleet.Registry
	dispatcher *fleet.Dispatcher
}

// NewDeviceAPIHandler creates a new device API handler
func NewDeviceAPIHandler(registry *fleet.Registry, dispatcher *fleet.Dispatcher) *DeviceAPIHandler {
	return &DeviceAPIHandler{registry: registry, dispatcher: dispatcher}
}

// Activate handles POST /device/activate
// @Summary      Activate a device
// @Description  Redeems a single-use activation or QR code; this is the bootstrap step, no prior device identity required
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      types.ActivateRequest  true  "Code and self-reported device info"
// @Success      200      {object}  types.ActivateResponse
// @Failure      404      {object}  types.ErrorResponse  "Code invalid or already used"
// @Failure      409      {object}  types.ErrorResponse  "Device id registered to another tenant"
// @Failure      410      {object}  types.ErrorResponse  "Code expired"
// @Router       /device/activate [post]
func (h *DeviceAPIHandler) Activate(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "code is required")
		return
	}

	d, err := h.registry.Activate(ctx, req.Code, req.DeviceInfo)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ActivateResponse{
		Device:  types.NewDeviceView(d, time.Now()),
		Company: types.CompanyInfo{ID: d.CompanyID},
	})
}

// Heartbeat handles POST /device/heartbeat
// @Summary      Report liveness and pick up commands
// @Description  One combined round trip: records last_seen, merges any reported telemetry fields, returns the pending queue
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      fleet.Info  true  "Optional telemetry; absent fields keep their stored value"
// @Success      200      {object}  types.HeartbeatResponse
// @Failure      401      {object}  types.ErrorResponse  "Missing device identity"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Router       /device/heartbeat [post]
func (h *DeviceAPIHandler) Heartbeat(c *gin.Context) {
	ctx := c.Request.Context()
	deviceID := scope.DeviceID(c)

	// Bind whatever body is present; chunked requests report no
	// ContentLength, so an empty body is detected by EOF instead.
	var info fleet.Info
	if err := c.ShouldBindJSON(&info); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(c, "Invalid request body")
		return
	}

	if err := h.registry.Heartbeat(ctx, deviceID, &info); err != nil {
		writeError(c, err)
		return
	}

	pending, err := h.dispatcher.Pending(ctx, "", deviceID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.HeartbeatResponse{
		PendingCommands: envelopes(pending),
	})
}

// PendingCommands handles GET /device/commands
// @Summary      Poll for pending commands
// @Description  Alternate pickup path for devices that do not use the combined heartbeat
// @Tags         device
// @Produce      json
// @Success      200  {object}  types.PendingCommandsResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /device/commands [get]
func (h *DeviceAPIHandler) PendingCommands(c *gin.Context) {
	ctx := c.Request.Context()

	pending, err := h.dispatcher.Pending(ctx, "", scope.DeviceID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.PendingCommandsResponse{
		Commands: envelopes(pending),
		Count:    len(pending),
	})
}

// AckCommand handles POST /device/command/:commandId/ack
// @Summary      Acknowledge a command
// @Description  Closes the command exactly once; re-sent acks for an already-terminal command succeed without changing anything
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        commandId  path      string           true  "Command id"
// @Param        request    body      types.AckRequest true  "Outcome"
// @Success      200        {object}  types.AckResponse
// @Failure      404        {object}  types.ErrorResponse  "Command not found"
// @Router       /device/command/{commandId}/ack [post]
func (h *DeviceAPIHandler) AckCommand(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.AckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "success is required")
		return
	}

	if err := h.dispatcher.Ack(ctx, scope.DeviceID(c), c.Param("commandId"), *req.Success, req.Result, req.Error); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AckResponse{Status: "ok"})
}

// SetFCMToken handles POST /device/fcm-token
// @Summary      Register a push token
// @Tags         device
// @Accept       json
// @Produce      json
// @Param        request  body      types.FCMTokenRequest  true  "Token"
// @Success      200      {object}  types.AckResponse
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Router       /device/fcm-token [post]
func (h *DeviceAPIHandler) SetFCMToken(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.FCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "fcm_token is required")
		return
	}

	if err := h.registry.SetFCMToken(ctx, scope.DeviceID(c), req.FCMToken); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AckResponse{Status: "ok"})
}

// CheckInGate handles POST /device/check-in
// @Summary      Operating-hours gate ahead of a visitor check-in
// @Description  Rejects with 403 outside the device's configured window; the check-in itself is processed by the visitor service
// @Tags         device
// @Produce      json
// @Success      200  {object}  types.CheckInGateResponse
// @Failure      403  {object}  types.ErrorResponse  "Outside operating hours"
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /device/check-in [post]
func (h *DeviceAPIHandler) CheckInGate(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.registry.GateCheckIn(ctx, scope.DeviceID(c)); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.CheckInGateResponse{Allowed: true})
}

func envelopes(commands []*fleet.Command) []types.CommandEnvelope {
	out := make([]types.CommandEnvelope, 0, len(commands))
	for _, cmd := range commands {
		out = append(out, types.NewCommandEnvelope(cmd))
	}
	return out
}
