package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/scope"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/types"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// DevicesHandler handles the admin device CRUD and lifecycle endpoints
type DevicesHandler struct {
	registry *fleet.Registry
}

// NewDevicesHandler creates a new devices handler
func NewDevicesHandler(registry *fleet.Registry) *DevicesHandler {
	return &DevicesHandler{registry: registry}
}

// RegisterDevice handles POST /devices
// @Summary      Register a device
// @Description  Creates a device in the tenant, active or pre-provisioned for QR activation
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        request  body      types.RegisterDeviceRequest  true  "Device to register"
// @Success      201      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request"
// @Failure      409      {object}  types.ErrorResponse  "Duplicate device name"
// @Router       /devices [post]
func (h *DevicesHandler) RegisterDevice(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "name is required")
		return
	}

	d, err := h.registry.Register(ctx, scope.CompanyID(c), fleet.RegisterRequest{
		DeviceID:      req.DeviceID,
		Name:          req.Name,
		Type:          req.Type,
		Location:      req.Location,
		Manufacturer:  req.Manufacturer,
		Model:         req.Model,
		IPAddress:     req.IPAddress,
		Capabilities:  req.Capabilities,
		AccessControl: req.AccessControl,
		Config:        req.Config,
		Status:        req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.DeviceResponse{
		Device: types.NewDeviceView(d, time.Now()),
	})
}

// ListDevices handles GET /devices
// @Summary      List devices
// @Description  Returns every device in the tenant with derived liveness
// @Tags         devices
// @Produce      json
// @Success      200  {object}  types.ListDevicesResponse
// @Router       /devices [get]
func (h *DevicesHandler) ListDevices(c *gin.Context) {
	ctx := c.Request.Context()

	devices, err := h.registry.List(ctx, scope.CompanyID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	now := time.Now()
	views := make([]types.DeviceView, 0, len(devices))
	for _, d := range devices {
		views = append(views, types.NewDeviceView(d, now))
	}

	c.JSON(http.StatusOK, types.ListDevicesResponse{
		Devices: views,
		Count:   len(views),
	})
}

// GetDevice handles GET /devices/:id
// @Summary      Get device details
// @Tags         devices
// @Produce      json
// @Param        id   path      string  true  "Device id"
// @Success      200  {object}  types.DeviceResponse
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id} [get]
func (h *DevicesHandler) GetDevice(c *gin.Context) {
	ctx := c.Request.Context()

	d, err := h.registry.Get(ctx, scope.CompanyID(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{
		Device: types.NewDeviceView(d, time.Now()),
	})
}

// UpdateDevice handles PUT /devices/:id
// @Summary      Update a device
// @Description  Edits descriptive and configuration fields; absent fields are untouched
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Device id"
// @Param        request  body      types.UpdateDeviceRequest true  "Fields to change"
// @Success      200      {object}  types.DeviceResponse
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Failure      409      {object}  types.ErrorResponse  "Duplicate device name"
// @Router       /devices/{id} [put]
func (h *DevicesHandler) UpdateDevice(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid request body")
		return
	}

	d, err := h.registry.Update(ctx, scope.CompanyID(c), c.Param("id"), fleet.UpdateRequest{
		Name:          req.Name,
		Type:          req.Type,
		Location:      req.Location,
		Capabilities:  req.Capabilities,
		AccessControl: req.AccessControl,
		Config:        req.Config,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{
		Device: types.NewDeviceView(d, time.Now()),
	})
}

// UpdateStatus handles PATCH /devices/:id/status
// @Summary      Change device status
// @Description  Routes through the single status transition function
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Device id"
// @Param        request  body      types.UpdateStatusRequest true  "New status"
// @Success      200      {object}  types.DeviceResponse
// @Failure      400      {object}  types.ErrorResponse  "Unknown status"
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/status [patch]
func (h *DevicesHandler) UpdateStatus(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req types.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "status is required")
		return
	}

	if err := h.registry.ChangeStatus(ctx, scope.CompanyID(c), id, req.Status); err != nil {
		writeError(c, err)
		return
	}

	d, err := h.registry.Get(ctx, scope.CompanyID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{
		Device: types.NewDeviceView(d, time.Now()),
	})
}

// UpdateLock handles PATCH /devices/:id/lock
// @Summary      Lock or unlock a device
// @Tags         devices
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Device id"
// @Param        request  body      types.UpdateLockRequest true  "Lock state"
// @Success      200      {object}  types.DeviceResponse
// @Failure      404      {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id}/lock [patch]
func (h *DevicesHandler) UpdateLock(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var req types.UpdateLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "locked is required")
		return
	}

	if err := h.registry.SetLocked(ctx, scope.CompanyID(c), id, *req.Locked); err != nil {
		writeError(c, err)
		return
	}

	d, err := h.registry.Get(ctx, scope.CompanyID(c), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DeviceResponse{
		Device: types.NewDeviceView(d, time.Now()),
	})
}

// DeactivateDevice handles DELETE /devices/:id
// @Summary      Deactivate a device
// @Description  Soft delete; the record is retained with status inactive
// @Tags         devices
// @Produce      json
// @Param        id   path  string  true  "Device id"
// @Success      204  "Device deactivated"
// @Failure      404  {object}  types.ErrorResponse  "Device not found"
// @Router       /devices/{id} [delete]
func (h *DevicesHandler) DeactivateDevice(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.registry.Deactivate(ctx, scope.CompanyID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// FleetStats handles GET /devices/stats
// @Summary      Fleet summary
// @Description  Totals with liveness recomputed from last_seen on every call
// @Tags         devices
// @Produce      json
// @Success      200  {object}  fleet.Stats
// @Router       /devices/stats [get]
func (h *DevicesHandler) FleetStats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.registry.FleetStats(ctx, scope.CompanyID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
