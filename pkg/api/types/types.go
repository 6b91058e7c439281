package types

import (
	"time"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// --- Request DTOs ---

// RegisterDeviceRequest is the request body for POST /devices
type RegisterDeviceRequest struct {
	DeviceID      string               `json:"device_id"`
	Name          string               `json:"name" binding:"required"`
	Type          string               `json:"type"`
	Location      string               `json:"location"`
	Manufacturer  string               `json:"manufacturer"`
	Model         string               `json:"model"`
	IPAddress     string               `json:"ip_address"`
	Capabilities  []string             `json:"capabilities"`
	AccessControl *fleet.AccessControl `json:"access_control"`
	Config        map[string]any       `json:"config"`
	Status        fleet.Status         `json:"status"`
}

// UpdateDeviceRequest is the request body for PUT /devices/:id.
// Absent fields are left untouched.
type UpdateDeviceRequest struct {
	Name          *string              `json:"name"`
	Type          *string              `json:"type"`
	Location      *string              `json:"location"`
	Capabilities  []string             `json:"capabilities"`
	AccessControl *fleet.AccessControl `json:"access_control"`
	Config        map[string]any       `json:"config"`
}

// UpdateStatusRequest is the request body for PATCH /devices/:id/status
type UpdateStatusRequest struct {
	Status fleet.Status `json:"status" binding:"required"`
}

// UpdateLockRequest is the request body for PATCH /devices/:id/lock
type UpdateLockRequest struct {
	Locked *bool `json:"locked" binding:"required"`
}

// GenerateCodesRequest is the request body for POST /activation-codes
type GenerateCodesRequest struct {
	Count          int `json:"count"`
	ExpiresInHours int `json:"expires_in_hours"`
}

// QRPayloadRequest is the request body for POST /qr-payload
type QRPayloadRequest struct {
	DeviceName     string `json:"device_name"`
	DeviceType     string `json:"device_type"`
	ExpiresInHours int    `json:"expires_in_hours"`
}

// SendCommandRequest is the request body for POST /devices/:id/command
type SendCommandRequest struct {
	Command string         `json:"command" binding:"required"`
	Params  map[string]any `json:"params"`
}

// NotifyRequest is the request body for POST /devices/:id/send-notification
type NotifyRequest struct {
	Title string         `json:"title" binding:"required"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data"`
}

// ActivateRequest is the request body for POST /device/activate
type ActivateRequest struct {
	Code       string     `json:"code" binding:"required"`
	DeviceInfo fleet.Info `json:"device_info"`
}

// AckRequest is the request body for POST /device/command/:commandId/ack
type AckRequest struct {
	Success *bool          `json:"success" binding:"required"`
	Result  map[string]any `json:"result"`
	Error   string         `json:"error"`
}

// FCMTokenRequest is the request body for POST /device/fcm-token
type FCMTokenRequest struct {
	FCMToken string `json:"fcm_token" binding:"required"`
}

// --- Response DTOs ---

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is returned from GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// DeviceView is a device record with its derived liveness. Online is
// computed against LastSeen on every read, never stored.
type DeviceView struct {
	fleet.Device
	Online bool `json:"online"`
}

// NewDeviceView derives the view at the given instant.
func NewDeviceView(d *fleet.Device, now time.Time) DeviceView {
	return DeviceView{Device: *d, Online: d.Online(now)}
}

// DeviceResponse is returned from endpoints yielding one device
type DeviceResponse struct {
	Device DeviceView `json:"device"`
}

// ListDevicesResponse is returned from GET /devices
type ListDevicesResponse struct {
	Devices []DeviceView `json:"devices"`
	Count   int          `json:"count"`
}

// CompanyInfo is the display info returned with activation. The
// tenant directory is an external service; only the id is known here.
type CompanyInfo struct {
	ID string `json:"id"`
}

// ActivateResponse is returned from POST /device/activate
type ActivateResponse struct {
	Device  DeviceView  `json:"device"`
	Company CompanyInfo `json:"company"`
}

// CodeSummary is one generated activation code
type CodeSummary struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GenerateCodesResponse is returned from POST /activation-codes
type GenerateCodesResponse struct {
	Codes []CodeSummary `json:"codes"`
	Count int           `json:"count"`
}

// CommandResponse is returned from POST /devices/:id/command
type CommandResponse struct {
	Command *fleet.Command `json:"command"`
}

// CommandListResponse is returned from the admin command listings
type CommandListResponse struct {
	Commands []*fleet.Command `json:"commands"`
	Count    int              `json:"count"`
}

// CommandEnvelope is the command JSON delivered to a device
type CommandEnvelope struct {
	CommandID string         `json:"command_id"`
	Command   string         `json:"command"`
	Params    map[string]any `json:"params,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// NewCommandEnvelope converts a queued command to its device-facing shape.
func NewCommandEnvelope(c *fleet.Command) CommandEnvelope {
	return CommandEnvelope{
		CommandID: c.ID,
		Command:   c.Command,
		Params:    c.Params,
		CreatedAt: c.CreatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}

// HeartbeatResponse is returned from POST /device/heartbeat
type HeartbeatResponse struct {
	PendingCommands []CommandEnvelope `json:"pending_commands"`
}

// PendingCommandsResponse is returned from GET /device/commands
type PendingCommandsResponse struct {
	Commands []CommandEnvelope `json:"commands"`
	Count    int               `json:"count"`
}

// AckResponse is returned from POST /device/command/:commandId/ack
type AckResponse struct {
	Status string `json:"status"`
}

// CheckInGateResponse is returned from POST /device/check-in
type CheckInGateResponse struct {
	Allowed bool `json:"allowed"`
}
