package fleet

import (
	"time"
)

// Device represents a check-in kiosk or tablet deployed at a site.
// Devices sit behind NAT and only ever talk to the server outbound,
// so all state here is maintained from inbound HTTP calls.
type Device struct {
	ID        string `json:"id"`
	DeviceID  string `json:"device_id"`
	CompanyID string `json:"company_id"`

	Name            string `json:"name"`
	Type            string `json:"type"`
	Location        string `json:"location,omitempty"`
	Manufacturer    string `json:"manufacturer,omitempty"`
	Model           string `json:"model,omitempty"`
	FirmwareVersion string `json:"firmware_version,omitempty"`
	OSVersion       string `json:"os_version,omitempty"`
	IPAddress       string `json:"ip_address,omitempty"`

	Status        Status         `json:"status"`
	Locked        bool           `json:"locked"`
	LastSeen      *time.Time     `json:"last_seen,omitempty"`
	LastHeartbeat *time.Time     `json:"last_heartbeat,omitempty"`
	Metrics       map[string]any `json:"metrics,omitempty"`
	BatteryLevel  *int           `json:"battery_level,omitempty"`

	Capabilities  []string       `json:"capabilities,omitempty"`
	AccessControl *AccessControl `json:"access_control,omitempty"`
	Config        map[string]any `json:"config,omitempty"`

	FCMToken          string     `json:"fcm_token,omitempty"`
	FCMTokenUpdatedAt *time.Time `json:"fcm_token_updated_at,omitempty"`

	ActivatedAt   *time.Time `json:"activated_at,omitempty"`
	ActivatedWith string     `json:"activated_with,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUpdated   time.Time  `json:"last_updated"`
}

// Status is the device's operational mode. It is the single source of
// truth: every mutation goes through Registry.ChangeStatus.
type Status string

const (
	StatusPendingActivation Status = "pending_activation"
	StatusActive            Status = "active"
	StatusInactive          Status = "inactive"
	StatusMaintenance       Status = "maintenance"
)

// ValidStatus reports whether s is a known device status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPendingActivation, StatusActive, StatusInactive, StatusMaintenance:
		return true
	}
	return false
}

// OnlineWindow is how recently a device must have been seen to count
// as online. Liveness is always derived from LastSeen, never stored.
const OnlineWindow = 5 * time.Minute

// Online reports whether the device has been seen within the online
// window as of now.
func (d *Device) Online(now time.Time) bool {
	return d.LastSeen != nil && now.Sub(*d.LastSeen) < OnlineWindow
}

// AccessControl restricts what a device will admit. Only the
// operating-hours gate is enforced here; zone and visitor-type checks
// belong to the access-control service upstream.
type AccessControl struct {
	AllowedZones          []string        `json:"allowed_zones,omitempty"`
	AllowedVisitorTypes   []string        `json:"allowed_visitor_types,omitempty"`
	MaxConcurrentVisitors int             `json:"max_concurrent_visitors,omitempty"`
	OperatingHours        *OperatingHours `json:"operating_hours,omitempty"`
	RequireApproval       bool            `json:"require_approval,omitempty"`
	AllowWalkIns          bool            `json:"allow_walk_ins,omitempty"`
}

// OperatingHours is an inclusive daily window in "HH:MM". A window
// with Start > End wraps past midnight.
type OperatingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether t falls inside the window.
func (h *OperatingHours) Contains(t time.Time) bool {
	hm := t.Format("15:04")
	if h.Start <= h.End {
		return hm >= h.Start && hm <= h.End
	}
	return hm >= h.Start || hm <= h.End
}

// Info carries metadata a device reports about itself during
// activation and heartbeats. Nil/empty fields were not reported and
// must leave the stored value untouched.
type Info struct {
	DeviceID        string         `json:"device_id,omitempty"`
	Name            string         `json:"name,omitempty"`
	Type            string         `json:"type,omitempty"`
	Manufacturer    string         `json:"manufacturer,omitempty"`
	Model           string         `json:"model,omitempty"`
	FirmwareVersion string         `json:"firmware_version,omitempty"`
	OSVersion       string         `json:"os_version,omitempty"`
	IPAddress       string         `json:"ip_address,omitempty"`
	BatteryLevel    *int           `json:"battery_level,omitempty"`
	Metrics         map[string]any `json:"metrics,omitempty"`
	Status          Status         `json:"status,omitempty"`
	FCMToken        string         `json:"fcm_token,omitempty"`
}

// Stats is a point-in-time fleet summary. Online/offline are computed
// against the online window at read time.
type Stats struct {
	Total    int            `json:"total"`
	Online   int            `json:"online"`
	Offline  int            `json:"offline"`
	Locked   int            `json:"locked"`
	ByStatus map[Status]int `json:"by_status"`
}
