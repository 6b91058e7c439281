package fleet

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

// DeviceStore persists device records.
type DeviceStore interface {
	Create(ctx context.Context, d *Device) error
	Get(ctx context.Context, deviceID string) (*Device, error)
	List(ctx context.Context, companyID string) ([]*Device, error)
	ActiveNameExists(ctx context.Context, companyID, name string) (bool, error)
	Update(ctx context.Context, d *Device) error
	UpdateStatus(ctx context.Context, deviceID string, status Status) error
	SetLocked(ctx context.Context, deviceID string, locked bool) error
	ApplyHeartbeat(ctx context.Context, deviceID string, info *Info, now time.Time) error
	SetFCMToken(ctx context.Context, deviceID, token string, now time.Time) error
}

// CodeStore persists activation codes.
type CodeStore interface {
	CreateBatch(ctx context.Context, codes []*ActivationCode) error
	Get(ctx context.Context, code string) (*ActivationCode, error)
	Claim(ctx context.Context, code, deviceID string, now time.Time) (bool, error)
}

// MaxCodesPerBatch caps bulk activation-code generation.
const MaxCodesPerBatch = 10

// DefaultCodeTTL applies when no expiry is requested for a code.
const DefaultCodeTTL = 24 * time.Hour

// Registry owns device records, activation codes and lifecycle state.
type Registry struct {
	devices DeviceStore
	codes   CodeStore
	baseURL string

	now func() time.Time
}

// NewRegistry creates a Registry. baseURL is the activation endpoint
// devices are pointed at from QR payloads.
func NewRegistry(devices DeviceStore, codes CodeStore, baseURL string) *Registry {
	return &Registry{
		devices: devices,
		codes:   codes,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// RegisterRequest carries admin-supplied fields for direct device
// registration.
type RegisterRequest struct {
	DeviceID      string
	Name          string
	Type          string
	Location      string
	Manufacturer  string
	Model         string
	IPAddress     string
	Capabilities  []string
	AccessControl *AccessControl
	Config        map[string]any
	Status        Status
}

// Register creates a device directly from the admin console. The
// device starts active, or pending_activation when pre-provisioned
// for the QR flow.
func (r *Registry) Register(ctx context.Context, companyID string, req RegisterRequest) (*Device, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if req.IPAddress != "" && net.ParseIP(req.IPAddress) == nil {
		return nil, fmt.Errorf("%w: invalid IP address %q", ErrValidation, req.IPAddress)
	}

	exists, err := r.devices.ActiveNameExists(ctx, companyID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check device name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	status := req.Status
	if status == "" {
		status = StatusActive
	}
	if status != StatusActive && status != StatusPendingActivation {
		return nil, fmt.Errorf("%w: initial status must be active or pending_activation", ErrValidation)
	}

	deviceID := req.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	} else if _, err := r.devices.Get(ctx, deviceID); err == nil {
		return nil, ErrDuplicateDeviceID
	} else if !errors.Is(err, ErrDeviceNotFound) {
		return nil, fmt.Errorf("failed to check device id: %w", err)
	}

	now := r.now()
	d := &Device{
		ID:            uuid.NewString(),
		DeviceID:      deviceID,
		CompanyID:     companyID,
		Name:          req.Name,
		Type:          req.Type,
		Location:      req.Location,
		Manufacturer:  req.Manufacturer,
		Model:         req.Model,
		IPAddress:     req.IPAddress,
		Status:        status,
		Capabilities:  req.Capabilities,
		AccessControl: req.AccessControl,
		Config:        req.Config,
		CreatedAt:     now,
		LastUpdated:   now,
	}
	if status == StatusActive {
		d.ActivatedAt = &now
	}

	if err := r.devices.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	return d, nil
}

// Get returns a device in the tenant's scope.
func (r *Registry) Get(ctx context.Context, companyID, deviceID string) (*Device, error) {
	d, err := r.devices.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if companyID != "" && d.CompanyID != companyID {
		return nil, ErrDeviceNotFound
	}
	return d, nil
}

// List returns all devices in the tenant.
func (r *Registry) List(ctx context.Context, companyID string) ([]*Device, error) {
	return r.devices.List(ctx, companyID)
}

// UpdateRequest carries admin-editable device fields. Nil pointers
// leave the stored value untouched.
type UpdateRequest struct {
	Name          *string
	Type          *string
	Location      *string
	Capabilities  []string
	AccessControl *AccessControl
	Config        map[string]any
}

// Update applies an admin edit to descriptive and config fields.
// Status and lock state are not touched here; they go through
// ChangeStatus and SetLocked only.
func (r *Registry) Update(ctx context.Context, companyID, deviceID string, req UpdateRequest) (*Device, error) {
	d, err := r.Get(ctx, companyID, deviceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != d.Name {
		exists, err := r.devices.ActiveNameExists(ctx, companyID, *req.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check device name: %w", err)
		}
		if exists {
			return nil, ErrDuplicateName
		}
		d.Name = *req.Name
	}
	if req.Type != nil {
		d.Type = *req.Type
	}
	if req.Location != nil {
		d.Location = *req.Location
	}
	if req.Capabilities != nil {
		d.Capabilities = req.Capabilities
	}
	if req.AccessControl != nil {
		d.AccessControl = req.AccessControl
	}
	if req.Config != nil {
		d.Config = req.Config
	}
	d.LastUpdated = r.now()

	if err := r.devices.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update device: %w", err)
	}
	return d, nil
}

// ChangeStatus is the single transition function for device status.
// Every path that flips operational mode, admin PATCH and command
// side effects alike, routes through here.
func (r *Registry) ChangeStatus(ctx context.Context, companyID, deviceID string, status Status) error {
	if !ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}
	if _, err := r.Get(ctx, companyID, deviceID); err != nil {
		return err
	}
	return r.devices.UpdateStatus(ctx, deviceID, status)
}

// SetLocked is the single transition function for the lock flag.
func (r *Registry) SetLocked(ctx context.Context, companyID, deviceID string, locked bool) error {
	if _, err := r.Get(ctx, companyID, deviceID); err != nil {
		return err
	}
	return r.devices.SetLocked(ctx, deviceID, locked)
}

// Deactivate soft-deletes a device. Records are never hard-deleted.
func (r *Registry) Deactivate(ctx context.Context, companyID, deviceID string) error {
	return r.ChangeStatus(ctx, companyID, deviceID, StatusInactive)
}

// GenerateCodes bulk-creates single-use activation codes. count is
// clamped to MaxCodesPerBatch server-side.
func (r *Registry) GenerateCodes(ctx context.Context, companyID string, count int, ttlHours int) ([]*ActivationCode, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxCodesPerBatch {
		count = MaxCodesPerBatch
	}

	now := r.now()
	expires := now.Add(codeTTL(ttlHours))

	codes := make([]*ActivationCode, 0, count)
	for i := 0; i < count; i++ {
		codes = append(codes, &ActivationCode{
			Code:      newActivationCode(),
			CompanyID: companyID,
			Type:      CodeTypeActivation,
			Status:    CodeUnused,
			ExpiresAt: expires,
			CreatedAt: now,
		})
	}

	if err := r.codes.CreateBatch(ctx, codes); err != nil {
		return nil, fmt.Errorf("failed to create activation codes: %w", err)
	}
	return codes, nil
}

// GenerateQRPayload creates a qr_registration code and returns the
// payload the device scans and posts back verbatim.
func (r *Registry) GenerateQRPayload(ctx context.Context, companyID, deviceName, deviceType string, ttlHours int) (*QRPayload, error) {
	now := r.now()
	code := &ActivationCode{
		Code:       uuid.NewString(),
		CompanyID:  companyID,
		Type:       CodeTypeQRRegistration,
		Status:     CodeUnused,
		DeviceName: deviceName,
		DeviceType: deviceType,
		ExpiresAt:  now.Add(codeTTL(ttlHours)),
		CreatedAt:  now,
	}

	if err := r.codes.CreateBatch(ctx, []*ActivationCode{code}); err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	return &QRPayload{
		ActivationURL: r.baseURL,
		Code:          code.Code,
		CompanyID:     companyID,
		DeviceName:    deviceName,
		DeviceType:    deviceType,
		ExpiresAt:     code.ExpiresAt,
	}, nil
}

// Activate redeems an activation code and brings a device online.
// Redemption is atomic: of two devices racing on the same code,
// exactly one wins the unused->used claim; the loser sees
// ErrCodeNotFound, the same as an unknown or spent code.
func (r *Registry) Activate(ctx context.Context, code string, info Info) (*Device, error) {
	ac, err := r.codes.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if ac.Status != CodeUnused {
		return nil, ErrCodeNotFound
	}

	now := r.now()
	if ac.Expired(now) {
		return nil, ErrCodeExpired
	}

	// Resolve the target device before claiming so the code records
	// who redeemed it. A device id already registered to another
	// tenant must be rejected here: claiming first would burn the
	// code on an activation that can never create a device.
	var existing *Device
	if info.DeviceID != "" {
		d, err := r.devices.Get(ctx, info.DeviceID)
		if err == nil {
			if d.CompanyID != ac.CompanyID {
				return nil, ErrDuplicateDeviceID
			}
			existing = d
		} else if !errors.Is(err, ErrDeviceNotFound) {
			return nil, fmt.Errorf("failed to check device id: %w", err)
		}
	}

	deviceID := info.DeviceID
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	won, err := r.codes.Claim(ctx, code, deviceID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to claim activation code: %w", err)
	}
	if !won {
		return nil, ErrCodeNotFound
	}

	if existing != nil {
		mergeInfo(existing, &info, now)
		existing.Status = StatusActive
		existing.ActivatedAt = &now
		existing.ActivatedWith = code
		existing.LastUpdated = now
		if err := r.devices.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to activate device: %w", err)
		}
		return existing, nil
	}

	name := info.Name
	if name == "" {
		name = ac.DeviceName
	}
	if name == "" {
		// Posted device ids are caller-chosen and may be shorter
		// than the suffix we want.
		suffix := deviceID
		if len(suffix) > 8 {
			suffix = suffix[:8]
		}
		name = "Device " + suffix
	}
	devType := info.Type
	if devType == "" {
		devType = ac.DeviceType
	}

	d := &Device{
		ID:            uuid.NewString(),
		DeviceID:      deviceID,
		CompanyID:     ac.CompanyID,
		Name:          name,
		Type:          devType,
		Status:        StatusActive,
		ActivatedAt:   &now,
		ActivatedWith: code,
		CreatedAt:     now,
		LastUpdated:   now,
	}
	mergeInfo(d, &info, now)

	if err := r.devices.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	return d, nil
}

// Heartbeat records a liveness signal. Only the fields present in
// info are overwritten; absent fields keep their stored value.
func (r *Registry) Heartbeat(ctx context.Context, deviceID string, info *Info) error {
	if _, err := r.devices.Get(ctx, deviceID); err != nil {
		return err
	}
	if info != nil && info.Status != "" && !ValidStatus(info.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, info.Status)
	}
	return r.devices.ApplyHeartbeat(ctx, deviceID, info, r.now())
}

// SetFCMToken stores the device's push token.
func (r *Registry) SetFCMToken(ctx context.Context, deviceID, token string) error {
	if token == "" {
		return fmt.Errorf("%w: fcm_token is required", ErrValidation)
	}
	if _, err := r.devices.Get(ctx, deviceID); err != nil {
		return err
	}
	return r.devices.SetFCMToken(ctx, deviceID, token, r.now())
}

// FleetStats summarizes the tenant's fleet. Liveness is recomputed
// from LastSeen on every call.
func (r *Registry) FleetStats(ctx context.Context, companyID string) (*Stats, error) {
	devices, err := r.devices.List(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := r.now()
	stats := &Stats{ByStatus: make(map[Status]int)}
	for _, d := range devices {
		stats.Total++
		if d.Online(now) {
			stats.Online++
		} else {
			stats.Offline++
		}
		if d.Locked {
			stats.Locked++
		}
		stats.ByStatus[d.Status]++
	}
	return stats, nil
}

// GateCheckIn enforces the operating-hours window ahead of a
// check-in. Zone and visitor-type policy live upstream.
func (r *Registry) GateCheckIn(ctx context.Context, deviceID string) error {
	d, err := r.devices.Get(ctx, deviceID)
	if err != nil {
		return err
	}
	if d.AccessControl == nil || d.AccessControl.OperatingHours == nil {
		return nil
	}
	if !d.AccessControl.OperatingHours.Contains(r.now()) {
		return ErrOutsideHours
	}
	return nil
}

func codeTTL(hours int) time.Duration {
	if hours <= 0 {
		return DefaultCodeTTL
	}
	return time.Duration(hours) * time.Hour
}

func mergeInfo(d *Device, info *Info, now time.Time) {
	if info == nil {
		return
	}
	if info.Manufacturer != "" {
		d.Manufacturer = info.Manufacturer
	}
	if info.Model != "" {
		d.Model = info.Model
	}
	if info.FirmwareVersion != "" {
		d.FirmwareVersion = info.FirmwareVersion
	}
	if info.OSVersion != "" {
		d.OSVersion = info.OSVersion
	}
	if info.IPAddress != "" {
		d.IPAddress = info.IPAddress
	}
	if info.BatteryLevel != nil {
		d.BatteryLevel = info.BatteryLevel
	}
	if info.Metrics != nil {
		d.Metrics = info.Metrics
	}
	if info.FCMToken != "" {
		d.FCMToken = info.FCMToken
		t := now
		d.FCMTokenUpdatedAt = &t
	}
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newActivationCode returns an 8-character code from an alphabet with
// the easily-confused characters removed, for manual entry on a kiosk.
func newActivationCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		return uuid.NewString()[:8]
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf)
}
