package fleet_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/db"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

const activationURL = "http://localhost:8080/api/v1/device/activate"

func newTestRegistry(t *testing.T) (*fleet.Registry, *db.DB) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "fleet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(context.Background()))

	return fleet.NewRegistry(database.Devices(), database.Codes(), activationURL), database
}

func TestRegister(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	d, err := registry.Register(ctx, "acme", fleet.RegisterRequest{
		Name:      "Lobby Kiosk",
		Type:      "kiosk",
		IPAddress: "10.0.4.12",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, d.ID)
	assert.NotEmpty(t, d.DeviceID)
	assert.Equal(t, "acme", d.CompanyID)
	assert.Equal(t, fleet.StatusActive, d.Status)
	require.NotNil(t, d.ActivatedAt)

	// Name collision within the tenant
	_, err = registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "Lobby Kiosk"})
	assert.ErrorIs(t, err, fleet.ErrDuplicateName)

	// Same name in another tenant is fine
	_, err = registry.Register(ctx, "globex", fleet.RegisterRequest{Name: "Lobby Kiosk"})
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := registry.Register(ctx, "acme", fleet.RegisterRequest{})
	assert.ErrorIs(t, err, fleet.ErrValidation)

	_, err = registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "K", IPAddress: "not-an-ip"})
	assert.ErrorIs(t, err, fleet.ErrValidation)

	_, err = registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "K", Status: fleet.StatusMaintenance})
	assert.ErrorIs(t, err, fleet.ErrValidation)

	d, err := registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "K", Status: fleet.StatusPendingActivation})
	require.NoError(t, err)
	assert.Nil(t, d.ActivatedAt)
}

func TestGetScopedToTenant(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	d, err := registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "Kiosk"})
	require.NoError(t, err)

	_, err = registry.Get(ctx, "acme", d.DeviceID)
	assert.NoError(t, err)

	_, err = registry.Get(ctx, "globex", d.DeviceID)
	assert.ErrorIs(t, err, fleet.ErrDeviceNotFound)

	// Empty companyID means caller identity is the device itself
	_, err = registry.Get(ctx, "", d.DeviceID)
	assert.NoError(t, err)
}

func TestGenerateCodesClampsCount(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	codes, err := registry.GenerateCodes(ctx, "acme", 50, 0)
	require.NoError(t, err)
	assert.Len(t, codes, fleet.MaxCodesPerBatch)

	for _, c := range codes {
		assert.Len(t, c.Code, 8)
		assert.Equal(t, fleet.CodeUnused, c.Status)
		assert.Equal(t, fleet.CodeTypeActivation, c.Type)
	}

	codes, err = registry.GenerateCodes(ctx, "acme", 0, 0)
	require.NoError(t, err)
	assert.Len(t, codes, 1)
}

func TestGenerateQRPayload(t *testing.T) {
	registry, database := newTestRegistry(t)
	ctx := context.Background()

	payload, err := registry.GenerateQRPayload(ctx, "acme", "Entrance Tablet", "tablet", 2)
	require.NoError(t, err)

	assert.Equal(t, activationURL, payload.ActivationURL)
	assert.Equal(t, "acme", payload.CompanyID)
	assert.Equal(t, "Entrance Tablet", payload.DeviceName)
	assert.NotEmpty(t, payload.Code)

	stored, err := database.Codes().Get(ctx, payload.Code)
	require.NoError(t, err)
	assert.Equal(t, fleet.CodeTypeQRRegistration, stored.Type)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), stored.ExpiresAt, time.Minute)
}

func TestActivateCreatesDevice(t *testing.T) {
	registry, database := newTestRegistry(t)
	ctx := context.Background()

	codes, err := registry.GenerateCodes(ctx, "acme", 1, 0)
	require.NoError(t, err)
	code := codes[0].Code

	battery := 91
	d, err := registry.Activate(ctx, code, fleet.Info{
		DeviceID:        "tab-001",
		Name:            "East Wing Tablet",
		Type:            "tablet",
		Model:           "SM-X200",
		FirmwareVersion: "2.3.0",
		BatteryLevel:    &battery,
	})
	require.NoError(t, err)

	assert.Equal(t, "tab-001", d.DeviceID)
	assert.Equal(t, "acme", d.CompanyID)
	assert.Equal(t, fleet.StatusActive, d.Status)
	assert.Equal(t, code, d.ActivatedWith)
	require.NotNil(t, d.ActivatedAt)
	assert.Equal(t, "SM-X200", d.Model)

	// Second redemption of the same code looks like an unknown code
	_, err = registry.Activate(ctx, code, fleet.Info{DeviceID: "tab-002"})
	assert.ErrorIs(t, err, fleet.ErrCodeNotFound)

	stored, err := database.Codes().Get(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "tab-001", stored.UsedByDeviceID)
}

func TestActivatePreRegisteredDevice(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	pre, err := registry.Register(ctx, "acme", fleet.RegisterRequest{
		DeviceID: "tab-007",
		Name:     "Dock Kiosk",
		Status:   fleet.StatusPendingActivation,
	})
	require.NoError(t, err)
	assert.Nil(t, pre.ActivatedAt)

	codes, err := registry.GenerateCodes(ctx, "acme", 1, 0)
	require.NoError(t, err)

	d, err := registry.Activate(ctx, codes[0].Code, fleet.Info{
		DeviceID:  "tab-007",
		OSVersion: "android-13",
	})
	require.NoError(t, err)

	// The pre-registered record is updated in place, not duplicated
	assert.Equal(t, pre.ID, d.ID)
	assert.Equal(t, "Dock Kiosk", d.Name)
	assert.Equal(t, fleet.StatusActive, d.Status)
	assert.Equal(t, "android-13", d.OSVersion)
	require.NotNil(t, d.ActivatedAt)
}

func TestActivateShortDeviceID(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	codes, err := registry.GenerateCodes(ctx, "acme", 1, 0)
	require.NoError(t, err)

	// The posted device id is caller-chosen and may be shorter than
	// the default-name suffix
	d, err := registry.Activate(ctx, codes[0].Code, fleet.Info{DeviceID: "tab-1"})
	require.NoError(t, err)
	assert.Equal(t, "tab-1", d.DeviceID)
	assert.Equal(t, "Device tab-1", d.Name)
}

func TestActivateDeviceIDOwnedByAnotherTenant(t *testing.T) {
	registry, database := newTestRegistry(t)
	ctx := context.Background()

	_, err := registry.Register(ctx, "globex", fleet.RegisterRequest{
		DeviceID: "tablet-globex-01",
		Name:     "Globex Tablet",
	})
	require.NoError(t, err)

	codes, err := registry.GenerateCodes(ctx, "acme", 1, 0)
	require.NoError(t, err)

	_, err = registry.Activate(ctx, codes[0].Code, fleet.Info{DeviceID: "tablet-globex-01"})
	assert.ErrorIs(t, err, fleet.ErrDuplicateDeviceID)

	// The rejection happens before the claim, so the code survives
	// for a legitimate device
	stored, err := database.Codes().Get(ctx, codes[0].Code)
	require.NoError(t, err)
	assert.Equal(t, fleet.CodeUnused, stored.Status)

	_, err = registry.Activate(ctx, codes[0].Code, fleet.Info{DeviceID: "tab-acme-01"})
	assert.NoError(t, err)
}

func TestRegisterDuplicateDeviceID(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	_, err := registry.Register(ctx, "acme", fleet.RegisterRequest{
		DeviceID: "kiosk-01",
		Name:     "Kiosk One",
	})
	require.NoError(t, err)

	_, err = registry.Register(ctx, "acme", fleet.RegisterRequest{
		DeviceID: "kiosk-01",
		Name:     "Kiosk Two",
	})
	assert.ErrorIs(t, err, fleet.ErrDuplicateDeviceID)

	_, err = registry.Register(ctx, "globex", fleet.RegisterRequest{
		DeviceID: "kiosk-01",
		Name:     "Kiosk Elsewhere",
	})
	assert.ErrorIs(t, err, fleet.ErrDuplicateDeviceID)
}

func TestActivateUnknownCode(t *testing.T) {
	registry, _ := newTestRegistry(t)

	_, err := registry.Activate(context.Background(), "NOPE1234", fleet.Info{})
	assert.ErrorIs(t, err, fleet.ErrCodeNotFound)
}

func TestActivateExpiredCode(t *testing.T) {
	registry, database := newTestRegistry(t)
	ctx := context.Background()
	now := time.Now()

	expired := &fleet.ActivationCode{
		Code:      "OLDCODE9",
		CompanyID: "acme",
		Type:      fleet.CodeTypeActivation,
		Status:    fleet.CodeUnused,
		ExpiresAt: now.Add(-time.Hour),
		CreatedAt: now.Add(-25 * time.Hour),
	}
	require.NoError(t, database.Codes().CreateBatch(ctx, []*fleet.ActivationCode{expired}))

	_, err := registry.Activate(ctx, "OLDCODE9", fleet.Info{})
	assert.ErrorIs(t, err, fleet.ErrCodeExpired)
}

func TestActivateConcurrentSingleWinner(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	codes, err := registry.GenerateCodes(ctx, "acme", 1, 0)
	require.NoError(t, err)
	code := codes[0].Code

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = registry.Activate(ctx, code, fleet.Info{})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, fleet.ErrCodeNotFound)
		}
	}
	assert.Equal(t, 1, winners)
}

func TestHeartbeatAndLiveness(t *testing.T) {
	registry, database := newTestRegistry(t)
	ctx := context.Background()

	d, err := registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "Kiosk"})
	require.NoError(t, err)

	// A device that has never reported is offline
	stats, err := registry.FleetStats(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 0, stats.Online)
	assert.Equal(t, 1, stats.Offline)

	require.NoError(t, registry.Heartbeat(ctx, d.DeviceID, &fleet.Info{
		Metrics: map[string]any{"cpu": float64(8)},
	}))

	stats, err = registry.FleetStats(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Online)

	// Push the last-seen timestamp past the online window through the
	// store directly, then observe the derived flip to offline.
	stale := time.Now().Add(-6 * time.Minute)
	require.NoError(t, database.Devices().ApplyHeartbeat(ctx, d.DeviceID, nil, stale))

	stats, err = registry.FleetStats(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Online)
	assert.Equal(t, 1, stats.Offline)
}

func TestHeartbeatValidation(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	err := registry.Heartbeat(ctx, "ghost", nil)
	assert.ErrorIs(t, err, fleet.ErrDeviceNotFound)

	d, err := registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "Kiosk"})
	require.NoError(t, err)

	err = registry.Heartbeat(ctx, d.DeviceID, &fleet.Info{Status: "exploded"})
	assert.ErrorIs(t, err, fleet.ErrValidation)
}

func TestChangeStatusAndLock(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	d, err := registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "Kiosk"})
	require.NoError(t, err)

	err = registry.ChangeStatus(ctx, "acme", d.DeviceID, "frozen")
	assert.ErrorIs(t, err, fleet.ErrValidation)

	require.NoError(t, registry.ChangeStatus(ctx, "acme", d.DeviceID, fleet.StatusMaintenance))
	require.NoError(t, registry.SetLocked(ctx, "acme", d.DeviceID, true))

	got, err := registry.Get(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, fleet.StatusMaintenance, got.Status)
	assert.True(t, got.Locked)

	// Deactivation is a soft delete
	require.NoError(t, registry.Deactivate(ctx, "acme", d.DeviceID))
	got, err = registry.Get(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, fleet.StatusInactive, got.Status)
}

func TestGateCheckIn(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	// Hours spanning the whole day always pass
	open, err := registry.Register(ctx, "acme", fleet.RegisterRequest{
		Name: "Always Open",
		AccessControl: &fleet.AccessControl{
			OperatingHours: &fleet.OperatingHours{Start: "00:00", End: "23:59"},
		},
	})
	require.NoError(t, err)
	assert.NoError(t, registry.GateCheckIn(ctx, open.DeviceID))

	// A zero-width window away from the current minute always fails
	hm := time.Now().Add(2 * time.Hour).Format("15:04")
	closed, err := registry.Register(ctx, "acme", fleet.RegisterRequest{
		Name: "Always Closed",
		AccessControl: &fleet.AccessControl{
			OperatingHours: &fleet.OperatingHours{Start: hm, End: hm},
		},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, registry.GateCheckIn(ctx, closed.DeviceID), fleet.ErrOutsideHours)

	// No configured hours means no gate
	bare, err := registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "No Hours"})
	require.NoError(t, err)
	assert.NoError(t, registry.GateCheckIn(ctx, bare.DeviceID))
}

func TestSetFCMToken(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	d, err := registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "Kiosk"})
	require.NoError(t, err)

	assert.ErrorIs(t, registry.SetFCMToken(ctx, d.DeviceID, ""), fleet.ErrValidation)
	require.NoError(t, registry.SetFCMToken(ctx, d.DeviceID, "fcm-token-abc"))

	got, err := registry.Get(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, "fcm-token-abc", got.FCMToken)
	require.NotNil(t, got.FCMTokenUpdatedAt)
}

func TestUpdateDevice(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()

	d, err := registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "Kiosk", Location: "lobby"})
	require.NoError(t, err)
	_, err = registry.Register(ctx, "acme", fleet.RegisterRequest{Name: "Taken"})
	require.NoError(t, err)

	newName := "Taken"
	_, err = registry.Update(ctx, "acme", d.DeviceID, fleet.UpdateRequest{Name: &newName})
	assert.ErrorIs(t, err, fleet.ErrDuplicateName)

	loc := "mezzanine"
	got, err := registry.Update(ctx, "acme", d.DeviceID, fleet.UpdateRequest{
		Location: &loc,
		Config:   map[string]any{"kiosk_mode": true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Kiosk", got.Name, "unset fields keep their value")
	assert.Equal(t, "mezzanine", got.Location)
	assert.Equal(t, map[string]any{"kiosk_mode": true}, got.Config)
}
