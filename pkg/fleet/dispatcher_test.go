package fleet_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/db"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet/schema"
)

type recordingPusher struct {
	tokens []string
	err    error
}

func (p *recordingPusher) Push(_ context.Context, token, _, _ string, _ map[string]any) error {
	p.tokens = append(p.tokens, token)
	return p.err
}

func newTestDispatcher(t *testing.T, pusher fleet.Pusher) (*fleet.Dispatcher, *fleet.Registry, *db.DB) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "fleet.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(context.Background()))

	registry := fleet.NewRegistry(database.Devices(), database.Codes(), activationURL)
	dispatcher := fleet.NewDispatcher(database.Commands(), registry, schema.NewValidator(), pusher)
	return dispatcher, registry, database
}

func registerDevice(t *testing.T, registry *fleet.Registry, name string) *fleet.Device {
	t.Helper()
	d, err := registry.Register(context.Background(), "acme", fleet.RegisterRequest{Name: name, Type: "kiosk"})
	require.NoError(t, err)
	return d
}

func TestSendEnqueues(t *testing.T) {
	dispatcher, registry, _ := newTestDispatcher(t, nil)
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")

	cmd, err := dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdRestart, nil, "ops@acme")
	require.NoError(t, err)

	assert.NotEmpty(t, cmd.ID)
	assert.Equal(t, fleet.CommandPending, cmd.Status)
	assert.Equal(t, "ops@acme", cmd.SentBy)
	assert.WithinDuration(t, cmd.CreatedAt.Add(fleet.CommandTTL), cmd.ExpiresAt, time.Second)

	pending, err := dispatcher.Pending(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, cmd.ID, pending[0].ID)
}

func TestSendRejectsBadInput(t *testing.T) {
	dispatcher, registry, _ := newTestDispatcher(t, nil)
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")

	_, err := dispatcher.Send(ctx, "acme", d.DeviceID, "reboot", nil, "")
	assert.ErrorIs(t, err, fleet.ErrUnknownCommand)

	// set_config requires a config object
	_, err = dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdSetConfig, nil, "")
	assert.ErrorIs(t, err, fleet.ErrValidation)

	_, err = dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdSetConfig, map[string]any{
		"config": map[string]any{"kiosk_mode": true},
	}, "")
	assert.NoError(t, err)

	_, err = dispatcher.Send(ctx, "acme", "ghost", fleet.CmdRestart, nil, "")
	assert.ErrorIs(t, err, fleet.ErrDeviceNotFound)

	// Tenant mismatch reads as not found
	_, err = dispatcher.Send(ctx, "globex", d.DeviceID, fleet.CmdRestart, nil, "")
	assert.ErrorIs(t, err, fleet.ErrDeviceNotFound)
}

func TestSendImmediateSideEffects(t *testing.T) {
	dispatcher, registry, _ := newTestDispatcher(t, nil)
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")

	// maintenance_on flips status before the device ever polls
	_, err := dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdMaintenanceOn, nil, "")
	require.NoError(t, err)
	got, err := registry.Get(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, fleet.StatusMaintenance, got.Status)

	_, err = dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdMaintenanceOff, nil, "")
	require.NoError(t, err)
	got, err = registry.Get(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, fleet.StatusActive, got.Status)

	_, err = dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdLock, nil, "")
	require.NoError(t, err)
	got, err = registry.Get(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	assert.True(t, got.Locked)

	_, err = dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdUnlock, nil, "")
	require.NoError(t, err)
	got, err = registry.Get(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	assert.False(t, got.Locked)
}

func TestPendingExcludesExpired(t *testing.T) {
	dispatcher, registry, database := newTestDispatcher(t, nil)
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")

	live, err := dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdSyncData, nil, "")
	require.NoError(t, err)

	// An expired pending row stays in the table but never delivers
	now := time.Now()
	stale := &fleet.Command{
		ID:        uuid.NewString(),
		DeviceID:  d.DeviceID,
		Command:   fleet.CmdScreenshot,
		Status:    fleet.CommandPending,
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(-30 * time.Minute),
	}
	require.NoError(t, database.Commands().Create(ctx, stale))

	pending, err := dispatcher.Pending(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, live.ID, pending[0].ID)

	// History still shows the expired row for auditing
	history, err := dispatcher.History(ctx, "acme", d.DeviceID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestAckIdempotent(t *testing.T) {
	dispatcher, registry, _ := newTestDispatcher(t, nil)
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")

	cmd, err := dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdLock, nil, "")
	require.NoError(t, err)

	require.NoError(t, dispatcher.Ack(ctx, d.DeviceID, cmd.ID, true, map[string]any{"locked": true}, ""))

	history, err := dispatcher.History(ctx, "acme", d.DeviceID, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	first := history[0]
	assert.Equal(t, fleet.CommandCompleted, first.Status)
	require.NotNil(t, first.CompletedAt)

	// A device retrying a lost response re-sends the ack. The retry is
	// accepted but changes nothing, not even a failure outcome.
	require.NoError(t, dispatcher.Ack(ctx, d.DeviceID, cmd.ID, false, nil, "late duplicate"))

	history, err = dispatcher.History(ctx, "acme", d.DeviceID, 1)
	require.NoError(t, err)
	second := history[0]
	assert.Equal(t, fleet.CommandCompleted, second.Status)
	assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())
	assert.Empty(t, second.Error)
}

func TestAckUnknownCommand(t *testing.T) {
	dispatcher, _, _ := newTestDispatcher(t, nil)

	err := dispatcher.Ack(context.Background(), "kiosk-1", uuid.NewString(), true, nil, "")
	assert.ErrorIs(t, err, fleet.ErrCommandNotFound)
}

func TestAckWrongDevice(t *testing.T) {
	dispatcher, registry, _ := newTestDispatcher(t, nil)
	ctx := context.Background()
	target := registerDevice(t, registry, "Kiosk A")
	other := registerDevice(t, registry, "Kiosk B")

	cmd, err := dispatcher.Send(ctx, "acme", target.DeviceID, fleet.CmdRestart, nil, "")
	require.NoError(t, err)

	// Another device cannot close a command queued for its neighbor
	err = dispatcher.Ack(ctx, other.DeviceID, cmd.ID, true, nil, "")
	assert.ErrorIs(t, err, fleet.ErrCommandNotFound)

	pending, err := dispatcher.Pending(ctx, "acme", target.DeviceID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, cmd.ID, pending[0].ID)
}

func TestAckFailure(t *testing.T) {
	dispatcher, registry, _ := newTestDispatcher(t, nil)
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")

	cmd, err := dispatcher.Send(ctx, "acme", d.DeviceID, fleet.CmdScreenshot, nil, "")
	require.NoError(t, err)

	require.NoError(t, dispatcher.Ack(ctx, d.DeviceID, cmd.ID, false, nil, "camera unavailable"))

	history, err := dispatcher.History(ctx, "acme", d.DeviceID, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, fleet.CommandFailed, history[0].Status)
	assert.Equal(t, "camera unavailable", history[0].Error)
}

func TestNotifyRequiresToken(t *testing.T) {
	dispatcher, registry, _ := newTestDispatcher(t, &recordingPusher{})
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")

	_, err := dispatcher.Notify(ctx, "acme", d.DeviceID, "Visitor waiting", "", nil)
	assert.ErrorIs(t, err, fleet.ErrNoFCMToken)
}

func TestNotifyQueuesAndPushes(t *testing.T) {
	pusher := &recordingPusher{}
	dispatcher, registry, _ := newTestDispatcher(t, pusher)
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")
	require.NoError(t, registry.SetFCMToken(ctx, d.DeviceID, "tok-123"))

	cmd, err := dispatcher.Notify(ctx, "acme", d.DeviceID, "Visitor waiting", "John Doe at the front desk", nil)
	require.NoError(t, err)
	assert.Equal(t, fleet.CommandPending, cmd.Status)
	assert.Equal(t, []string{"tok-123"}, pusher.tokens)

	// The notification rides the same queue as every other command
	pending, err := dispatcher.Pending(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Visitor waiting", pending[0].Params["title"])
}

func TestNotifyPushFailureIsSwallowed(t *testing.T) {
	pusher := &recordingPusher{err: errors.New("fcm 503")}
	dispatcher, registry, _ := newTestDispatcher(t, pusher)
	ctx := context.Background()
	d := registerDevice(t, registry, "Kiosk")
	require.NoError(t, registry.SetFCMToken(ctx, d.DeviceID, "tok-123"))

	// Push failure never surfaces: the queued command is the channel
	// of record.
	cmd, err := dispatcher.Notify(ctx, "acme", d.DeviceID, "Visitor waiting", "", nil)
	require.NoError(t, err)

	pending, err := dispatcher.Pending(ctx, "acme", d.DeviceID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, cmd.ID, pending[0].ID)
}
