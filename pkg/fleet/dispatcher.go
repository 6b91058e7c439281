package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet/schema"
)

// CommandStore persists the command queue.
type CommandStore interface {
	Create(ctx context.Context, c *Command) error
	Get(ctx context.Context, id string) (*Command, error)
	// ListPending is the only query that applies the expiry filter:
	// status pending AND expires_at past now, FIFO by created_at.
	ListPending(ctx context.Context, deviceID string, now time.Time) ([]*Command, error)
	ListHistory(ctx context.Context, deviceID string, limit int) ([]*Command, error)
	// Terminate conditionally moves a pending command to a terminal
	// status. Returns false when the command was already terminal.
	Terminate(ctx context.Context, id string, status CommandStatus, result map[string]any, errMsg string, now time.Time) (bool, error)
}

// Pusher delivers a best-effort push notification. The command queue
// is the channel of record; push failures must never surface to the
// caller.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]any) error
}

// Dispatcher enqueues commands, applies their immediate side effects
// and closes the loop on acknowledgments.
type Dispatcher struct {
	commands CommandStore
	registry *Registry
	params   *schema.Validator
	pusher   Pusher

	now func() time.Time
}

// NewDispatcher creates a Dispatcher. pusher may be nil when no push
// provider is configured.
func NewDispatcher(commands CommandStore, registry *Registry, params *schema.Validator, pusher Pusher) *Dispatcher {
	return &Dispatcher{
		commands: commands,
		registry: registry,
		params:   params,
		pusher:   pusher,
		now:      time.Now,
	}
}

// Send validates and enqueues a command for a device. For the
// maintenance and lock commands the registry transition runs here,
// immediately: administrative intent takes effect whether or not the
// device ever polls, and the queued row is the delivery/audit record.
func (d *Dispatcher) Send(ctx context.Context, companyID, deviceID, command string, params map[string]any, sentBy string) (*Command, error) {
	if !KnownCommand(command) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}
	if err := d.params.Validate(command, params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := d.registry.Get(ctx, companyID, deviceID); err != nil {
		return nil, err
	}

	switch command {
	case CmdMaintenanceOn:
		if err := d.registry.ChangeStatus(ctx, companyID, deviceID, StatusMaintenance); err != nil {
			return nil, err
		}
	case CmdMaintenanceOff:
		if err := d.registry.ChangeStatus(ctx, companyID, deviceID, StatusActive); err != nil {
			return nil, err
		}
	case CmdLock:
		if err := d.registry.SetLocked(ctx, companyID, deviceID, true); err != nil {
			return nil, err
		}
	case CmdUnlock:
		if err := d.registry.SetLocked(ctx, companyID, deviceID, false); err != nil {
			return nil, err
		}
	}

	return d.enqueue(ctx, deviceID, command, params, sentBy)
}

// Pending returns the deliverable queue for a device, oldest first.
// companyID narrows the lookup to a tenant on admin calls; the device
// surface passes its own verified identity with no tenant scope.
func (d *Dispatcher) Pending(ctx context.Context, companyID, deviceID string) ([]*Command, error) {
	if _, err := d.registry.Get(ctx, companyID, deviceID); err != nil {
		return nil, err
	}
	return d.commands.ListPending(ctx, deviceID, d.now())
}

// History returns recent commands for a device regardless of status,
// newest first, for admin auditing.
func (d *Dispatcher) History(ctx context.Context, companyID, deviceID string, limit int) ([]*Command, error) {
	if _, err := d.registry.Get(ctx, companyID, deviceID); err != nil {
		return nil, err
	}
	return d.commands.ListHistory(ctx, deviceID, limit)
}

// Ack closes a command on behalf of the acking device. The
// pending->terminal transition happens at most once; a re-sent ack
// for an already-terminal command is a success no-op so devices can
// safely retry after a lost response. A command queued for a
// different device reads as not found.
func (d *Dispatcher) Ack(ctx context.Context, deviceID, commandID string, success bool, result map[string]any, errMsg string) error {
	cmd, err := d.commands.Get(ctx, commandID)
	if err != nil {
		return err
	}
	if deviceID != "" && cmd.DeviceID != deviceID {
		return ErrCommandNotFound
	}

	status := CommandCompleted
	if !success {
		status = CommandFailed
	}

	// Losing the conditional update means a duplicate ack; the first
	// recorded outcome stands.
	if _, err := d.commands.Terminate(ctx, commandID, status, result, errMsg, d.now()); err != nil {
		return err
	}
	return nil
}

// Notify queues a notification command for a device and attempts a
// direct push. The queue is authoritative; the push is a latency
// optimization whose outcome is logged and otherwise ignored.
func (d *Dispatcher) Notify(ctx context.Context, companyID, deviceID, title, body string, data map[string]any) (*Command, error) {
	dev, err := d.registry.Get(ctx, companyID, deviceID)
	if err != nil {
		return nil, err
	}
	if dev.FCMToken == "" {
		return nil, ErrNoFCMToken
	}

	params := map[string]any{"title": title}
	if body != "" {
		params["body"] = body
	}
	if data != nil {
		params["data"] = data
	}
	if err := d.params.Validate(CmdNotification, params); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	cmd, err := d.enqueue(ctx, deviceID, CmdNotification, params, "")
	if err != nil {
		return nil, err
	}

	if d.pusher != nil {
		if err := d.pusher.Push(ctx, dev.FCMToken, title, body, data); err != nil {
			log.Warn().Err(err).Str("device_id", deviceID).Msg("push delivery failed, device will pick up the queued command")
		} else {
			log.Debug().Str("device_id", deviceID).Msg("push delivered")
		}
	}

	return cmd, nil
}

func (d *Dispatcher) enqueue(ctx context.Context, deviceID, command string, params map[string]any, sentBy string) (*Command, error) {
	now := d.now()
	cmd := &Command{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		Command:   command,
		Params:    params,
		Status:    CommandPending,
		SentBy:    sentBy,
		CreatedAt: now,
		ExpiresAt: now.Add(CommandTTL),
	}
	if err := d.commands.Create(ctx, cmd); err != nil {
		return nil, fmt.Errorf("failed to enqueue command: %w", err)
	}
	return cmd, nil
}
