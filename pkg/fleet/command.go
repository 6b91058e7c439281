package fleet

import "time"

// Command is a queued instruction for a device. Devices pick commands
// up on their own poll cadence; an undelivered command past ExpiresAt
// is never handed out but stays in storage as an audit record.
type Command struct {
	ID          string         `json:"id"`
	DeviceID    string         `json:"device_id"`
	Command     string         `json:"command"`
	Params      map[string]any `json:"params,omitempty"`
	Status      CommandStatus  `json:"status"`
	SentBy      string         `json:"sent_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Result      map[string]any `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// CommandStatus tracks delivery. pending moves to exactly one of
// completed or failed; there is no other transition.
type CommandStatus string

const (
	CommandPending   CommandStatus = "pending"
	CommandCompleted CommandStatus = "completed"
	CommandFailed    CommandStatus = "failed"
)

// CommandTTL is how long an unclaimed command stays deliverable.
const CommandTTL = 30 * time.Minute

// Admin-issuable command vocabulary.
const (
	CmdRestart        = "restart"
	CmdLock           = "lock"
	CmdUnlock         = "unlock"
	CmdUpdate         = "update"
	CmdScreenshot     = "screenshot"
	CmdSetConfig      = "set_config"
	CmdMaintenanceOn  = "maintenance_on"
	CmdMaintenanceOff = "maintenance_off"
	CmdClearCache     = "clear_cache"
	CmdSyncData       = "sync_data"

	// CmdNotification is enqueued internally by the notification
	// bridge; it is not part of the admin vocabulary.
	CmdNotification = "notification"
)

var adminCommands = map[string]bool{
	CmdRestart:        true,
	CmdLock:           true,
	CmdUnlock:         true,
	CmdUpdate:         true,
	CmdScreenshot:     true,
	CmdSetConfig:      true,
	CmdMaintenanceOn:  true,
	CmdMaintenanceOff: true,
	CmdClearCache:     true,
	CmdSyncData:       true,
}

// KnownCommand reports whether name is in the admin vocabulary.
func KnownCommand(name string) bool {
	return adminCommands[name]
}
