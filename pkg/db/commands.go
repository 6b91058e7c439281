package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// Commands returns a command store backed by this database. It
// implements fleet.CommandStore.
func (db *DB) Commands() *CommandStore {
	return &CommandStore{db: db}
}

type CommandStore struct {
	db *DB
}

const commandColumns = `id, device_id, command, params, status, sent_by,
	created_at, expires_at, completed_at, result, error`

func (s *CommandStore) Create(ctx context.Context, c *fleet.Command) error {
	params, err := marshalMap(c.Params)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO commands (id, device_id, command, params, status, sent_by, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.DeviceID, c.Command, params, string(c.Status), c.SentBy,
		fmtTime(c.CreatedAt), fmtTime(c.ExpiresAt))
	if err != nil {
		return fmt.Errorf("failed to create command: %w", err)
	}
	return nil
}

func (s *CommandStore) Get(ctx context.Context, id string) (*fleet.Command, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+commandColumns+` FROM commands WHERE id = ?
	`, id)
	c, err := scanCommand(row)
	if err == sql.ErrNoRows {
		return nil, fleet.ErrCommandNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListPending returns deliverable commands, oldest first. This is the
// one query that enforces the TTL: rows past expires_at are excluded
// here but kept in the table for auditing.
func (s *CommandStore) ListPending(ctx context.Context, deviceID string, now time.Time) ([]*fleet.Command, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commandColumns+` FROM commands
		WHERE device_id = ? AND status = ? AND expires_at > ?
		ORDER BY created_at ASC
	`, deviceID, string(fleet.CommandPending), fmtTime(now))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectCommands(rows)
}

func (s *CommandStore) ListHistory(ctx context.Context, deviceID string, limit int) ([]*fleet.Command, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commandColumns+` FROM commands
		WHERE device_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, deviceID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return collectCommands(rows)
}

// Terminate conditionally closes a pending command. The WHERE clause
// on the current status makes the pending->terminal transition happen
// at most once; the caller learns from the row count whether it won.
func (s *CommandStore) Terminate(ctx context.Context, id string, status fleet.CommandStatus, result map[string]any, errMsg string, now time.Time) (bool, error) {
	var resultJSON any
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			return false, fmt.Errorf("failed to marshal result: %w", err)
		}
		resultJSON = string(b)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE commands
		SET status = ?, completed_at = ?, result = ?, error = ?
		WHERE id = ? AND status = ?
	`, string(status), fmtTime(now), resultJSON, errMsg, id, string(fleet.CommandPending))
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func scanCommand(row rowScanner) (*fleet.Command, error) {
	c := &fleet.Command{}
	var (
		params               string
		status               string
		createdAt, expiresAt string
		completedAt          sql.NullString
		result               sql.NullString
	)

	err := row.Scan(&c.ID, &c.DeviceID, &c.Command, &params, &status, &c.SentBy,
		&createdAt, &expiresAt, &completedAt, &result, &c.Error)
	if err != nil {
		return nil, err
	}

	c.Status = fleet.CommandStatus(status)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if c.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(params), &c.Params); err != nil {
		return nil, fmt.Errorf("failed to unmarshal params: %w", err)
	}
	if result.Valid && result.String != "" {
		if err := json.Unmarshal([]byte(result.String), &c.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
	}

	return c, nil
}

func collectCommands(rows *sql.Rows) ([]*fleet.Command, error) {
	var commands []*fleet.Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		commands = append(commands, c)
	}
	return commands, rows.Err()
}
