package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrConfigNotFound = errors.New("server config not found")

// Config is the runtime configuration row loaded from the database.
type Config struct {
	Host              string
	Port              int
	ActivationBaseURL string
	FCMServerKey      string
	CreatedAt         time.Time
}

// Address returns the API server listen address (host:port).
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ActiveConfig loads the server configuration.
func (db *DB) ActiveConfig(ctx context.Context) (*Config, error) {
	c := &Config{}
	var createdAt string
	err := db.QueryRowContext(ctx, `
		SELECT host, port, activation_base_url, fcm_server_key, created_at
		FROM server_config WHERE id = 1
	`).Scan(&c.Host, &c.Port, &c.ActivationBaseURL, &c.FCMServerKey, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return c, nil
}

// NeedsBootstrap returns true if the database needs initial setup.
func (db *DB) NeedsBootstrap(ctx context.Context) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM server_config`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// Bootstrap initializes the database with a default configuration if
// it's empty. Called after migrations on first run.
func (db *DB) Bootstrap(ctx context.Context) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM server_config`).Scan(&count); err != nil {
		return fmt.Errorf("failed to check server config: %w", err)
	}
	if count > 0 {
		return nil // Already bootstrapped
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO server_config (id, host, port, activation_base_url)
		VALUES (1, '0.0.0.0', 8080, 'http://localhost:8080/api/v1/device/activate')
	`)
	if err != nil {
		return fmt.Errorf("failed to create default server config: %w", err)
	}
	return nil
}
