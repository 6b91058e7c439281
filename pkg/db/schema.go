package db

import (
	"context"
	"database/sql"
	"fmt"
)

const currentSchemaVersion = 1

// Schema SQL for version 1
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version     INTEGER PRIMARY KEY,
    applied_at  TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Server configuration (single row)
CREATE TABLE IF NOT EXISTS server_config (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    host                 TEXT NOT NULL DEFAULT '0.0.0.0',
    port                 INTEGER NOT NULL DEFAULT 8080,
    activation_base_url  TEXT NOT NULL DEFAULT '',
    fcm_server_key       TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Devices (soft-deactivated, never deleted)
CREATE TABLE IF NOT EXISTS devices (
    id                    TEXT PRIMARY KEY,
    device_id             TEXT NOT NULL UNIQUE,
    company_id            TEXT NOT NULL,
    name                  TEXT NOT NULL,
    type                  TEXT NOT NULL DEFAULT '',
    location              TEXT NOT NULL DEFAULT '',
    manufacturer          TEXT NOT NULL DEFAULT '',
    model                 TEXT NOT NULL DEFAULT '',
    firmware_version      TEXT NOT NULL DEFAULT '',
    os_version            TEXT NOT NULL DEFAULT '',
    ip_address            TEXT NOT NULL DEFAULT '',
    status                TEXT NOT NULL DEFAULT 'pending_activation',
    locked                INTEGER NOT NULL DEFAULT 0,
    last_seen             TEXT,
    last_heartbeat        TEXT,
    metrics               TEXT NOT NULL DEFAULT '{}',
    battery_level         INTEGER,
    capabilities          TEXT NOT NULL DEFAULT '[]',
    access_control        TEXT,
    config                TEXT NOT NULL DEFAULT '{}',
    fcm_token             TEXT NOT NULL DEFAULT '',
    fcm_token_updated_at  TEXT,
    activated_at          TEXT,
    activated_with        TEXT NOT NULL DEFAULT '',
    created_at            TEXT NOT NULL DEFAULT (datetime('now')),
    last_updated          TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Single-use activation / QR registration codes
CREATE TABLE IF NOT EXISTS activation_codes (
    code               TEXT PRIMARY KEY,
    company_id         TEXT NOT NULL,
    type               TEXT NOT NULL DEFAULT 'activation',
    status             TEXT NOT NULL DEFAULT 'unused',
    device_name        TEXT NOT NULL DEFAULT '',
    device_type        TEXT NOT NULL DEFAULT '',
    expires_at         TEXT NOT NULL,
    used_at            TEXT,
    used_by_device_id  TEXT NOT NULL DEFAULT '',
    created_at         TEXT NOT NULL DEFAULT (datetime('now'))
);

-- Command queue; expired rows are filtered at read time, never deleted
CREATE TABLE IF NOT EXISTS commands (
    id            TEXT PRIMARY KEY,
    device_id     TEXT NOT NULL,
    command       TEXT NOT NULL,
    params        TEXT NOT NULL DEFAULT '{}',
    status        TEXT NOT NULL DEFAULT 'pending',
    sent_by       TEXT NOT NULL DEFAULT '',
    created_at    TEXT NOT NULL,
    expires_at    TEXT NOT NULL,
    completed_at  TEXT,
    result        TEXT,
    error         TEXT NOT NULL DEFAULT ''
);

-- Create indexes for common queries
CREATE INDEX IF NOT EXISTS idx_devices_company ON devices(company_id);
CREATE INDEX IF NOT EXISTS idx_devices_name ON devices(company_id, name);
CREATE INDEX IF NOT EXISTS idx_codes_company ON activation_codes(company_id);
CREATE INDEX IF NOT EXISTS idx_commands_device ON commands(device_id, status, created_at);
`

// Migrate runs database migrations to bring the schema up to date.
func (db *DB) Migrate(ctx context.Context) error {
	version, err := db.getSchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	if version >= currentSchemaVersion {
		return nil // Already up to date
	}

	if version < 1 {
		if err := db.applySchemaV1(ctx); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, or 0 if no schema exists.
func (db *DB) getSchemaVersion(ctx context.Context) (int, error) {
	// Check if schema_version table exists
	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&count)
	if err != nil {
		return 0, err
	}

	if count == 0 {
		return 0, nil
	}

	var version int
	err = db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// applySchemaV1 applies the initial schema.
func (db *DB) applySchemaV1(ctx context.Context) error {
	return db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schemaV1); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (1)`); err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}

		return nil
	})
}

// SchemaVersion returns the current schema version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	return db.getSchemaVersion(ctx)
}
