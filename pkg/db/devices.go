package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// Devices returns a device store backed by this database. It
// implements fleet.DeviceStore.
func (db *DB) Devices() *DeviceStore {
	return &DeviceStore{db: db}
}

type DeviceStore struct {
	db *DB
}

const deviceColumns = `id, device_id, company_id, name, type, location, manufacturer, model,
	firmware_version, os_version, ip_address, status, locked, last_seen, last_heartbeat,
	metrics, battery_level, capabilities, access_control, config,
	fcm_token, fcm_token_updated_at, activated_at, activated_with, created_at, last_updated`

func (s *DeviceStore) Create(ctx context.Context, d *fleet.Device) error {
	metrics, err := marshalMap(d.Metrics)
	if err != nil {
		return err
	}
	capabilities, err := marshalSlice(d.Capabilities)
	if err != nil {
		return err
	}
	config, err := marshalMap(d.Config)
	if err != nil {
		return err
	}
	var accessControl any
	if d.AccessControl != nil {
		b, err := json.Marshal(d.AccessControl)
		if err != nil {
			return fmt.Errorf("failed to marshal access control: %w", err)
		}
		accessControl = string(b)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO devices (
			id, device_id, company_id, name, type, location, manufacturer, model,
			firmware_version, os_version, ip_address, status, locked,
			metrics, battery_level, capabilities, access_control, config,
			fcm_token, fcm_token_updated_at, activated_at, activated_with,
			created_at, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.ID, d.DeviceID, d.CompanyID, d.Name, d.Type, d.Location, d.Manufacturer, d.Model,
		d.FirmwareVersion, d.OSVersion, d.IPAddress, string(d.Status), d.Locked,
		metrics, d.BatteryLevel, capabilities, accessControl, config,
		d.FCMToken, fmtTimePtr(d.FCMTokenUpdatedAt), fmtTimePtr(d.ActivatedAt), d.ActivatedWith,
		fmtTime(d.CreatedAt), fmtTime(d.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}
	return nil
}

func (s *DeviceStore) Get(ctx context.Context, deviceID string) (*fleet.Device, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+deviceColumns+` FROM devices WHERE device_id = ?
	`, deviceID)
	d, err := scanDevice(row)
	if err == sql.ErrNoRows {
		return nil, fleet.ErrDeviceNotFound
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DeviceStore) List(ctx context.Context, companyID string) ([]*fleet.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+deviceColumns+` FROM devices WHERE company_id = ? ORDER BY name
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var devices []*fleet.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (s *DeviceStore) ActiveNameExists(ctx context.Context, companyID, name string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM devices
		WHERE company_id = ? AND name = ? AND status != ?
	`, companyID, name, string(fleet.StatusInactive)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *DeviceStore) Update(ctx context.Context, d *fleet.Device) error {
	metrics, err := marshalMap(d.Metrics)
	if err != nil {
		return err
	}
	capabilities, err := marshalSlice(d.Capabilities)
	if err != nil {
		return err
	}
	config, err := marshalMap(d.Config)
	if err != nil {
		return err
	}
	var accessControl any
	if d.AccessControl != nil {
		b, err := json.Marshal(d.AccessControl)
		if err != nil {
			return fmt.Errorf("failed to marshal access control: %w", err)
		}
		accessControl = string(b)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE devices SET
			name = ?, type = ?, location = ?, manufacturer = ?, model = ?,
			firmware_version = ?, os_version = ?, ip_address = ?, status = ?, locked = ?,
			metrics = ?, battery_level = ?, capabilities = ?, access_control = ?, config = ?,
			fcm_token = ?, fcm_token_updated_at = ?, activated_at = ?, activated_with = ?,
			last_updated = datetime('now')
		WHERE device_id = ?
	`,
		d.Name, d.Type, d.Location, d.Manufacturer, d.Model,
		d.FirmwareVersion, d.OSVersion, d.IPAddress, string(d.Status), d.Locked,
		metrics, d.BatteryLevel, capabilities, accessControl, config,
		d.FCMToken, fmtTimePtr(d.FCMTokenUpdatedAt), fmtTimePtr(d.ActivatedAt), d.ActivatedWith,
		d.DeviceID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *DeviceStore) UpdateStatus(ctx context.Context, deviceID string, status fleet.Status) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE devices SET status = ?, last_updated = datetime('now')
		WHERE device_id = ?
	`, string(status), deviceID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *DeviceStore) SetLocked(ctx context.Context, deviceID string, locked bool) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE devices SET locked = ?, last_updated = datetime('now')
		WHERE device_id = ?
	`, locked, deviceID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

// ApplyHeartbeat records liveness and overwrites only the telemetry
// fields present in info. This is deliberately not a full-document
// replace: absent fields keep their stored value.
func (s *DeviceStore) ApplyHeartbeat(ctx context.Context, deviceID string, info *fleet.Info, now time.Time) error {
	ts := fmtTime(now)
	sets := []string{"last_seen = ?", "last_heartbeat = ?", "last_updated = datetime('now')"}
	args := []any{ts, ts}

	if info != nil {
		if info.Metrics != nil {
			metrics, err := marshalMap(info.Metrics)
			if err != nil {
				return err
			}
			sets = append(sets, "metrics = ?")
			args = append(args, metrics)
		}
		if info.FirmwareVersion != "" {
			sets = append(sets, "firmware_version = ?")
			args = append(args, info.FirmwareVersion)
		}
		if info.OSVersion != "" {
			sets = append(sets, "os_version = ?")
			args = append(args, info.OSVersion)
		}
		if info.IPAddress != "" {
			sets = append(sets, "ip_address = ?")
			args = append(args, info.IPAddress)
		}
		if info.BatteryLevel != nil {
			sets = append(sets, "battery_level = ?")
			args = append(args, *info.BatteryLevel)
		}
		if info.Status != "" {
			sets = append(sets, "status = ?")
			args = append(args, string(info.Status))
		}
	}

	args = append(args, deviceID)
	result, err := s.db.ExecContext(ctx, `
		UPDATE devices SET `+strings.Join(sets, ", ")+` WHERE device_id = ?
	`, args...)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (s *DeviceStore) SetFCMToken(ctx context.Context, deviceID, token string, now time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE devices SET fcm_token = ?, fcm_token_updated_at = ?, last_updated = datetime('now')
		WHERE device_id = ?
	`, token, fmtTime(now), deviceID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*fleet.Device, error) {
	d := &fleet.Device{}
	var (
		status                        string
		lastSeen, lastHeartbeat       sql.NullString
		metrics, capabilities, config string
		accessControl                 sql.NullString
		batteryLevel                  sql.NullInt64
		fcmUpdatedAt, activatedAt     sql.NullString
		createdAt, lastUpdated        string
	)

	err := row.Scan(
		&d.ID, &d.DeviceID, &d.CompanyID, &d.Name, &d.Type, &d.Location, &d.Manufacturer, &d.Model,
		&d.FirmwareVersion, &d.OSVersion, &d.IPAddress, &status, &d.Locked, &lastSeen, &lastHeartbeat,
		&metrics, &batteryLevel, &capabilities, &accessControl, &config,
		&d.FCMToken, &fcmUpdatedAt, &activatedAt, &d.ActivatedWith, &createdAt, &lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	d.Status = fleet.Status(status)
	if d.LastSeen, err = parseTimePtr(lastSeen); err != nil {
		return nil, err
	}
	if d.LastHeartbeat, err = parseTimePtr(lastHeartbeat); err != nil {
		return nil, err
	}
	if d.FCMTokenUpdatedAt, err = parseTimePtr(fcmUpdatedAt); err != nil {
		return nil, err
	}
	if d.ActivatedAt, err = parseTimePtr(activatedAt); err != nil {
		return nil, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if d.LastUpdated, err = parseTime(lastUpdated); err != nil {
		return nil, err
	}

	if batteryLevel.Valid {
		v := int(batteryLevel.Int64)
		d.BatteryLevel = &v
	}
	if err := json.Unmarshal([]byte(metrics), &d.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}
	if err := json.Unmarshal([]byte(capabilities), &d.Capabilities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal capabilities: %w", err)
	}
	if err := json.Unmarshal([]byte(config), &d.Config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if accessControl.Valid && accessControl.String != "" {
		d.AccessControl = &fleet.AccessControl{}
		if err := json.Unmarshal([]byte(accessControl.String), d.AccessControl); err != nil {
			return nil, fmt.Errorf("failed to unmarshal access control: %w", err)
		}
	}

	return d, nil
}

func marshalMap(m map[string]any) (string, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal map: %w", err)
	}
	return string(b), nil
}

func marshalSlice(s []string) (string, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal slice: %w", err)
	}
	return string(b), nil
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fleet.ErrDeviceNotFound
	}
	return nil
}
