package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// Codes returns an activation-code store backed by this database. It
// implements fleet.CodeStore.
func (db *DB) Codes() *CodeStore {
	return &CodeStore{db: db}
}

type CodeStore struct {
	db *DB
}

func (s *CodeStore) CreateBatch(ctx context.Context, codes []*fleet.ActivationCode) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		for _, c := range codes {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO activation_codes (code, company_id, type, status, device_name, device_type, expires_at, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, c.Code, c.CompanyID, string(c.Type), string(c.Status),
				c.DeviceName, c.DeviceType, fmtTime(c.ExpiresAt), fmtTime(c.CreatedAt))
			if err != nil {
				return fmt.Errorf("failed to create activation code: %w", err)
			}
		}
		return nil
	})
}

func (s *CodeStore) Get(ctx context.Context, code string) (*fleet.ActivationCode, error) {
	c := &fleet.ActivationCode{}
	var (
		codeType, status     string
		expiresAt, createdAt string
		usedAt               sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT code, company_id, type, status, device_name, device_type,
		       expires_at, used_at, used_by_device_id, created_at
		FROM activation_codes WHERE code = ?
	`, code).Scan(&c.Code, &c.CompanyID, &codeType, &status, &c.DeviceName, &c.DeviceType,
		&expiresAt, &usedAt, &c.UsedByDeviceID, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fleet.ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}

	c.Type = fleet.CodeType(codeType)
	c.Status = fleet.CodeStatus(status)
	if c.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if c.UsedAt, err = parseTimePtr(usedAt); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Claim atomically flips an unused code to used. The status guard in
// the WHERE clause is what makes redemption single-winner: of two
// concurrent claims only one update matches a row.
func (s *CodeStore) Claim(ctx context.Context, code, deviceID string, now time.Time) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE activation_codes
		SET status = ?, used_at = ?, used_by_device_id = ?
		WHERE code = ? AND status = ?
	`, string(fleet.CodeUsed), fmtTime(now), deviceID, code, string(fleet.CodeUnused))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
