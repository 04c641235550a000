package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"kyrix/api/internal/models"
)

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrDeviceCodeConflict = errors.New("device code already in use")
)

type DeviceRepository struct {
	pool *pgxpool.Pool
}

func NewDeviceRepository(pool *pgxpool.Pool) *DeviceRepository {
	return &DeviceRepository{pool: pool}
}

const deviceColumns = `id, device_code, user_id, mode, last_sync, created_at`

func scanDevice(row pgx.Row) (models.Device, error) {
	var device models.Device
	err := row.Scan(
		&device.ID,
		&device.DeviceCode,
		&device.UserID,
		&device.Mode,
		&device.LastSync,
		&device.CreatedAt,
	)
	return device, err
}

// Create inserts a device row. The unique constraint on device_code is the
// actual uniqueness guarantee; a violation maps to ErrDeviceCodeConflict so
// two racing pairing requests cannot both succeed.
func (r *DeviceRepository) Create(ctx context.Context, device models.Device) (models.Device, error) {
	const query = `
		INSERT INTO devices (id, device_code, user_id, mode, last_sync, created_at)
		VALUES ($1, $2, $3, $4, NULL, NOW())
		RETURNING ` + deviceColumns

	created, err := scanDevice(r.pool.QueryRow(ctx, query,
		device.ID,
		device.DeviceCode,
		device.UserID,
		device.Mode,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Device{}, ErrDeviceCodeConflict
		}
		return models.Device{}, err
	}
	return created, nil
}

func (r *DeviceRepository) FindByCode(ctx context.Context, code string) (models.Device, error) {
	const query = `
		SELECT ` + deviceColumns + `
		FROM devices WHERE device_code = $1
	`

	device, err := scanDevice(r.pool.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Device{}, ErrDeviceNotFound
	}
	return device, err
}

// FindLatestByUser returns the most recently paired device for a user.
func (r *DeviceRepository) FindLatestByUser(ctx context.Context, userID string) (models.Device, error) {
	const query = `
		SELECT ` + deviceColumns + `
		FROM devices WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	device, err := scanDevice(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Device{}, ErrDeviceNotFound
	}
	return device, err
}

func (r *DeviceRepository) TouchLastSync(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE devices SET last_sync = $2 WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// ListStale returns devices that have never synced, or last synced before
// the cutoff. Consumed by the daily sweep for operator visibility only.
func (r *DeviceRepository) ListStale(ctx context.Context, cutoff time.Time) ([]models.Device, error) {
	const query = `
		SELECT ` + deviceColumns + `
		FROM devices
		WHERE (last_sync IS NULL AND created_at < $1) OR last_sync < $1
		ORDER BY created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	devices := make([]models.Device, 0)
	for rows.Next() {
		device, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}
