package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/access"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
)

type accessRepository struct {
	db *database.DB
}

func NewAccessRepository(db *database.DB) access.AccessRepository {
	return &accessRepository{db: db}
}

// GetSettings implements access.AccessRepository. A missing row reads as enforce_list.
func (r *accessRepository) GetSettings(ctx context.Context) (access.Settings, error) {
	q := GetQuerier(ctx, r.db)

	var s access.Settings
	err := q.QueryRow(ctx, `SELECT mode, updated_at FROM ip_access_settings WHERE id = 1`).Scan(&s.Mode, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return access.Settings{Mode: access.ModeEnforceList}, nil
		}
		return access.Settings{}, fmt.Errorf("failed to get ip access settings: %w", err)
	}
	return s, nil
}

// SetMode implements access.AccessRepository.
func (r *accessRepository) SetMode(ctx context.Context, mode access.Mode) (access.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO ip_access_settings (id, mode, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET mode = EXCLUDED.mode, updated_at = EXCLUDED.updated_at
		RETURNING mode, updated_at
	`

	var s access.Settings
	if err := q.QueryRow(ctx, query, mode).Scan(&s.Mode, &s.UpdatedAt); err != nil {
		return access.Settings{}, fmt.Errorf("failed to set ip access mode: %w", err)
	}
	return s, nil
}

// ListAllowedIPs implements access.AccessRepository.
func (r *accessRepository) ListAllowedIPs(ctx context.Context, activeOnly bool) ([]access.AllowedIP, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, ip_address, subnet_prefix, description, is_active, created_at
		FROM allowed_ips
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowed ips: %w", err)
	}
	defer rows.Close()

	entries := []access.AllowedIP{}
	for rows.Next() {
		var a access.AllowedIP
		if err := rows.Scan(&a.ID, &a.IPAddress, &a.SubnetPrefix, &a.Description, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan allowed ip: %w", err)
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

// CreateAllowedIP implements access.AccessRepository.
func (r *accessRepository) CreateAllowedIP(ctx context.Context, entry access.AllowedIP) (access.AllowedIP, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return access.AllowedIP{}, fmt.Errorf("failed to generate allowed ip id: %w", err)
	}
	entry.ID = id

	err = q.QueryRow(ctx, `
		INSERT INTO allowed_ips (id, ip_address, subnet_prefix, description, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		entry.ID, entry.IPAddress, entry.SubnetPrefix, entry.Description, entry.Active,
	).Scan(&entry.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return access.AllowedIP{}, access.ErrAllowedIPExists
		}
		return access.AllowedIP{}, fmt.Errorf("failed to create allowed ip: %w", err)
	}
	return entry, nil
}

// DeleteAllowedIP implements access.AccessRepository.
func (r *accessRepository) DeleteAllowedIP(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM allowed_ips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete allowed ip %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return access.ErrAllowedIPNotFound
	}
	return nil
}
