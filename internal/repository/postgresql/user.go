package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/onlinehub/workforce-backend-go/internal/domain/user"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
)

type adminRepositoryImpl struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) user.AdminRepository {
	return &adminRepositoryImpl{db: db}
}

// GetByUsername implements user.AdminRepository.
func (r *adminRepositoryImpl) GetByUsername(ctx context.Context, username string) (user.Admin, error) {
	q := GetQuerier(ctx, r.db)

	var a user.Admin
	err := q.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admin_users
		WHERE LOWER(username) = LOWER($1)`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Admin{}, user.ErrAdminNotFound
		}
		return user.Admin{}, fmt.Errorf("failed to get admin by username: %w", err)
	}
	return a, nil
}

// Create implements user.AdminRepository.
func (r *adminRepositoryImpl) Create(ctx context.Context, admin user.Admin) (user.Admin, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return user.Admin{}, fmt.Errorf("failed to generate admin id: %w", err)
	}
	admin.ID = id

	err = q.QueryRow(ctx, `
		INSERT INTO admin_users (id, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		admin.ID, admin.Username, admin.PasswordHash,
	).Scan(&admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return user.Admin{}, user.ErrAdminUsernameTaken
		}
		return user.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}
	return admin, nil
}

// Count implements user.AdminRepository.
func (r *adminRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}
