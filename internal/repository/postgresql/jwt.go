package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/onlinehub/workforce-backend-go/internal/pkg/database"
	"github.com/onlinehub/workforce-backend-go/internal/pkg/jwt"
)

type jwtRepositoryImpl struct {
	db *database.DB
}

// NewJWTRepository stores revoked access tokens by hash so revocation survives restarts.
func NewJWTRepository(db *database.DB) jwt.RevocationStore {
	return &jwtRepositoryImpl{db: db}
}

func (j *jwtRepositoryImpl) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	q := GetQuerier(ctx, j.db)

	_, err := q.Exec(ctx, `
		INSERT INTO revoked_tokens (token_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_hash) DO NOTHING`,
		tokenHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (j *jwtRepositoryImpl) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	q := GetQuerier(ctx, j.db)

	var revoked bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_hash = $1 AND expires_at > NOW())`,
		tokenHash).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}

func (j *jwtRepositoryImpl) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	q := GetQuerier(ctx, j.db)

	tag, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge revoked tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
