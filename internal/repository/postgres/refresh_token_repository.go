package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/auth"
)

type RefreshTokenRepository struct {
	db *sql.DB
}

func NewRefreshTokenRepository(db *sql.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Store(ctx context.Context, token auth.RefreshToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO refresh_tokens (token_hash, user_id, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		token.TokenHash, token.UserID, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to store refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepository) Get(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT token_hash, user_id, expires_at, created_at FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	var token auth.RefreshToken
	if err := row.Scan(&token.TokenHash, &token.UserID, &token.ExpiresAt, &token.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "refresh token not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load refresh token", err)
	}
	return &token, nil
}

func (r *RefreshTokenRepository) Delete(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteByUser(ctx context.Context, userID common.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete refresh tokens", err)
	}
	return nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, beforeUnix int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= $1`, time.Unix(beforeUnix, 0).UTC())
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete expired refresh tokens", err)
	}
	return nil
}
