package auth

import (
	"context"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

type RefreshTokenRepository interface {
	Store(ctx context.Context, token RefreshToken) error
	Get(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteByUser(ctx context.Context, userID common.UUID) error
	DeleteExpired(ctx context.Context, beforeUnix int64) error
}
