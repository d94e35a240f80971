package auth

import (
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

// RefreshToken is the stored, hashed form of an issued refresh token.
type RefreshToken struct {
	TokenHash string
	UserID    common.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}
