package user

import (
	"context"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

type Repository interface {
	Create(ctx context.Context, u User) (*User, error)
	GetByID(ctx context.Context, id common.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListRoles(ctx context.Context, userID common.UUID) ([]Role, error)
	AddRole(ctx context.Context, userID common.UUID, role Role) error
}
