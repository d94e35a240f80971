package profile

import (
	"context"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

type ApplicantRepository interface {
	Upsert(ctx context.Context, p ApplicantProfile) (*ApplicantProfile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*ApplicantProfile, error)
	GetByID(ctx context.Context, id common.UUID) (*ApplicantProfile, error)
}

type EmployerRepository interface {
	Upsert(ctx context.Context, p EmployerProfile) (*EmployerProfile, error)
	GetByUserID(ctx context.Context, userID common.UUID) (*EmployerProfile, error)
	GetByID(ctx context.Context, id common.UUID) (*EmployerProfile, error)
}
