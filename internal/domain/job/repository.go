package job

import (
	"context"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

type Repository interface {
	Create(ctx context.Context, p Posting) (*Posting, error)
	Update(ctx context.Context, p Posting) (*Posting, error)
	// UpdateStatus writes the status and, when non-nil, the posted/closed
	// timestamps (nil leaves the stored value untouched).
	UpdateStatus(ctx context.Context, id common.UUID, status Status, postedDate, closedDate *time.Time) (*Posting, error)
	GetByID(ctx context.Context, id common.UUID) (*Posting, error)
	Search(ctx context.Context, f SearchFilter) ([]Posting, error)
	ListByEmployer(ctx context.Context, employerProfileID common.UUID) ([]Posting, error)
	Delete(ctx context.Context, id common.UUID) error
	// IncrementViewCount bumps view_count server-side; lost updates under
	// concurrency are not acceptable here, so no read-modify-write.
	IncrementViewCount(ctx context.Context, id common.UUID) error
}
