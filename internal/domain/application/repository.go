package application

import (
	"context"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

// Repository persists applications and their audit trail. Submit,
// UpdateStatus and Withdraw are transactional: the row write, the activity
// insert and the job counter update commit or roll back together.
type Repository interface {
	// Submit inserts the application and activity and increments the job
	// posting's application_count in one transaction. A violation of the
	// (job_posting_id, applicant_profile_id) uniqueness surfaces as a
	// conflict error.
	Submit(ctx context.Context, app Application, activity Activity) (*Application, error)
	// UpdateStatus writes the new status, refreshes updated_at and appends
	// the activity in one transaction.
	UpdateStatus(ctx context.Context, id common.UUID, status Status, activity Activity) (*Application, error)
	// Withdraw sets status WITHDRAWN, appends the activity and decrements
	// the job posting's application_count (clamped at zero) in one
	// transaction.
	Withdraw(ctx context.Context, id common.UUID, activity Activity) (*Application, error)

	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	FindByJobAndApplicant(ctx context.Context, jobPostingID, applicantProfileID common.UUID) (*Application, error)
	ListByApplicant(ctx context.Context, applicantProfileID common.UUID, f Filter) ([]Application, error)
	ListByJob(ctx context.Context, jobPostingID common.UUID, f Filter) ([]Application, error)
	ListByEmployer(ctx context.Context, employerProfileID common.UUID, f Filter) ([]Application, error)

	AddActivity(ctx context.Context, activity Activity) (*Activity, error)
	ListActivities(ctx context.Context, applicationID common.UUID) ([]Activity, error)
	CountByStatus(ctx context.Context, applicantProfileID common.UUID) (map[Status]int, error)
}
