package app

import (
	"context"
	"strings"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/job"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/profile"
	"github.com/Mehdi-Zafar/job-portal-app/internal/notification"
)

type JobService struct {
	repo      job.Repository
	employers profile.EmployerRepository
	events    notification.Sink
}

func NewJobService(repo job.Repository, employers profile.EmployerRepository, events notification.Sink) *JobService {
	return &JobService{repo: repo, employers: employers, events: events}
}

func (s *JobService) Create(ctx context.Context, employerUserID common.UUID, p job.Posting) (*job.Posting, error) {
	employer, err := s.ensureCompleteEmployer(ctx, employerUserID)
	if err != nil {
		return nil, err
	}
	if err := validatePosting(p); err != nil {
		return nil, err
	}
	p.EmployerProfileID = employer.ID
	if p.Status == "" {
		p.Status = job.StatusDraft
	}
	if err := validateJobStatus(p.Status); err != nil {
		return nil, err
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	if p.Status == job.StatusActive {
		now := time.Now().UTC()
		p.PostedDate = &now
	}
	p.ViewCount = 0
	p.ApplicationCount = 0
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "job.created", UserID: &employerUserID, Payload: eventPayload(ctx, map[string]string{"job_posting_id": created.ID.String()})})
	return created, nil
}

func (s *JobService) Update(ctx context.Context, employerUserID common.UUID, p job.Posting) (*job.Posting, error) {
	current, err := s.ensureOwned(ctx, p.ID, employerUserID)
	if err != nil {
		return nil, err
	}
	if err := validatePosting(p); err != nil {
		return nil, err
	}
	p.EmployerProfileID = current.EmployerProfileID
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "job.updated", UserID: &employerUserID, Payload: eventPayload(ctx, map[string]string{"job_posting_id": updated.ID.String()})})
	return updated, nil
}

// UpdateStatus stamps postedDate on first activation and closedDate on first
// close, then records the transition.
func (s *JobService) UpdateStatus(ctx context.Context, employerUserID, jobID common.UUID, status job.Status) (*job.Posting, error) {
	current, err := s.ensureOwned(ctx, jobID, employerUserID)
	if err != nil {
		return nil, err
	}
	normalized := job.Status(strings.ToUpper(strings.TrimSpace(string(status))))
	if err := validateJobStatus(normalized); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var postedDate, closedDate *time.Time
	if normalized == job.StatusActive && current.PostedDate == nil {
		postedDate = &now
	}
	if normalized == job.StatusClosed && current.ClosedDate == nil {
		closedDate = &now
	}
	updated, err := s.repo.UpdateStatus(ctx, jobID, normalized, postedDate, closedDate)
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "job.status_changed", UserID: &employerUserID, Payload: eventPayload(ctx, map[string]string{"job_posting_id": jobID.String(), "status": string(normalized)})})
	return updated, nil
}

// Get serves the public detail view and bumps the view counter.
func (s *JobService) Get(ctx context.Context, id common.UUID) (*job.Posting, error) {
	posting, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = s.repo.IncrementViewCount(ctx, id)
	return posting, nil
}

func (s *JobService) Search(ctx context.Context, f job.SearchFilter) ([]job.Posting, error) {
	return s.repo.Search(ctx, f)
}

func (s *JobService) ListByEmployer(ctx context.Context, employerUserID common.UUID) ([]job.Posting, error) {
	employer, err := s.employers.GetByUserID(ctx, employerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByEmployer(ctx, employer.ID)
}

// Delete removes the posting; applications and their activities go with it
// (cascade at the storage layer).
func (s *JobService) Delete(ctx context.Context, employerUserID, jobID common.UUID) error {
	if _, err := s.ensureOwned(ctx, jobID, employerUserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, jobID); err != nil {
		return err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "job.deleted", UserID: &employerUserID, Payload: eventPayload(ctx, map[string]string{"job_posting_id": jobID.String()})})
	return nil
}

// Duplicate copies a posting as a fresh draft with zeroed counters.
func (s *JobService) Duplicate(ctx context.Context, employerUserID, jobID common.UUID) (*job.Posting, error) {
	current, err := s.ensureOwned(ctx, jobID, employerUserID)
	if err != nil {
		return nil, err
	}
	copy := *current
	copy.ID = ""
	copy.JobTitle = current.JobTitle + " (Copy)"
	copy.Status = job.StatusDraft
	copy.ViewCount = 0
	copy.ApplicationCount = 0
	copy.PostedDate = nil
	copy.ClosedDate = nil
	created, err := s.repo.Create(ctx, copy)
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "job.duplicated", UserID: &employerUserID, Payload: eventPayload(ctx, map[string]string{"job_posting_id": created.ID.String(), "source_job_posting_id": jobID.String()})})
	return created, nil
}

func (s *JobService) ensureOwned(ctx context.Context, jobID, employerUserID common.UUID) (*job.Posting, error) {
	posting, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	employer, err := s.employers.GetByID(ctx, posting.EmployerProfileID)
	if err != nil {
		return nil, err
	}
	if employer.UserID != employerUserID {
		return nil, common.NewError(common.CodeForbidden, "you can only manage your own jobs", nil)
	}
	return posting, nil
}

func (s *JobService) ensureCompleteEmployer(ctx context.Context, employerUserID common.UUID) (*profile.EmployerProfile, error) {
	employer, err := s.employers.GetByUserID(ctx, employerUserID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "employer profile not found", nil)
		}
		return nil, err
	}
	if !employer.IsProfileComplete {
		return nil, common.NewError(common.CodeForbidden, "please complete your employer profile before posting jobs", nil)
	}
	return employer, nil
}

func validatePosting(p job.Posting) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.JobTitle) == "" {
		fields["job_title"] = "job title is required"
	}
	if p.EmploymentType == "" {
		fields["employment_type"] = "employment type is required"
	} else if !isKnownEmploymentType(p.EmploymentType) {
		fields["employment_type"] = "employment type must be FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP, or TEMPORARY"
	}
	if p.WorkplaceType == "" {
		fields["workplace_type"] = "workplace type is required"
	} else if !isKnownWorkplaceType(p.WorkplaceType) {
		fields["workplace_type"] = "workplace type must be ON_SITE, REMOTE, or HYBRID"
	}
	if strings.TrimSpace(p.JobDescription) == "" {
		fields["job_description"] = "job description is required"
	}
	if p.SalaryMin > 0 && p.SalaryMax > 0 && p.SalaryMin > p.SalaryMax {
		fields["salary_min"] = "salary_min cannot exceed salary_max"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid job posting", fields)
	}
	return nil
}

func validateJobStatus(status job.Status) error {
	switch status {
	case job.StatusDraft, job.StatusActive, job.StatusClosed, job.StatusCancelled:
		return nil
	default:
		return common.NewValidationError("invalid job status", map[string]string{"status": "status must be DRAFT, ACTIVE, CLOSED, or CANCELLED"})
	}
}

func isKnownEmploymentType(t job.EmploymentType) bool {
	switch t {
	case job.EmploymentFullTime, job.EmploymentPartTime, job.EmploymentContract, job.EmploymentInternship, job.EmploymentTemporary:
		return true
	default:
		return false
	}
}

func isKnownWorkplaceType(t job.WorkplaceType) bool {
	switch t {
	case job.WorkplaceOnSite, job.WorkplaceRemote, job.WorkplaceHybrid:
		return true
	default:
		return false
	}
}
