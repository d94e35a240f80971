package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/application"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/job"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/profile"
	"github.com/Mehdi-Zafar/job-portal-app/internal/notification"
	"github.com/Mehdi-Zafar/job-portal-app/internal/observability"
	"go.uber.org/zap"
)

// ApplicationService owns the application lifecycle: who may create, read,
// transition, annotate and withdraw an application, and the audit trail and
// job counters every mutation keeps consistent.
type ApplicationService struct {
	repo       application.Repository
	jobs       job.Repository
	applicants profile.ApplicantRepository
	employers  profile.EmployerRepository
	events     notification.Sink
	logger     observability.Logger
}

func NewApplicationService(repo application.Repository, jobs job.Repository, applicants profile.ApplicantRepository, employers profile.EmployerRepository, events notification.Sink, logger observability.Logger) *ApplicationService {
	return &ApplicationService{repo: repo, jobs: jobs, applicants: applicants, employers: employers, events: events, logger: logger}
}

type SubmitInput struct {
	JobPostingID     common.UUID
	CoverLetter      string
	ResumeURL        string
	ScreeningAnswers []string
}

// Submit applies the ordered precondition ladder and, on success, writes the
// application, its audit activity and the job counter increment atomically.
func (s *ApplicationService) Submit(ctx context.Context, applicantUserID common.UUID, input SubmitInput) (*application.Application, error) {
	applicantProfile, err := s.applicants.GetByUserID(ctx, applicantUserID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "applicant profile not found", nil)
		}
		return nil, err
	}
	if !applicantProfile.IsProfileComplete {
		return nil, common.NewError(common.CodeForbidden, "please complete your profile before applying to jobs", nil)
	}

	posting, err := s.jobs.GetByID(ctx, input.JobPostingID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeNotFound, "job not found", nil)
		}
		return nil, err
	}
	if posting.Status != job.StatusActive {
		return nil, common.NewError(common.CodeInvalidState, "this job is no longer accepting applications", nil)
	}
	if posting.ApplicationDeadline != nil && posting.ApplicationDeadline.Before(time.Now()) {
		return nil, common.NewError(common.CodeInvalidState, "application deadline has passed", nil)
	}

	if _, err := s.repo.FindByJobAndApplicant(ctx, posting.ID, applicantProfile.ID); err == nil {
		return nil, common.NewError(common.CodeConflict, "you have already applied to this job", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	employer, err := s.employers.GetByID(ctx, posting.EmployerProfileID)
	if err != nil {
		return nil, err
	}
	if employer.UserID == applicantUserID {
		return nil, common.NewError(common.CodeInvalidState, "you cannot apply to your own job posting", nil)
	}

	resumeURL := input.ResumeURL
	if resumeURL == "" {
		resumeURL = applicantProfile.ResumeURL
	}
	answers := input.ScreeningAnswers
	if answers == nil {
		answers = []string{}
	}
	newStatus := application.StatusSubmitted
	created, err := s.repo.Submit(ctx, application.Application{
		JobPostingID:       posting.ID,
		ApplicantProfileID: applicantProfile.ID,
		CoverLetter:        input.CoverLetter,
		ResumeURL:          resumeURL,
		ScreeningAnswers:   answers,
		Status:             newStatus,
	}, application.Activity{
		Action:    application.ActionSubmitted,
		NewStatus: &newStatus,
		Notes:     "Application submitted successfully",
	})
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "application.submitted", UserID: &applicantUserID, Payload: eventPayload(ctx, map[string]string{"application_id": created.ID.String(), "job_posting_id": posting.ID.String()})})
	return created, nil
}

// UpdateStatus lets the owning employer write any enumerated status. The
// transition graph is deliberately permissive: only unknown statuses are
// rejected, and terminality is enforced solely by Withdraw.
func (s *ApplicationService) UpdateStatus(ctx context.Context, applicationID, employerUserID common.UUID, status application.Status, notes string) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmployerOwns(ctx, app.JobPostingID, employerUserID); err != nil {
		return nil, err
	}

	normalized := application.Status(strings.ToUpper(strings.TrimSpace(string(status))))
	if !normalized.IsKnown() {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be one of SUBMITTED, REVIEWED, SHORTLISTED, INTERVIEW_SCHEDULED, INTERVIEWED, OFFERED, ACCEPTED, REJECTED, WITHDRAWN"})
	}

	oldStatus := app.Status
	if notes == "" {
		notes = fmt.Sprintf("Status changed from %s to %s", oldStatus, normalized)
	}
	updated, err := s.repo.UpdateStatus(ctx, applicationID, normalized, application.Activity{
		PerformedBy: &employerUserID,
		Action:      application.ActionStatusChanged,
		OldStatus:   &oldStatus,
		NewStatus:   &normalized,
		Notes:       notes,
	})
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "application.status_changed", UserID: &employerUserID, Payload: eventPayload(ctx, map[string]string{"application_id": applicationID.String(), "status": string(normalized)})})
	return updated, nil
}

// AddNote appends a note_added activity without touching the application row.
func (s *ApplicationService) AddNote(ctx context.Context, applicationID, employerUserID common.UUID, notes string) (*application.Activity, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, common.NewValidationError("invalid note", map[string]string{"notes": "notes are required"})
	}
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmployerOwns(ctx, app.JobPostingID, employerUserID); err != nil {
		return nil, err
	}
	activity, err := s.repo.AddActivity(ctx, application.Activity{
		ApplicationID: applicationID,
		PerformedBy:   &employerUserID,
		Action:        application.ActionNoteAdded,
		Notes:         notes,
	})
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "application.note_added", UserID: &employerUserID, Payload: eventPayload(ctx, map[string]string{"application_id": applicationID.String()})})
	return activity, nil
}

// Withdraw is the only terminal-state-aware transition: already-terminal
// applications cannot be withdrawn, which also keeps the counter decrement
// from running twice.
func (s *ApplicationService) Withdraw(ctx context.Context, applicationID, applicantUserID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	owner, err := s.applicants.GetByID(ctx, app.ApplicantProfileID)
	if err != nil {
		return nil, err
	}
	if owner.UserID != applicantUserID {
		return nil, common.NewError(common.CodeForbidden, "you can only withdraw your own applications", nil)
	}
	if app.Status.IsTerminal() {
		return nil, common.NewError(common.CodeInvalidState, fmt.Sprintf("cannot withdraw application with status: %s", app.Status), nil)
	}

	if posting, err := s.jobs.GetByID(ctx, app.JobPostingID); err == nil && posting.ApplicationCount <= 0 {
		s.logger.Warn("application count drift detected on withdraw", zap.String("job_posting_id", app.JobPostingID.String()))
	}

	oldStatus := app.Status
	newStatus := application.StatusWithdrawn
	updated, err := s.repo.Withdraw(ctx, applicationID, application.Activity{
		Action:    application.ActionWithdrawn,
		OldStatus: &oldStatus,
		NewStatus: &newStatus,
		Notes:     "Application withdrawn by applicant",
	})
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "application.withdrawn", UserID: &applicantUserID, Payload: eventPayload(ctx, map[string]string{"application_id": applicationID.String()})})
	return updated, nil
}

// FindByID returns the application to its applicant or the owning employer.
func (s *ApplicationService) FindByID(ctx context.Context, applicationID, requestingUserID common.UUID) (*application.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureParticipant(ctx, app, requestingUserID); err != nil {
		return nil, err
	}
	return app, nil
}

// GetActivities returns the audit log, most recent first, to either side.
func (s *ApplicationService) GetActivities(ctx context.Context, applicationID, requestingUserID common.UUID) ([]application.Activity, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureParticipant(ctx, app, requestingUserID); err != nil {
		return nil, err
	}
	return s.repo.ListActivities(ctx, applicationID)
}

func (s *ApplicationService) GetMyApplications(ctx context.Context, applicantUserID common.UUID, f application.Filter) ([]application.Application, error) {
	applicantProfile, err := s.applicants.GetByUserID(ctx, applicantUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByApplicant(ctx, applicantProfile.ID, f)
}

func (s *ApplicationService) GetJobApplications(ctx context.Context, jobPostingID, employerUserID common.UUID, f application.Filter) ([]application.Application, error) {
	if err := s.ensureEmployerOwns(ctx, jobPostingID, employerUserID); err != nil {
		return nil, err
	}
	return s.repo.ListByJob(ctx, jobPostingID, f)
}

func (s *ApplicationService) GetEmployerApplications(ctx context.Context, employerUserID common.UUID, f application.Filter) ([]application.Application, error) {
	employer, err := s.employers.GetByUserID(ctx, employerUserID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByEmployer(ctx, employer.ID, f)
}

// HasApplied reports whether the user already applied to the job. A missing
// applicant profile means no.
func (s *ApplicationService) HasApplied(ctx context.Context, applicantUserID, jobPostingID common.UUID) (bool, error) {
	applicantProfile, err := s.applicants.GetByUserID(ctx, applicantUserID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	if _, err := s.repo.FindByJobAndApplicant(ctx, jobPostingID, applicantProfile.ID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetApplicantStatistics reports per-status counts, zero-filled across the
// whole enumeration.
func (s *ApplicationService) GetApplicantStatistics(ctx context.Context, applicantUserID common.UUID) (*application.Statistics, error) {
	applicantProfile, err := s.applicants.GetByUserID(ctx, applicantUserID)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountByStatus(ctx, applicantProfile.ID)
	if err != nil {
		return nil, err
	}
	stats := &application.Statistics{
		Submitted:          counts[application.StatusSubmitted],
		Reviewed:           counts[application.StatusReviewed],
		Shortlisted:        counts[application.StatusShortlisted],
		InterviewScheduled: counts[application.StatusInterviewScheduled],
		Interviewed:        counts[application.StatusInterviewed],
		Offered:            counts[application.StatusOffered],
		Accepted:           counts[application.StatusAccepted],
		Rejected:           counts[application.StatusRejected],
		Withdrawn:          counts[application.StatusWithdrawn],
	}
	for _, count := range counts {
		stats.TotalApplications += count
	}
	return stats, nil
}

func (s *ApplicationService) ensureEmployerOwns(ctx context.Context, jobPostingID, employerUserID common.UUID) error {
	posting, err := s.jobs.GetByID(ctx, jobPostingID)
	if err != nil {
		return err
	}
	employer, err := s.employers.GetByID(ctx, posting.EmployerProfileID)
	if err != nil {
		return err
	}
	if employer.UserID != employerUserID {
		return common.NewError(common.CodeForbidden, "you can only manage applications for your own jobs", nil)
	}
	return nil
}

func (s *ApplicationService) ensureParticipant(ctx context.Context, app *application.Application, requestingUserID common.UUID) error {
	owner, err := s.applicants.GetByID(ctx, app.ApplicantProfileID)
	if err != nil {
		return err
	}
	if owner.UserID == requestingUserID {
		return nil
	}
	posting, err := s.jobs.GetByID(ctx, app.JobPostingID)
	if err != nil {
		return err
	}
	employer, err := s.employers.GetByID(ctx, posting.EmployerProfileID)
	if err != nil {
		return err
	}
	if employer.UserID == requestingUserID {
		return nil
	}
	return common.NewError(common.CodeForbidden, "you do not have access to this application", nil)
}
