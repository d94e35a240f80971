package app

import (
	"context"
	"testing"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/application"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/job"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/profile"
	"github.com/Mehdi-Zafar/job-portal-app/internal/notification"
	"github.com/Mehdi-Zafar/job-portal-app/internal/observability"
)

type lifecycleFixture struct {
	service         *ApplicationService
	repo            *fakeApplicationRepo
	jobs            *fakeJobRepo
	applicants      *fakeApplicantRepo
	employers       *fakeEmployerRepo
	applicantUserID common.UUID
	employerUserID  common.UUID
	posting         *job.Posting
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()
	jobs := newFakeJobRepo()
	repo := newFakeApplicationRepo(jobs)
	applicants := newFakeApplicantRepo()
	employers := newFakeEmployerRepo()
	service := NewApplicationService(repo, jobs, applicants, employers, notification.NopSink{}, observability.NewNop())

	applicantUserID := common.NewUUID()
	if _, err := applicants.Upsert(context.Background(), profile.ApplicantProfile{
		UserID:            applicantUserID,
		FullName:          "Sara Malik",
		CurrentTitle:      "Backend Engineer",
		ResumeURL:         "https://cdn.example.com/resumes/sara.pdf",
		IsProfileComplete: true,
	}); err != nil {
		t.Fatalf("seed applicant: %v", err)
	}

	employerUserID := common.NewUUID()
	employer, err := employers.Upsert(context.Background(), profile.EmployerProfile{
		UserID:            employerUserID,
		CompanyName:       "Acme Corp",
		IsProfileComplete: true,
	})
	if err != nil {
		t.Fatalf("seed employer: %v", err)
	}

	posting, err := jobs.Create(context.Background(), job.Posting{
		EmployerProfileID: employer.ID,
		JobTitle:          "Senior Go Developer",
		Status:            job.StatusActive,
	})
	if err != nil {
		t.Fatalf("seed posting: %v", err)
	}

	return &lifecycleFixture{
		service:         service,
		repo:            repo,
		jobs:            jobs,
		applicants:      applicants,
		employers:       employers,
		applicantUserID: applicantUserID,
		employerUserID:  employerUserID,
		posting:         posting,
	}
}

func (f *lifecycleFixture) submit(t *testing.T) *application.Application {
	t.Helper()
	created, err := f.service.Submit(context.Background(), f.applicantUserID, SubmitInput{JobPostingID: f.posting.ID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return created
}

func TestSubmitIncompleteProfileForbidden(t *testing.T) {
	f := newLifecycleFixture(t)
	incompleteUserID := common.NewUUID()
	if _, err := f.applicants.Upsert(context.Background(), profile.ApplicantProfile{
		UserID:   incompleteUserID,
		FullName: "Draft Profile",
	}); err != nil {
		t.Fatalf("seed applicant: %v", err)
	}

	_, err := f.service.Submit(context.Background(), incompleteUserID, SubmitInput{JobPostingID: f.posting.ID})
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if len(f.repo.applications) != 0 {
		t.Fatalf("expected no application rows, got %d", len(f.repo.applications))
	}
	if count := f.jobs.applicationCount(f.posting.ID); count != 0 {
		t.Fatalf("expected application_count 0, got %d", count)
	}
}

func TestSubmitMissingProfileNotFound(t *testing.T) {
	f := newLifecycleFixture(t)
	_, err := f.service.Submit(context.Background(), common.NewUUID(), SubmitInput{JobPostingID: f.posting.ID})
	if !common.Is(err, common.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestSubmitInactiveJobRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	if _, err := f.jobs.UpdateStatus(context.Background(), f.posting.ID, job.StatusClosed, nil, nil); err != nil {
		t.Fatalf("close posting: %v", err)
	}
	_, err := f.service.Submit(context.Background(), f.applicantUserID, SubmitInput{JobPostingID: f.posting.ID})
	if !common.Is(err, common.CodeInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestSubmitDeadlinePassedRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	past := time.Now().Add(-24 * time.Hour)
	f.jobs.mu.Lock()
	f.jobs.postings[f.posting.ID].ApplicationDeadline = &past
	f.jobs.mu.Unlock()

	_, err := f.service.Submit(context.Background(), f.applicantUserID, SubmitInput{JobPostingID: f.posting.ID})
	if !common.Is(err, common.CodeInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestSubmitOwnJobRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	if _, err := f.applicants.Upsert(context.Background(), profile.ApplicantProfile{
		UserID:            f.employerUserID,
		FullName:          "Moonlighting Founder",
		CurrentTitle:      "CEO",
		ResumeURL:         "https://cdn.example.com/resumes/founder.pdf",
		IsProfileComplete: true,
	}); err != nil {
		t.Fatalf("seed applicant: %v", err)
	}
	_, err := f.service.Submit(context.Background(), f.employerUserID, SubmitInput{JobPostingID: f.posting.ID})
	if !common.Is(err, common.CodeInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestSubmitDuplicateConflictSingleIncrement(t *testing.T) {
	f := newLifecycleFixture(t)
	f.submit(t)

	_, err := f.service.Submit(context.Background(), f.applicantUserID, SubmitInput{JobPostingID: f.posting.ID})
	if !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if count := f.jobs.applicationCount(f.posting.ID); count != 1 {
		t.Fatalf("expected application_count 1, got %d", count)
	}
}

func TestSubmitResumeFallsBackToProfile(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	if created.ResumeURL != "https://cdn.example.com/resumes/sara.pdf" {
		t.Fatalf("expected resume fallback to profile, got %q", created.ResumeURL)
	}
	if created.ScreeningAnswers == nil || len(created.ScreeningAnswers) != 0 {
		t.Fatalf("expected empty screening answers, got %v", created.ScreeningAnswers)
	}
	if created.Status != application.StatusSubmitted {
		t.Fatalf("expected SUBMITTED, got %s", created.Status)
	}
}

func TestSubmitWritesOneActivity(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	activities := f.repo.activitiesFor(created.ID)
	if len(activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(activities))
	}
	if activities[0].Action != application.ActionSubmitted {
		t.Fatalf("expected action %s, got %s", application.ActionSubmitted, activities[0].Action)
	}
	if activities[0].NewStatus == nil || *activities[0].NewStatus != application.StatusSubmitted {
		t.Fatal("expected new_status SUBMITTED on activity")
	}
}

func TestUpdateStatusByOwnerWritesActivity(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)

	updated, err := f.service.UpdateStatus(context.Background(), created.ID, f.employerUserID, "shortlisted", "")
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != application.StatusShortlisted {
		t.Fatalf("expected SHORTLISTED, got %s", updated.Status)
	}
	activities := f.repo.activitiesFor(created.ID)
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	last := activities[len(activities)-1]
	if last.Action != application.ActionStatusChanged {
		t.Fatalf("expected action %s, got %s", application.ActionStatusChanged, last.Action)
	}
	if last.OldStatus == nil || *last.OldStatus != application.StatusSubmitted {
		t.Fatal("expected old_status SUBMITTED on activity")
	}
	if last.NewStatus == nil || *last.NewStatus != application.StatusShortlisted {
		t.Fatal("expected new_status SHORTLISTED on activity")
	}
	if last.Notes != "Status changed from SUBMITTED to SHORTLISTED" {
		t.Fatalf("unexpected default notes %q", last.Notes)
	}
}

func TestUpdateStatusUnknownStatusRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	_, err := f.service.UpdateStatus(context.Background(), created.ID, f.employerUserID, "PENDING", "")
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.activitiesFor(created.ID)) != 1 {
		t.Fatal("expected no new activity on rejected status")
	}
}

func TestUpdateStatusByOtherEmployerForbidden(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)

	otherUserID := common.NewUUID()
	if _, err := f.employers.Upsert(context.Background(), profile.EmployerProfile{
		UserID:            otherUserID,
		CompanyName:       "Rival Inc",
		IsProfileComplete: true,
	}); err != nil {
		t.Fatalf("seed employer: %v", err)
	}

	_, err := f.service.UpdateStatus(context.Background(), created.ID, otherUserID, application.StatusRejected, "")
	if !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	stored, err := f.repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get application: %v", err)
	}
	if stored.Status != application.StatusSubmitted {
		t.Fatalf("expected status unchanged, got %s", stored.Status)
	}
}

func TestAddNoteRequiresNotes(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	if _, err := f.service.AddNote(context.Background(), created.ID, f.employerUserID, "  "); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	activity, err := f.service.AddNote(context.Background(), created.ID, f.employerUserID, "Strong Go background")
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if activity.Action != application.ActionNoteAdded {
		t.Fatalf("expected action %s, got %s", application.ActionNoteAdded, activity.Action)
	}
	stored, err := f.repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get application: %v", err)
	}
	if stored.Status != application.StatusSubmitted {
		t.Fatal("expected note to leave the application untouched")
	}
}

func TestWithdrawDecrementsOnce(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	if count := f.jobs.applicationCount(f.posting.ID); count != 1 {
		t.Fatalf("expected application_count 1, got %d", count)
	}

	withdrawn, err := f.service.Withdraw(context.Background(), created.ID, f.applicantUserID)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if withdrawn.Status != application.StatusWithdrawn {
		t.Fatalf("expected WITHDRAWN, got %s", withdrawn.Status)
	}
	if count := f.jobs.applicationCount(f.posting.ID); count != 0 {
		t.Fatalf("expected application_count 0, got %d", count)
	}

	_, err = f.service.Withdraw(context.Background(), created.ID, f.applicantUserID)
	if !common.Is(err, common.CodeInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
	if count := f.jobs.applicationCount(f.posting.ID); count != 0 {
		t.Fatalf("expected no double decrement, got %d", count)
	}
}

func TestWithdrawTerminalStatusRejected(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	if _, err := f.service.UpdateStatus(context.Background(), created.ID, f.employerUserID, application.StatusAccepted, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}
	_, err := f.service.Withdraw(context.Background(), created.ID, f.applicantUserID)
	if !common.Is(err, common.CodeInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestWithdrawByOtherApplicantForbidden(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	_, err := f.service.Withdraw(context.Background(), created.ID, common.NewUUID())
	if !common.Is(err, common.CodeNotFound) && !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden or not found error, got %v", err)
	}
}

func TestFindByIDParticipantsOnly(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)

	if _, err := f.service.FindByID(context.Background(), created.ID, f.applicantUserID); err != nil {
		t.Fatalf("applicant access: %v", err)
	}
	if _, err := f.service.FindByID(context.Background(), created.ID, f.employerUserID); err != nil {
		t.Fatalf("employer access: %v", err)
	}

	strangerID := common.NewUUID()
	if _, err := f.applicants.Upsert(context.Background(), profile.ApplicantProfile{
		UserID:   strangerID,
		FullName: "Bystander",
	}); err != nil {
		t.Fatalf("seed applicant: %v", err)
	}
	// ensureParticipant resolves the owner profile first, so the stranger's
	// lookup must fall through to the forbidden branch.
	if _, err := f.service.FindByID(context.Background(), created.ID, strangerID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestGetActivitiesMostRecentFirst(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	if _, err := f.service.UpdateStatus(context.Background(), created.ID, f.employerUserID, application.StatusReviewed, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}

	activities, err := f.service.GetActivities(context.Background(), created.ID, f.applicantUserID)
	if err != nil {
		t.Fatalf("get activities: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].Action != application.ActionStatusChanged {
		t.Fatalf("expected most recent first, got %s", activities[0].Action)
	}
}

func TestHasApplied(t *testing.T) {
	f := newLifecycleFixture(t)

	applied, err := f.service.HasApplied(context.Background(), f.applicantUserID, f.posting.ID)
	if err != nil || applied {
		t.Fatalf("expected false before applying, got %v %v", applied, err)
	}

	f.submit(t)
	applied, err = f.service.HasApplied(context.Background(), f.applicantUserID, f.posting.ID)
	if err != nil || !applied {
		t.Fatalf("expected true after applying, got %v %v", applied, err)
	}

	// No applicant profile means no application, not an error.
	applied, err = f.service.HasApplied(context.Background(), common.NewUUID(), f.posting.ID)
	if err != nil || applied {
		t.Fatalf("expected false for unknown user, got %v %v", applied, err)
	}
}

func TestStatisticsZeroFilled(t *testing.T) {
	f := newLifecycleFixture(t)
	created := f.submit(t)
	if _, err := f.service.UpdateStatus(context.Background(), created.ID, f.employerUserID, application.StatusOffered, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}

	stats, err := f.service.GetApplicantStatistics(context.Background(), f.applicantUserID)
	if err != nil {
		t.Fatalf("get statistics: %v", err)
	}
	if stats.TotalApplications != 1 {
		t.Fatalf("expected total 1, got %d", stats.TotalApplications)
	}
	if stats.Offered != 1 {
		t.Fatalf("expected offered 1, got %d", stats.Offered)
	}
	if stats.Submitted != 0 || stats.Reviewed != 0 || stats.Shortlisted != 0 ||
		stats.InterviewScheduled != 0 || stats.Interviewed != 0 ||
		stats.Accepted != 0 || stats.Rejected != 0 || stats.Withdrawn != 0 {
		t.Fatalf("expected zero-filled remaining statuses, got %+v", stats)
	}
}

func TestGetJobApplicationsOwnershipChecked(t *testing.T) {
	f := newLifecycleFixture(t)
	f.submit(t)

	otherUserID := common.NewUUID()
	if _, err := f.employers.Upsert(context.Background(), profile.EmployerProfile{
		UserID:            otherUserID,
		CompanyName:       "Rival Inc",
		IsProfileComplete: true,
	}); err != nil {
		t.Fatalf("seed employer: %v", err)
	}

	if _, err := f.service.GetJobApplications(context.Background(), f.posting.ID, otherUserID, application.Filter{}); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}

	items, err := f.service.GetJobApplications(context.Background(), f.posting.ID, f.employerUserID, application.Filter{})
	if err != nil {
		t.Fatalf("get job applications: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 application, got %d", len(items))
	}
}
