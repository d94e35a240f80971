package app

import (
	"context"
	"strings"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/profile"
	"github.com/Mehdi-Zafar/job-portal-app/internal/notification"
)

type ProfileService struct {
	applicants profile.ApplicantRepository
	employers  profile.EmployerRepository
	events     notification.Sink
}

func NewProfileService(applicants profile.ApplicantRepository, employers profile.EmployerRepository, events notification.Sink) *ProfileService {
	return &ProfileService{applicants: applicants, employers: employers, events: events}
}

func (s *ProfileService) UpsertApplicant(ctx context.Context, userID common.UUID, p profile.ApplicantProfile) (*profile.ApplicantProfile, error) {
	if strings.TrimSpace(p.FullName) == "" {
		return nil, common.NewValidationError("invalid profile", map[string]string{"full_name": "full name is required"})
	}
	if existing, err := s.applicants.GetByUserID(ctx, userID); err == nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	p.UserID = userID
	p.IsProfileComplete = IsApplicantProfileComplete(p)
	saved, err := s.applicants.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "profile.applicant_saved", UserID: &userID, Payload: eventPayload(ctx, map[string]string{"complete": boolString(saved.IsProfileComplete)})})
	return saved, nil
}

func (s *ProfileService) GetApplicant(ctx context.Context, userID common.UUID) (*profile.ApplicantProfile, error) {
	return s.applicants.GetByUserID(ctx, userID)
}

func (s *ProfileService) UpsertEmployer(ctx context.Context, userID common.UUID, p profile.EmployerProfile) (*profile.EmployerProfile, error) {
	if strings.TrimSpace(p.CompanyName) == "" {
		return nil, common.NewValidationError("invalid profile", map[string]string{"company_name": "company name is required"})
	}
	if existing, err := s.employers.GetByUserID(ctx, userID); err == nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.IsVerified = existing.IsVerified
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	p.UserID = userID
	p.IsProfileComplete = IsEmployerProfileComplete(p)
	saved, err := s.employers.Upsert(ctx, p)
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "profile.employer_saved", UserID: &userID, Payload: eventPayload(ctx, map[string]string{"complete": boolString(saved.IsProfileComplete)})})
	return saved, nil
}

func (s *ProfileService) GetEmployer(ctx context.Context, userID common.UUID) (*profile.EmployerProfile, error) {
	return s.employers.GetByUserID(ctx, userID)
}

// IsApplicantProfileComplete is the gate for submitting applications.
func IsApplicantProfileComplete(p profile.ApplicantProfile) bool {
	return strings.TrimSpace(p.FullName) != "" &&
		strings.TrimSpace(p.CurrentTitle) != "" &&
		strings.TrimSpace(p.ProfessionalSummary) != "" &&
		strings.TrimSpace(p.ResumeURL) != ""
}

// IsEmployerProfileComplete is the gate for posting jobs.
func IsEmployerProfileComplete(p profile.EmployerProfile) bool {
	return strings.TrimSpace(p.CompanyName) != "" &&
		strings.TrimSpace(p.Industry) != "" &&
		strings.TrimSpace(p.CompanyDescription) != ""
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
