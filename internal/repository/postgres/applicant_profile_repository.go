package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/profile"
)

type ApplicantProfileRepository struct {
	db *sql.DB
}

func NewApplicantProfileRepository(db *sql.DB) *ApplicantProfileRepository {
	return &ApplicantProfileRepository{db: db}
}

const applicantProfileColumns = `id, user_id, full_name, phone, resume_url, current_title, professional_summary, current_location, experience_years, is_profile_complete, created_at, updated_at`

func (r *ApplicantProfileRepository) Upsert(ctx context.Context, p profile.ApplicantProfile) (*profile.ApplicantProfile, error) {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = common.NewUUID()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	row := r.db.QueryRowContext(ctx, `INSERT INTO applicant_profiles (`+applicantProfileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			resume_url = EXCLUDED.resume_url,
			current_title = EXCLUDED.current_title,
			professional_summary = EXCLUDED.professional_summary,
			current_location = EXCLUDED.current_location,
			experience_years = EXCLUDED.experience_years,
			is_profile_complete = EXCLUDED.is_profile_complete,
			updated_at = EXCLUDED.updated_at
		RETURNING `+applicantProfileColumns,
		p.ID, p.UserID, p.FullName, p.Phone, p.ResumeURL, p.CurrentTitle, p.ProfessionalSummary, p.CurrentLocation, p.ExperienceYears, p.IsProfileComplete, p.CreatedAt, p.UpdatedAt)
	return scanApplicantProfile(row)
}

func (r *ApplicantProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.ApplicantProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicantProfileColumns+` FROM applicant_profiles WHERE user_id = $1`, userID)
	return scanApplicantProfile(row)
}

func (r *ApplicantProfileRepository) GetByID(ctx context.Context, id common.UUID) (*profile.ApplicantProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicantProfileColumns+` FROM applicant_profiles WHERE id = $1`, id)
	return scanApplicantProfile(row)
}

func scanApplicantProfile(row *sql.Row) (*profile.ApplicantProfile, error) {
	var p profile.ApplicantProfile
	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &p.Phone, &p.ResumeURL, &p.CurrentTitle, &p.ProfessionalSummary, &p.CurrentLocation, &p.ExperienceYears, &p.IsProfileComplete, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "applicant profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load applicant profile", err)
	}
	return &p, nil
}
