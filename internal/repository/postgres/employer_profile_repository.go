package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/profile"
)

type EmployerProfileRepository struct {
	db *sql.DB
}

func NewEmployerProfileRepository(db *sql.DB) *EmployerProfileRepository {
	return &EmployerProfileRepository{db: db}
}

const employerProfileColumns = `id, user_id, company_name, company_size, industry, company_website, company_description, company_logo_url, is_verified, is_profile_complete, created_at, updated_at`

func (r *EmployerProfileRepository) Upsert(ctx context.Context, p profile.EmployerProfile) (*profile.EmployerProfile, error) {
	now := time.Now().UTC()
	if p.ID.IsZero() {
		p.ID = common.NewUUID()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	row := r.db.QueryRowContext(ctx, `INSERT INTO employer_profiles (`+employerProfileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			company_size = EXCLUDED.company_size,
			industry = EXCLUDED.industry,
			company_website = EXCLUDED.company_website,
			company_description = EXCLUDED.company_description,
			company_logo_url = EXCLUDED.company_logo_url,
			is_profile_complete = EXCLUDED.is_profile_complete,
			updated_at = EXCLUDED.updated_at
		RETURNING `+employerProfileColumns,
		p.ID, p.UserID, p.CompanyName, p.CompanySize, p.Industry, p.CompanyWebsite, p.CompanyDescription, p.CompanyLogoURL, p.IsVerified, p.IsProfileComplete, p.CreatedAt, p.UpdatedAt)
	return scanEmployerProfile(row)
}

func (r *EmployerProfileRepository) GetByUserID(ctx context.Context, userID common.UUID) (*profile.EmployerProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employerProfileColumns+` FROM employer_profiles WHERE user_id = $1`, userID)
	return scanEmployerProfile(row)
}

func (r *EmployerProfileRepository) GetByID(ctx context.Context, id common.UUID) (*profile.EmployerProfile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+employerProfileColumns+` FROM employer_profiles WHERE id = $1`, id)
	return scanEmployerProfile(row)
}

func scanEmployerProfile(row *sql.Row) (*profile.EmployerProfile, error) {
	var p profile.EmployerProfile
	err := row.Scan(&p.ID, &p.UserID, &p.CompanyName, &p.CompanySize, &p.Industry, &p.CompanyWebsite, &p.CompanyDescription, &p.CompanyLogoURL, &p.IsVerified, &p.IsProfileComplete, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "employer profile not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load employer profile", err)
	}
	return &p, nil
}
