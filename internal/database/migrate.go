package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate applies the schema idempotently on startup. The unique index on
// (job_posting_id, applicant_profile_id) is the storage-level guard against
// double-applies; the service's friendlier duplicate check is advisory only.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, role)
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			token_hash VARCHAR(64) PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS applicant_profiles (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			full_name VARCHAR(255) NOT NULL,
			phone VARCHAR(20) NOT NULL DEFAULT '',
			resume_url TEXT NOT NULL DEFAULT '',
			current_title VARCHAR(255) NOT NULL DEFAULT '',
			professional_summary TEXT NOT NULL DEFAULT '',
			current_location VARCHAR(255) NOT NULL DEFAULT '',
			experience_years INTEGER NOT NULL DEFAULT 0,
			is_profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS employer_profiles (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			company_name VARCHAR(255) NOT NULL,
			company_size VARCHAR(50) NOT NULL DEFAULT '',
			industry VARCHAR(100) NOT NULL DEFAULT '',
			company_website TEXT NOT NULL DEFAULT '',
			company_description TEXT NOT NULL DEFAULT '',
			company_logo_url TEXT NOT NULL DEFAULT '',
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			is_profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS job_postings (
			id UUID PRIMARY KEY,
			employer_profile_id UUID NOT NULL REFERENCES employer_profiles(id) ON DELETE CASCADE,
			job_title VARCHAR(255) NOT NULL,
			employment_type VARCHAR(20) NOT NULL,
			workplace_type VARCHAR(20) NOT NULL,
			location VARCHAR(255) NOT NULL DEFAULT '',
			department VARCHAR(100) NOT NULL DEFAULT '',
			job_summary TEXT NOT NULL DEFAULT '',
			job_description TEXT NOT NULL DEFAULT '',
			responsibilities TEXT[] NOT NULL DEFAULT '{}',
			requirements TEXT[] NOT NULL DEFAULT '{}',
			experience_level VARCHAR(50) NOT NULL DEFAULT '',
			years_of_experience INTEGER NOT NULL DEFAULT 0,
			show_salary BOOLEAN NOT NULL DEFAULT TRUE,
			salary_min NUMERIC(10,2) NOT NULL DEFAULT 0,
			salary_max NUMERIC(10,2) NOT NULL DEFAULT 0,
			currency VARCHAR(10) NOT NULL DEFAULT 'USD',
			benefits TEXT[] NOT NULL DEFAULT '{}',
			application_deadline DATE,
			screening_questions TEXT[] NOT NULL DEFAULT '{}',
			status VARCHAR(20) NOT NULL DEFAULT 'DRAFT',
			view_count INTEGER NOT NULL DEFAULT 0,
			application_count INTEGER NOT NULL DEFAULT 0,
			posted_date TIMESTAMPTZ,
			closed_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY,
			job_posting_id UUID NOT NULL REFERENCES job_postings(id) ON DELETE CASCADE,
			applicant_profile_id UUID NOT NULL REFERENCES applicant_profiles(id) ON DELETE CASCADE,
			cover_letter TEXT NOT NULL DEFAULT '',
			resume_url TEXT NOT NULL DEFAULT '',
			screening_answers TEXT[] NOT NULL DEFAULT '{}',
			status VARCHAR(30) NOT NULL DEFAULT 'SUBMITTED',
			applied_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			UNIQUE (job_posting_id, applicant_profile_id)
		)`,
		`CREATE TABLE IF NOT EXISTS application_activities (
			id UUID PRIMARY KEY,
			application_id UUID NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
			performed_by_user_id UUID,
			action TEXT NOT NULL,
			old_status VARCHAR(30),
			new_status VARCHAR(30),
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_job ON applications (job_posting_id, applied_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications (applicant_profile_id, applied_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_application ON application_activities (application_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_job_postings_employer ON job_postings (employer_profile_id)`,
		`CREATE INDEX IF NOT EXISTS idx_job_postings_status ON job_postings (status, posted_date DESC)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
