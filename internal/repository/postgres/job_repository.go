package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/job"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

const jobColumns = `id, employer_profile_id, job_title, employment_type, workplace_type, location, department, job_summary, job_description, responsibilities, requirements, experience_level, years_of_experience, show_salary, salary_min, salary_max, currency, benefits, application_deadline, screening_questions, status, view_count, application_count, posted_date, closed_date, created_at, updated_at`

func (r *JobRepository) Create(ctx context.Context, p job.Posting) (*job.Posting, error) {
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO job_postings (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`,
		p.ID, p.EmployerProfileID, p.JobTitle, p.EmploymentType, p.WorkplaceType, p.Location, p.Department, p.JobSummary, p.JobDescription,
		pq.Array(p.Responsibilities), pq.Array(p.Requirements), p.ExperienceLevel, p.YearsOfExperience, p.ShowSalary, p.SalaryMin, p.SalaryMax,
		p.Currency, pq.Array(p.Benefits), p.ApplicationDeadline, pq.Array(p.ScreeningQuestions), p.Status, p.ViewCount, p.ApplicationCount,
		p.PostedDate, p.ClosedDate, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create job posting", err)
	}
	return &p, nil
}

func (r *JobRepository) Update(ctx context.Context, p job.Posting) (*job.Posting, error) {
	p.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE job_postings SET
			job_title = $1, employment_type = $2, workplace_type = $3, location = $4, department = $5,
			job_summary = $6, job_description = $7, responsibilities = $8, requirements = $9,
			experience_level = $10, years_of_experience = $11, show_salary = $12, salary_min = $13, salary_max = $14,
			currency = $15, benefits = $16, application_deadline = $17, screening_questions = $18, updated_at = $19
		WHERE id = $20`,
		p.JobTitle, p.EmploymentType, p.WorkplaceType, p.Location, p.Department,
		p.JobSummary, p.JobDescription, pq.Array(p.Responsibilities), pq.Array(p.Requirements),
		p.ExperienceLevel, p.YearsOfExperience, p.ShowSalary, p.SalaryMin, p.SalaryMax,
		p.Currency, pq.Array(p.Benefits), p.ApplicationDeadline, pq.Array(p.ScreeningQuestions), p.UpdatedAt,
		p.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job posting", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job posting not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, p.ID)
}

func (r *JobRepository) UpdateStatus(ctx context.Context, id common.UUID, status job.Status, postedDate, closedDate *time.Time) (*job.Posting, error) {
	sets := []string{"status = $1", "updated_at = $2"}
	args := []any{status, time.Now().UTC()}
	if postedDate != nil {
		args = append(args, *postedDate)
		sets = append(sets, fmt.Sprintf("posted_date = $%d", len(args)))
	}
	if closedDate != nil {
		args = append(args, *closedDate)
		sets = append(sets, fmt.Sprintf("closed_date = $%d", len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE job_postings SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update job status", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "job posting not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, id)
}

func (r *JobRepository) GetByID(ctx context.Context, id common.UUID) (*job.Posting, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)
	p, err := scanJob(row)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *JobRepository) Search(ctx context.Context, f job.SearchFilter) ([]job.Posting, error) {
	conditions := []string{"status = $1"}
	args := []any{job.StatusActive}
	add := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}
	if f.Query != "" {
		add("(job_title ILIKE $%[1]d OR job_description ILIKE $%[1]d)", "%"+f.Query+"%")
	}
	if f.Location != "" {
		add("location ILIKE $%d", "%"+f.Location+"%")
	}
	if f.EmploymentType != "" {
		add("employment_type = $%d", f.EmploymentType)
	}
	if f.WorkplaceType != "" {
		add("workplace_type = $%d", f.WorkplaceType)
	}
	if f.Department != "" {
		add("department = $%d", f.Department)
	}
	limit, offset := normalizeWindow(f.Limit, f.Offset)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM job_postings WHERE %s ORDER BY posted_date DESC NULLS LAST LIMIT $%d OFFSET $%d`,
		jobColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to search job postings", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

func (r *JobRepository) ListByEmployer(ctx context.Context, employerProfileID common.UUID) ([]job.Posting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM job_postings WHERE employer_profile_id = $1 ORDER BY created_at DESC`, employerProfileID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list employer job postings", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

func (r *JobRepository) Delete(ctx context.Context, id common.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete job posting", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return common.NewError(common.CodeNotFound, "job posting not found", sql.ErrNoRows)
	}
	return nil
}

func (r *JobRepository) IncrementViewCount(ctx context.Context, id common.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE job_postings SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to increment view count", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*job.Posting, error) {
	var p job.Posting
	err := row.Scan(&p.ID, &p.EmployerProfileID, &p.JobTitle, &p.EmploymentType, &p.WorkplaceType, &p.Location, &p.Department,
		&p.JobSummary, &p.JobDescription, pq.Array(&p.Responsibilities), pq.Array(&p.Requirements), &p.ExperienceLevel,
		&p.YearsOfExperience, &p.ShowSalary, &p.SalaryMin, &p.SalaryMax, &p.Currency, pq.Array(&p.Benefits),
		&p.ApplicationDeadline, pq.Array(&p.ScreeningQuestions), &p.Status, &p.ViewCount, &p.ApplicationCount,
		&p.PostedDate, &p.ClosedDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "job posting not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to scan job posting", err)
	}
	return &p, nil
}

func collectJobs(rows *sql.Rows) ([]job.Posting, error) {
	var items []job.Posting
	for rows.Next() {
		p, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read job postings", err)
	}
	return items, nil
}

func normalizeWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
