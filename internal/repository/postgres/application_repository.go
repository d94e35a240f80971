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
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, job_posting_id, applicant_profile_id, cover_letter, resume_url, screening_answers, status, applied_at, updated_at`

// Submit inserts the application, its audit activity and the job counter
// bump in one transaction. The unique index on (job_posting_id,
// applicant_profile_id) turns a double-apply race into a conflict error.
func (r *ApplicationRepository) Submit(ctx context.Context, app application.Application, activity application.Activity) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.JobPostingID, app.ApplicantProfileID, app.CoverLetter, app.ResumeURL, pq.Array(app.ScreeningAnswers), app.Status, app.AppliedAt, app.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "you have already applied to this job", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}

	activity.ApplicationID = app.ID
	if err := insertActivity(ctx, tx, &activity); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE job_postings SET application_count = application_count + 1 WHERE id = $1`, app.JobPostingID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to increment application count", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id common.UUID, status application.Status, activity application.Activity) (*application.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	updatedAt := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`, status, updatedAt, id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}

	activity.ApplicationID = id
	if err := insertActivity(ctx, tx, &activity); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit status update", err)
	}
	return r.GetByID(ctx, id)
}

// Withdraw flips the status and undoes the submit-time counter increment.
// The decrement clamps at zero so historical drift never produces a
// negative count.
func (r *ApplicationRepository) Withdraw(ctx context.Context, id common.UUID, activity application.Activity) (*application.Application, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	updatedAt := time.Now().UTC()
	row := tx.QueryRowContext(ctx, `UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3 RETURNING job_posting_id`,
		application.StatusWithdrawn, updatedAt, id)
	var jobPostingID common.UUID
	if err := row.Scan(&jobPostingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to withdraw application", err)
	}

	activity.ApplicationID = id
	if err := insertActivity(ctx, tx, &activity); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE job_postings SET application_count = GREATEST(application_count - 1, 0) WHERE id = $1`, jobPostingID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to decrement application count", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit withdrawal", err)
	}
	return r.GetByID(ctx, id)
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) FindByJobAndApplicant(ctx context.Context, jobPostingID, applicantProfileID common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_posting_id = $1 AND applicant_profile_id = $2`, jobPostingID, applicantProfileID)
	return scanApplication(row)
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantProfileID common.UUID, f application.Filter) ([]application.Application, error) {
	return r.list(ctx, "applicant_profile_id = $1", applicantProfileID, f)
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobPostingID common.UUID, f application.Filter) ([]application.Application, error) {
	return r.list(ctx, "job_posting_id = $1", jobPostingID, f)
}

// ListByEmployer scopes to the employer's jobs inside the query predicate;
// callers never post-filter.
func (r *ApplicationRepository) ListByEmployer(ctx context.Context, employerProfileID common.UUID, f application.Filter) ([]application.Application, error) {
	conditions := []string{`job_posting_id IN (SELECT id FROM job_postings WHERE employer_profile_id = $1)`}
	args := []any{employerProfileID}
	if f.JobPostingID != "" {
		args = append(args, f.JobPostingID)
		conditions = append(conditions, fmt.Sprintf("job_posting_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	limit, offset := normalizeWindow(f.Limit, f.Offset)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT a.%s FROM applications a WHERE %s ORDER BY applied_at DESC LIMIT $%d OFFSET $%d`,
		strings.ReplaceAll(applicationColumns, ", ", ", a."), strings.Join(conditions, " AND "), len(args)-1, len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list employer applications", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) list(ctx context.Context, ownerClause string, ownerID common.UUID, f application.Filter) ([]application.Application, error) {
	conditions := []string{ownerClause}
	args := []any{ownerID}
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	limit, offset := normalizeWindow(f.Limit, f.Offset)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE %s ORDER BY applied_at DESC LIMIT $%d OFFSET $%d`,
		applicationColumns, strings.Join(conditions, " AND "), len(args)-1, len(args))
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (r *ApplicationRepository) AddActivity(ctx context.Context, activity application.Activity) (*application.Activity, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := insertActivity(ctx, tx, &activity); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit activity", err)
	}
	return &activity, nil
}

func (r *ApplicationRepository) ListActivities(ctx context.Context, applicationID common.UUID) ([]application.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, application_id, performed_by_user_id, action, old_status, new_status, notes, created_at
		FROM application_activities WHERE application_id = $1 ORDER BY created_at DESC`, applicationID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list activities", err)
	}
	defer rows.Close()
	var items []application.Activity
	for rows.Next() {
		var a application.Activity
		var performedBy sql.NullString
		var oldStatus, newStatus sql.NullString
		if err := rows.Scan(&a.ID, &a.ApplicationID, &performedBy, &a.Action, &oldStatus, &newStatus, &a.Notes, &a.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan activity", err)
		}
		if performedBy.Valid {
			id := common.UUID(performedBy.String)
			a.PerformedBy = &id
		}
		if oldStatus.Valid {
			s := application.Status(oldStatus.String)
			a.OldStatus = &s
		}
		if newStatus.Valid {
			s := application.Status(newStatus.String)
			a.NewStatus = &s
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read activities", err)
	}
	return items, nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context, applicantProfileID common.UUID) (map[application.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM applications WHERE applicant_profile_id = $1 GROUP BY status`, applicantProfileID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count applications", err)
	}
	defer rows.Close()
	counts := make(map[application.Status]int)
	for rows.Next() {
		var status application.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan count", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read counts", err)
	}
	return counts, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertActivity(ctx context.Context, tx execer, activity *application.Activity) error {
	activity.ID = common.NewUUID()
	activity.CreatedAt = time.Now().UTC()
	var performedBy any
	if activity.PerformedBy != nil {
		performedBy = activity.PerformedBy.String()
	}
	var oldStatus, newStatus any
	if activity.OldStatus != nil {
		oldStatus = string(*activity.OldStatus)
	}
	if activity.NewStatus != nil {
		newStatus = string(*activity.NewStatus)
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO application_activities (id, application_id, performed_by_user_id, action, old_status, new_status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		activity.ID, activity.ApplicationID, performedBy, activity.Action, oldStatus, newStatus, activity.Notes, activity.CreatedAt)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to record activity", err)
	}
	return nil
}

func scanApplication(row *sql.Row) (*application.Application, error) {
	var app application.Application
	err := row.Scan(&app.ID, &app.JobPostingID, &app.ApplicantProfileID, &app.CoverLetter, &app.ResumeURL, pq.Array(&app.ScreeningAnswers), &app.Status, &app.AppliedAt, &app.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return &app, nil
}

func collectApplications(rows *sql.Rows) ([]application.Application, error) {
	var items []application.Application
	for rows.Next() {
		var app application.Application
		if err := rows.Scan(&app.ID, &app.JobPostingID, &app.ApplicantProfileID, &app.CoverLetter, &app.ResumeURL, pq.Array(&app.ScreeningAnswers), &app.Status, &app.AppliedAt, &app.UpdatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, app)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to read applications", err)
	}
	return items, nil
}
