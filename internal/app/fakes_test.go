package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/application"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/auth"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/job"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/profile"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/user"
)

type fakeApplicantRepo struct {
	mu       sync.Mutex
	byID     map[common.UUID]*profile.ApplicantProfile
	byUserID map[common.UUID]*profile.ApplicantProfile
}

func newFakeApplicantRepo() *fakeApplicantRepo {
	return &fakeApplicantRepo{
		byID:     make(map[common.UUID]*profile.ApplicantProfile),
		byUserID: make(map[common.UUID]*profile.ApplicantProfile),
	}
}

func (r *fakeApplicantRepo) Upsert(ctx context.Context, p profile.ApplicantProfile) (*profile.ApplicantProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.byUserID[p.UserID]
	if existing == nil {
		p.ID = common.NewUUID()
		p.CreatedAt = time.Now().UTC()
	} else {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	p.UpdatedAt = time.Now().UTC()
	stored := p
	r.byID[stored.ID] = &stored
	r.byUserID[stored.UserID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeApplicantRepo) GetByUserID(ctx context.Context, userID common.UUID) (*profile.ApplicantProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byUserID[userID]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "applicant profile not found", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *fakeApplicantRepo) GetByID(ctx context.Context, id common.UUID) (*profile.ApplicantProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID[id]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "applicant profile not found", nil)
	}
	copied := *p
	return &copied, nil
}

type fakeEmployerRepo struct {
	mu       sync.Mutex
	byID     map[common.UUID]*profile.EmployerProfile
	byUserID map[common.UUID]*profile.EmployerProfile
}

func newFakeEmployerRepo() *fakeEmployerRepo {
	return &fakeEmployerRepo{
		byID:     make(map[common.UUID]*profile.EmployerProfile),
		byUserID: make(map[common.UUID]*profile.EmployerProfile),
	}
}

func (r *fakeEmployerRepo) Upsert(ctx context.Context, p profile.EmployerProfile) (*profile.EmployerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.byUserID[p.UserID]
	if existing == nil {
		p.ID = common.NewUUID()
		p.CreatedAt = time.Now().UTC()
	} else {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	p.UpdatedAt = time.Now().UTC()
	stored := p
	r.byID[stored.ID] = &stored
	r.byUserID[stored.UserID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeEmployerRepo) GetByUserID(ctx context.Context, userID common.UUID) (*profile.EmployerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byUserID[userID]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "employer profile not found", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *fakeEmployerRepo) GetByID(ctx context.Context, id common.UUID) (*profile.EmployerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.byID[id]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "employer profile not found", nil)
	}
	copied := *p
	return &copied, nil
}

type fakeJobRepo struct {
	mu       sync.Mutex
	postings map[common.UUID]*job.Posting
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{postings: make(map[common.UUID]*job.Posting)}
}

func (r *fakeJobRepo) Create(ctx context.Context, p job.Posting) (*job.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = common.NewUUID()
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	stored := p
	r.postings[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, p job.Posting) (*job.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.postings[p.ID]
	if existing == nil {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	p.CreatedAt = existing.CreatedAt
	p.ViewCount = existing.ViewCount
	p.ApplicationCount = existing.ApplicationCount
	p.UpdatedAt = time.Now().UTC()
	stored := p
	r.postings[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeJobRepo) UpdateStatus(ctx context.Context, id common.UUID, status job.Status, postedDate, closedDate *time.Time) (*job.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.postings[id]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	p.Status = status
	if postedDate != nil {
		p.PostedDate = postedDate
	}
	if closedDate != nil {
		p.ClosedDate = closedDate
	}
	p.UpdatedAt = time.Now().UTC()
	copied := *p
	return &copied, nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id common.UUID) (*job.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.postings[id]
	if p == nil {
		return nil, common.NewError(common.CodeNotFound, "job not found", nil)
	}
	copied := *p
	return &copied, nil
}

func (r *fakeJobRepo) Search(ctx context.Context, f job.SearchFilter) ([]job.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Posting
	for _, p := range r.postings {
		if p.Status != job.StatusActive {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(p.JobTitle), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeJobRepo) ListByEmployer(ctx context.Context, employerProfileID common.UUID) ([]job.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Posting
	for _, p := range r.postings {
		if p.EmployerProfileID == employerProfileID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.postings[id] == nil {
		return common.NewError(common.CodeNotFound, "job not found", nil)
	}
	delete(r.postings, id)
	return nil
}

func (r *fakeJobRepo) IncrementViewCount(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.postings[id]; p != nil {
		p.ViewCount++
	}
	return nil
}

func (r *fakeJobRepo) applicationCount(id common.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.postings[id]; p != nil {
		return p.ApplicationCount
	}
	return 0
}

func (r *fakeJobRepo) adjustApplicationCount(id common.UUID, delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.postings[id]
	if p == nil {
		return
	}
	p.ApplicationCount += delta
	if p.ApplicationCount < 0 {
		p.ApplicationCount = 0
	}
}

// fakeApplicationRepo mirrors the transactional repository: Submit,
// UpdateStatus and Withdraw also write the activity and adjust the job
// counter, as the SQL implementation does in one transaction.
type fakeApplicationRepo struct {
	mu           sync.Mutex
	jobs         *fakeJobRepo
	applications map[common.UUID]*application.Application
	activities   []application.Activity
}

func newFakeApplicationRepo(jobs *fakeJobRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{
		jobs:         jobs,
		applications: make(map[common.UUID]*application.Application),
	}
}

func (r *fakeApplicationRepo) Submit(ctx context.Context, app application.Application, activity application.Activity) (*application.Application, error) {
	r.mu.Lock()
	for _, existing := range r.applications {
		if existing.JobPostingID == app.JobPostingID && existing.ApplicantProfileID == app.ApplicantProfileID {
			r.mu.Unlock()
			return nil, common.NewError(common.CodeConflict, "you have already applied to this job", nil)
		}
	}
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	app.AppliedAt = now
	app.UpdatedAt = now
	stored := app
	r.applications[stored.ID] = &stored
	activity.ID = common.NewUUID()
	activity.ApplicationID = stored.ID
	activity.CreatedAt = now
	r.activities = append(r.activities, activity)
	r.mu.Unlock()
	r.jobs.adjustApplicationCount(stored.JobPostingID, 1)
	copied := stored
	return &copied, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status, activity application.Activity) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.applications[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	activity.ID = common.NewUUID()
	activity.ApplicationID = id
	activity.CreatedAt = time.Now().UTC()
	r.activities = append(r.activities, activity)
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) Withdraw(ctx context.Context, id common.UUID, activity application.Activity) (*application.Application, error) {
	r.mu.Lock()
	app := r.applications[id]
	if app == nil {
		r.mu.Unlock()
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	app.Status = application.StatusWithdrawn
	app.UpdatedAt = time.Now().UTC()
	activity.ID = common.NewUUID()
	activity.ApplicationID = id
	activity.CreatedAt = time.Now().UTC()
	r.activities = append(r.activities, activity)
	jobID := app.JobPostingID
	copied := *app
	r.mu.Unlock()
	r.jobs.adjustApplicationCount(jobID, -1)
	return &copied, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app := r.applications[id]
	if app == nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) FindByJobAndApplicant(ctx context.Context, jobPostingID, applicantProfileID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.applications {
		if app.JobPostingID == jobPostingID && app.ApplicantProfileID == applicantProfileID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) ListByApplicant(ctx context.Context, applicantProfileID common.UUID, f application.Filter) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Application
	for _, app := range r.applications {
		if app.ApplicantProfileID != applicantProfileID {
			continue
		}
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		out = append(out, *app)
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByJob(ctx context.Context, jobPostingID common.UUID, f application.Filter) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Application
	for _, app := range r.applications {
		if app.JobPostingID != jobPostingID {
			continue
		}
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		out = append(out, *app)
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByEmployer(ctx context.Context, employerProfileID common.UUID, f application.Filter) ([]application.Application, error) {
	jobIDs := make(map[common.UUID]bool)
	r.jobs.mu.Lock()
	for id, p := range r.jobs.postings {
		if p.EmployerProfileID == employerProfileID {
			jobIDs[id] = true
		}
	}
	r.jobs.mu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Application
	for _, app := range r.applications {
		if !jobIDs[app.JobPostingID] {
			continue
		}
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		if !f.JobPostingID.IsZero() && app.JobPostingID != f.JobPostingID {
			continue
		}
		out = append(out, *app)
	}
	return out, nil
}

func (r *fakeApplicationRepo) AddActivity(ctx context.Context, activity application.Activity) (*application.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	activity.ID = common.NewUUID()
	activity.CreatedAt = time.Now().UTC()
	r.activities = append(r.activities, activity)
	copied := activity
	return &copied, nil
}

func (r *fakeApplicationRepo) ListActivities(ctx context.Context, applicationID common.UUID) ([]application.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Activity
	for i := len(r.activities) - 1; i >= 0; i-- {
		if r.activities[i].ApplicationID == applicationID {
			out = append(out, r.activities[i])
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) CountByStatus(ctx context.Context, applicantProfileID common.UUID) (map[application.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[application.Status]int)
	for _, app := range r.applications {
		if app.ApplicantProfileID == applicantProfileID {
			counts[app.Status]++
		}
	}
	return counts, nil
}

func (r *fakeApplicationRepo) activitiesFor(applicationID common.UUID) []application.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []application.Activity
	for _, activity := range r.activities {
		if activity.ApplicationID == applicationID {
			out = append(out, activity)
		}
	}
	return out
}

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[common.UUID]*user.User
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[common.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byEmail[u.Email] != nil {
		return nil, common.NewError(common.CodeConflict, "username or email already taken", nil)
	}
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	stored := u
	stored.Roles = append([]user.Role(nil), u.Roles...)
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored
	return cloneUser(&stored), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return cloneUser(account), nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byEmail[email]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return cloneUser(account), nil
}

func (r *fakeUserRepo) ListRoles(ctx context.Context, userID common.UUID) ([]user.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[userID]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return append([]user.Role(nil), account.Roles...), nil
}

func (r *fakeUserRepo) AddRole(ctx context.Context, userID common.UUID, role user.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[userID]
	if account == nil {
		return common.NewError(common.CodeNotFound, "user not found", nil)
	}
	for _, held := range account.Roles {
		if held == role {
			return nil
		}
	}
	account.Roles = append(account.Roles, role)
	return nil
}

func cloneUser(account *user.User) *user.User {
	copied := *account
	copied.Roles = append([]user.Role(nil), account.Roles...)
	return &copied
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]auth.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]auth.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Store(ctx context.Context, token auth.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *fakeRefreshTokenRepo) Get(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.tokens[tokenHash]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "refresh token not found", nil)
	}
	copied := value
	return &copied, nil
}

func (r *fakeRefreshTokenRepo) Delete(ctx context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, tokenHash)
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteByUser(ctx context.Context, userID common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range r.tokens {
		if value.UserID == userID {
			delete(r.tokens, key)
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(ctx context.Context, beforeUnix int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range r.tokens {
		if value.ExpiresAt.Unix() <= beforeUnix {
			delete(r.tokens, key)
		}
	}
	return nil
}
