package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (*user.User, error) {
	u.ID = common.NewUUID()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO users (id, username, email, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.IsActive, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "username or email already taken", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	for _, role := range u.Roles {
		_, err = tx.ExecContext(ctx, `INSERT INTO user_roles (id, user_id, role, created_at) VALUES ($1, $2, $3, $4)`,
			common.NewUUID(), u.ID, role, now)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to grant role", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit user", err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, email, password_hash, is_active, created_at, updated_at FROM users WHERE id = $1`, id)
	return r.scanUser(ctx, row)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, email, password_hash, is_active, created_at, updated_at FROM users WHERE email = $1`, email)
	return r.scanUser(ctx, row)
}

func (r *UserRepository) scanUser(ctx context.Context, row *sql.Row) (*user.User, error) {
	var u user.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	roles, err := r.ListRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

func (r *UserRepository) ListRoles(ctx context.Context, userID common.UUID) ([]user.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list roles", err)
	}
	defer rows.Close()
	var roles []user.Role
	for rows.Next() {
		var role user.Role
		if err := rows.Scan(&role); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan role", err)
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *UserRepository) AddRole(ctx context.Context, userID common.UUID, role user.Role) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO user_roles (id, user_id, role, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, role) DO NOTHING`,
		common.NewUUID(), userID, role, time.Now().UTC())
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to grant role", err)
	}
	return nil
}
