package user

import (
	"time"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
)

type Role string

const (
	RoleApplicant Role = "APPLICANT"
	RoleEmployer  Role = "EMPLOYER"
	RoleAdmin     Role = "ADMIN"
)

type User struct {
	ID           common.UUID `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	IsActive     bool        `json:"is_active"`
	Roles        []Role      `json:"roles"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
