package app

import (
	"context"
	"strings"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/user"
	"github.com/Mehdi-Zafar/job-portal-app/internal/notification"
)

type UserService struct {
	users  user.Repository
	events notification.Sink
}

func NewUserService(users user.Repository, events notification.Sink) *UserService {
	return &UserService{users: users, events: events}
}

func (s *UserService) Get(ctx context.Context, userID common.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

// AddRole grants an additional role to the user. Granting an already-held
// role is a no-op; ADMIN is never grantable here.
func (s *UserService) AddRole(ctx context.Context, userID common.UUID, role user.Role) error {
	normalized := user.Role(strings.ToUpper(strings.TrimSpace(string(role))))
	if normalized != user.RoleApplicant && normalized != user.RoleEmployer {
		return common.NewValidationError("invalid role", map[string]string{"role": "role must be APPLICANT or EMPLOYER"})
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	roles, err := s.users.ListRoles(ctx, userID)
	if err != nil {
		return err
	}
	for _, existing := range roles {
		if existing == normalized {
			return nil
		}
	}
	if err := s.users.AddRole(ctx, userID, normalized); err != nil {
		return err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "user.role_added", UserID: &userID, Payload: eventPayload(ctx, map[string]string{"role": string(normalized)})})
	return nil
}
