package app

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mehdi-Zafar/job-portal-app/internal/common"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/auth"
	"github.com/Mehdi-Zafar/job-portal-app/internal/domain/user"
	"github.com/Mehdi-Zafar/job-portal-app/internal/notification"
	"github.com/Mehdi-Zafar/job-portal-app/internal/security"
)

type AuthService struct {
	users         user.Repository
	refreshTokens auth.RefreshTokenRepository
	jwtProvider   *security.JWTProvider
	events        notification.Sink
	bcryptCost    int
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(users user.Repository, refreshTokens auth.RefreshTokenRepository, jwtProvider *security.JWTProvider, events notification.Sink, bcryptCost int, accessTTL, refreshTTL time.Duration) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		jwtProvider:   jwtProvider,
		events:        events,
		bcryptCost:    bcryptCost,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     user.Role
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthResult struct {
	User   *user.User `json:"user"`
	Tokens TokenPair  `json:"tokens"`
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	role := user.Role(strings.ToUpper(strings.TrimSpace(string(input.Role))))
	created, err := s.users.Create(ctx, user.User{
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hash),
		IsActive:     true,
		Roles:        []user.Role{role},
	})
	if err != nil {
		return nil, err
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "auth.registered", UserID: &created.ID, Payload: eventPayload(ctx, map[string]string{"role": string(role)})})
	tokens, err := s.issueTokens(ctx, created)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: created, Tokens: *tokens}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
		}
		return nil, err
	}
	if !account.IsActive {
		return nil, common.NewError(common.CodeUnauthorized, "account is deactivated", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, common.NewError(common.CodeUnauthorized, "invalid email or password", nil)
	}
	_ = s.events.Notify(ctx, notification.Event{Name: "auth.logged_in", UserID: &account.ID, Payload: eventPayload(ctx, nil)})
	tokens, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: account, Tokens: *tokens}, nil
}

// Refresh rotates the refresh token: the presented token is consumed and a
// fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	stored, err := s.refreshTokens.Get(ctx, hashToken(refreshToken))
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid refresh token", nil)
		}
		return nil, err
	}
	if time.Now().UTC().After(stored.ExpiresAt) {
		_ = s.refreshTokens.Delete(ctx, stored.TokenHash)
		return nil, common.NewError(common.CodeUnauthorized, "refresh token expired", nil)
	}
	account, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, common.NewError(common.CodeUnauthorized, "account is deactivated", nil)
	}
	if err := s.refreshTokens.Delete(ctx, stored.TokenHash); err != nil {
		return nil, err
	}
	tokens, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: account, Tokens: *tokens}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokens.Delete(ctx, hashToken(refreshToken))
}

func (s *AuthService) issueTokens(ctx context.Context, account *user.User) (*TokenPair, error) {
	roles := make([]string, 0, len(account.Roles))
	for _, role := range account.Roles {
		roles = append(roles, string(role))
	}
	access, expiresAt, err := s.jwtProvider.Generate(account.ID, roles, s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to sign access token", err)
	}
	refresh, err := generateOpaqueToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate refresh token", err)
	}
	if err := s.refreshTokens.Store(ctx, auth.RefreshToken{
		TokenHash: hashToken(refresh),
		UserID:    account.ID,
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

func validateRegistration(input RegisterInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(input.Username) == "" {
		fields["username"] = "username is required"
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		fields["email"] = "a valid email is required"
	}
	if len(input.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	role := user.Role(strings.ToUpper(strings.TrimSpace(string(input.Role))))
	if role != user.RoleApplicant && role != user.RoleEmployer {
		fields["role"] = "role must be APPLICANT or EMPLOYER"
	}
	if len(fields) > 0 {
		return common.NewValidationError("invalid registration", fields)
	}
	return nil
}

func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
