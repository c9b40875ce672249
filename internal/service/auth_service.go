package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"user-api/internal/domain"
	"user-api/internal/identity"
	"user-api/internal/repository"
	"user-api/internal/validation"
	"user-api/pkg/errors"
	"user-api/pkg/logger"
)

// AuthService orchestrates signup and login against the identity provider
// and the local user store
type AuthService struct {
	log      *logger.Logger
	provider identity.Provider
	users    repository.UserRepository
}

// NewAuthService creates a new auth service
func NewAuthService(log *logger.Logger, provider identity.Provider, users repository.UserRepository) *AuthService {
	return &AuthService{
		log:      log,
		provider: provider,
		users:    users,
	}
}

// SignUp creates a new account: existence check, provider user creation,
// permanent password set, then the local record keyed by the provider sub.
// The sequence is not transactional across the provider and the store; any
// failure after provider creation triggers a best-effort provider-side
// delete so no orphaned identity is left behind.
func (s *AuthService) SignUp(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if verr := validation.ValidateSignup(email, password); verr != nil {
		return verr
	}

	exists, err := identity.UserExists(ctx, s.provider, email)
	if err != nil {
		return err
	}
	if exists {
		return errors.NewAuthError(errors.CodeUserExists)
	}

	// The submitted password doubles as the temporary one; setting it
	// permanent right after bypasses the forced-change flow.
	sub, err := s.provider.CreateUser(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.provider.SetUserPassword(ctx, email, password); err != nil {
		s.compensate(ctx, email)
		return err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:         uuid.NewString(),
		CognitoSub: sub,
		Email:      email,
		Gender:     domain.GenderDeclinedToAnswer,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.compensate(ctx, email)
		return err
	}

	s.log.WithFields(map[string]interface{}{
		"email":       email,
		"cognito_sub": sub,
	}).Info("User signed up")
	return nil
}

// compensate deletes the provider-side identity after a failed signup step.
// Best effort only; a failure here is logged and the original error wins.
func (s *AuthService) compensate(ctx context.Context, email string) {
	if err := s.provider.DeleteUser(ctx, email); err != nil {
		s.log.WithError(err).WithField("email", email).Error("Failed to delete provider user after signup failure")
	}
}

// Login performs the direct admin password flow and returns the provider's
// token triple verbatim. No local lookups are made.
// Note: this is an administrative/test flow, not the interactive login path.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenSet, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.provider.AdminLoginUser(ctx, email, password)
}
