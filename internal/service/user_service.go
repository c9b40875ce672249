package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"user-api/internal/domain"
	"user-api/internal/repository"
	"user-api/internal/validation"
	"user-api/pkg/errors"
	"user-api/pkg/logger"
	"user-api/pkg/redis"
)

// UserService coordinates local user record operations
type UserService struct {
	log   *logger.Logger
	users repository.UserRepository
	cache *redis.Client
}

// NewUserService creates a new user service. The cache client may be nil,
// in which case every lookup hits the database.
func NewUserService(log *logger.Logger, users repository.UserRepository, cache *redis.Client) *UserService {
	return &UserService{
		log:   log,
		users: users,
		cache: cache,
	}
}

// ResolveByCognitoSub resolves the local user behind an authenticated
// request. A credential payload referencing an unknown subject id is a 401,
// not an internal error.
func (s *UserService) ResolveByCognitoSub(ctx context.Context, sub string) (*domain.User, error) {
	if cached := s.cachedUser(ctx, sub); cached != nil {
		return cached, nil
	}

	user, err := s.users.GetByCognitoSub(ctx, sub)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewUnauthorizedError(errors.CodeInvalidCredentials)
		}
		return nil, err
	}

	s.cacheUser(ctx, user)
	return user, nil
}

// Get retrieves a user by local id
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UserPage is one page of the user listing
type UserPage struct {
	Users  []*domain.User `json:"users"`
	Total  int64          `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// List returns a page of users
func (s *UserService) List(ctx context.Context, limit, offset int) (*UserPage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &UserPage{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

// UpdateUserInput carries the updatable profile fields. Nil pointers leave
// the current value untouched.
type UpdateUserInput struct {
	DOB              *time.Time `json:"dob"`
	StreetLine1      *string    `json:"street_line_1"`
	StreetLine2      *string    `json:"street_line_2"`
	City             *string    `json:"city"`
	State            *string    `json:"state"`
	PostalCode       *string    `json:"postal_code"`
	Country          *string    `json:"country"`
	PhoneCountryCode *string    `json:"phone_country_code"`
	PhoneNumber      *string    `json:"phone_number"`
	Gender           *string    `json:"gender"`
}

// Update applies profile changes to a user
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	if verr := validateUpdate(input); verr != nil {
		return nil, verr
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(user, input)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.invalidateUser(ctx, user.CognitoSub)
	return user, nil
}

func validateUpdate(input UpdateUserInput) *errors.ValidationError {
	verr := errors.NewValidationError()

	if input.PostalCode != nil && *input.PostalCode != "" && !validation.IsValidPostalCode(*input.PostalCode) {
		verr.Add("postal_code", "Postal code must be entered in the format: '12345' or '12345-6789'.")
	}
	if input.Gender != nil && !domain.IsValidGender(*input.Gender) {
		verr.Add("gender", "Invalid gender value.")
	}
	if input.State != nil && *input.State != "" && len(*input.State) != 2 {
		verr.Add("state", "State must be two letters.")
	}
	if input.Country != nil && *input.Country != "" && len(*input.Country) != 2 {
		verr.Add("country", "Country must be two letters.")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func applyUpdate(user *domain.User, input UpdateUserInput) {
	if input.DOB != nil {
		user.DOB = input.DOB
	}
	if input.StreetLine1 != nil {
		user.StreetLine1 = strings.TrimSpace(*input.StreetLine1)
	}
	if input.StreetLine2 != nil {
		user.StreetLine2 = strings.TrimSpace(*input.StreetLine2)
	}
	if input.City != nil {
		user.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		user.State = strings.ToUpper(strings.TrimSpace(*input.State))
	}
	if input.PostalCode != nil {
		user.PostalCode = strings.TrimSpace(*input.PostalCode)
	}
	if input.Country != nil {
		user.Country = strings.ToUpper(strings.TrimSpace(*input.Country))
	}
	if input.PhoneCountryCode != nil {
		user.PhoneCountryCode = strings.TrimSpace(*input.PhoneCountryCode)
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
}

func (s *UserService) cachedUser(ctx context.Context, sub string) *domain.User {
	if s.cache == nil {
		return nil
	}

	raw, err := s.cache.Get(ctx, s.cache.KeyBuilder.UserBySub(sub))
	if err != nil {
		if !redis.IsMiss(err) {
			s.log.WithError(err).Warn("User cache read failed")
		}
		return nil
	}

	user := &domain.User{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		s.log.WithError(err).Warn("User cache entry corrupted")
		return nil
	}
	return user
}

func (s *UserService) cacheUser(ctx context.Context, user *domain.User) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.KeyBuilder.UserBySub(user.CognitoSub), payload, redis.TTLUserBySub); err != nil {
		s.log.WithError(err).Warn("User cache write failed")
	}
}

func (s *UserService) invalidateUser(ctx context.Context, sub string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cache.KeyBuilder.UserBySub(sub)); err != nil {
		s.log.WithError(err).Warn("User cache invalidation failed")
	}
}
