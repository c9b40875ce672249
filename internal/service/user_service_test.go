package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-api/internal/domain"
	"user-api/internal/repository"
	"user-api/pkg/errors"
	"user-api/pkg/logger"
	"user-api/pkg/redis"
)

func seedUser(t *testing.T, users *repository.Memory, email, sub string) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	user := &domain.User{
		ID:         "id-" + sub,
		CognitoSub: sub,
		Email:      email,
		Gender:     domain.GenderDeclinedToAnswer,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func newCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return redis.NewClientFromRedis(rdb, "test")
}

func TestResolveByCognitoSub(t *testing.T) {
	users := repository.NewMemory()
	svc := NewUserService(logger.NewNop(), users, nil)
	ctx := context.Background()

	seedUser(t, users, "a@x.com", "sub-123")

	user, err := svc.ResolveByCognitoSub(ctx, "sub-123")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
}

func TestResolveByCognitoSubUnknownIsUnauthorized(t *testing.T) {
	users := repository.NewMemory()
	svc := NewUserService(logger.NewNop(), users, nil)

	_, err := svc.ResolveByCognitoSub(context.Background(), "sub-unknown")

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.StatusCode)
	assert.Equal(t, "ERR_AUTH_INVALID_CREDENTIALS", appErr.FullCode())
}

func TestResolveByCognitoSubUsesCache(t *testing.T) {
	users := repository.NewMemory()
	svc := NewUserService(logger.NewNop(), users, newCache(t))
	ctx := context.Background()

	seedUser(t, users, "a@x.com", "sub-123")

	_, err := svc.ResolveByCognitoSub(ctx, "sub-123")
	require.NoError(t, err)
	firstLookups := users.Calls("GetByCognitoSub")

	user, err := svc.ResolveByCognitoSub(ctx, "sub-123")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, firstLookups, users.Calls("GetByCognitoSub"), "second resolve should hit the cache")
}

func TestUpdateInvalidatesCache(t *testing.T) {
	users := repository.NewMemory()
	svc := NewUserService(logger.NewNop(), users, newCache(t))
	ctx := context.Background()

	user := seedUser(t, users, "a@x.com", "sub-123")

	_, err := svc.ResolveByCognitoSub(ctx, "sub-123")
	require.NoError(t, err)

	city := "Boston"
	_, err = svc.Update(ctx, user.ID, UpdateUserInput{City: &city})
	require.NoError(t, err)

	resolved, err := svc.ResolveByCognitoSub(ctx, "sub-123")
	require.NoError(t, err)
	assert.Equal(t, "Boston", resolved.City)
}

func TestUpdateValidation(t *testing.T) {
	users := repository.NewMemory()
	svc := NewUserService(logger.NewNop(), users, nil)
	ctx := context.Background()

	user := seedUser(t, users, "a@x.com", "sub-123")

	badPostal := "1234"
	badGender := "unknownValue"
	badState := "Massachusetts"

	_, err := svc.Update(ctx, user.ID, UpdateUserInput{
		PostalCode: &badPostal,
		Gender:     &badGender,
		State:      &badState,
	})

	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	// Nothing persisted when validation fails
	assert.Equal(t, 0, users.Calls("Update"))
}

func TestUpdateAppliesFields(t *testing.T) {
	users := repository.NewMemory()
	svc := NewUserService(logger.NewNop(), users, nil)
	ctx := context.Background()

	user := seedUser(t, users, "a@x.com", "sub-123")

	postal := "12345-6789"
	state := "ma"
	gender := domain.GenderNonBinary

	updated, err := svc.Update(ctx, user.ID, UpdateUserInput{
		PostalCode: &postal,
		State:      &state,
		Gender:     &gender,
	})
	require.NoError(t, err)
	assert.Equal(t, "12345-6789", updated.PostalCode)
	assert.Equal(t, "MA", updated.State)
	assert.Equal(t, domain.GenderNonBinary, updated.Gender)
	// Untouched fields survive
	assert.Equal(t, "a@x.com", updated.Email)
}

func TestListPagination(t *testing.T) {
	users := repository.NewMemory()
	svc := NewUserService(logger.NewNop(), users, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedUser(t, users, string(rune('a'+i))+"@x.com", "sub-"+string(rune('a'+i)))
	}

	page, err := svc.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 2, page.Limit)

	// Limit is clamped
	page, err = svc.List(ctx, 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)

	page, err = svc.List(ctx, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 0, page.Offset)
}
