package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-api/internal/domain"
	"user-api/internal/identity"
	"user-api/internal/repository"
	"user-api/internal/service"
	"user-api/pkg/logger"
)

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "sub-123",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

type authEnv struct {
	handler  http.Handler
	provider *identity.Fake
	users    *repository.Memory
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	log := logger.NewNop()
	provider := identity.NewFake()
	users := repository.NewMemory()
	userService := service.NewUserService(log, users, nil)

	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			http.Error(w, "no user in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(user.Email))
	})

	return &authEnv{
		handler:  Auth(provider, userService, log)(protected),
		provider: provider,
		users:    users,
	}
}

func (e *authEnv) seed(t *testing.T, token string) {
	t.Helper()
	e.provider.Seed("a@x.com", "Abcdef1!", "sub-123")
	e.provider.SeedToken(token, "a@x.com")

	now := time.Now().UTC()
	require.NoError(t, e.users.Create(context.Background(), &domain.User{
		ID:         "id-1",
		CognitoSub: "sub-123",
		Email:      "a@x.com",
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
}

func (e *authEnv) get(authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthAllowsValidToken(t *testing.T) {
	env := newAuthEnv(t)
	token := mintToken(t, time.Now().Add(time.Hour))
	env.seed(t, token)

	rec := env.get("Bearer " + token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@x.com", rec.Body.String())
}

func TestAuthRejectsBadHeaders(t *testing.T) {
	env := newAuthEnv(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc123"},
		{"empty bearer", "Bearer "},
		{"not a jwt", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.get(tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var decoded struct {
				Errors map[string]string `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
			assert.Equal(t, "ERR_AUTH_INVALID_CREDENTIALS", decoded.Errors["code"])
		})
	}
}

func TestAuthRejectsExpiredTokenLocally(t *testing.T) {
	env := newAuthEnv(t)
	token := mintToken(t, time.Now().Add(-time.Hour))
	env.seed(t, token)

	// The token is seeded on the provider, so a 401 here proves the local
	// expiry check rejected it before any provider round trip.
	rec := env.get("Bearer " + token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsUnknownToken(t *testing.T) {
	env := newAuthEnv(t)
	token := mintToken(t, time.Now().Add(time.Hour))
	// Not seeded on the provider

	rec := env.get("Bearer " + token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsIdentityWithoutLocalUser(t *testing.T) {
	env := newAuthEnv(t)
	token := mintToken(t, time.Now().Add(time.Hour))
	env.provider.Seed("a@x.com", "Abcdef1!", "sub-123")
	env.provider.SeedToken(token, "a@x.com")
	// No local record for sub-123

	rec := env.get("Bearer " + token)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
