package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-api/internal/identity"
	"user-api/internal/repository"
	"user-api/internal/service"
	"user-api/pkg/logger"
)

type authTestEnv struct {
	router   chi.Router
	provider *identity.Fake
	users    *repository.Memory
}

func newAuthTestEnv() *authTestEnv {
	log := logger.NewNop()
	provider := identity.NewFake()
	users := repository.NewMemory()
	auth := service.NewAuthService(log, provider, users)
	h := NewAuthHandler(log, auth)

	r := chi.NewRouter()
	r.Post("/auth/sign-up", h.SignUp)
	r.Post("/auth/login", h.Login)

	return &authTestEnv{router: r, provider: provider, users: users}
}

func (e *authTestEnv) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var decoded struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return decoded.Errors
}

func TestSignUpEndpoint(t *testing.T) {
	env := newAuthTestEnv()

	rec := env.post(t, "/auth/sign-up", `{"email":"a@x.com","password":"Abcdef1!"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.True(t, env.provider.Has("a@x.com"))
	assert.Equal(t, 1, env.users.Len())
}

func TestSignUpEndpointDuplicate(t *testing.T) {
	env := newAuthTestEnv()
	env.provider.Seed("a@x.com", "Other1!pw", "sub-123")

	rec := env.post(t, "/auth/sign-up", `{"email":"a@x.com","password":"Abcdef1!"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "ERR_AUTH_USER_EXISTS", body["code"])
	assert.Equal(t, "User already exists.", body["message"])
	assert.NotEmpty(t, body["developer_message"])
}

func TestSignUpEndpointValidation(t *testing.T) {
	env := newAuthTestEnv()

	rec := env.post(t, "/auth/sign-up", `{"email":"bad-email","password":"weak"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var decoded struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.NotEmpty(t, decoded.Errors)

	fields := map[string]bool{}
	for _, f := range decoded.Errors {
		fields[f.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
	assert.Equal(t, 0, env.provider.CreateCalls)
}

func TestSignUpEndpointMalformedBody(t *testing.T) {
	env := newAuthTestEnv()

	rec := env.post(t, "/auth/sign-up", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.provider.CreateCalls)
}

func TestLoginEndpoint(t *testing.T) {
	env := newAuthTestEnv()
	env.provider.Seed("a@x.com", "Abcdef1!", "sub-123")

	rec := env.post(t, "/auth/login", `{"email":"a@x.com","password":"Abcdef1!"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var tokens map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens["id_token"])
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])
}

func TestLoginEndpointBadCredentials(t *testing.T) {
	env := newAuthTestEnv()
	env.provider.Seed("a@x.com", "Abcdef1!", "sub-123")

	rec := env.post(t, "/auth/login", `{"email":"a@x.com","password":"Wrong1!pw"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, "ERR_AUTH_INVALID_CREDENTIALS", body["code"])
}

func TestLoginEndpointMissingFields(t *testing.T) {
	env := newAuthTestEnv()

	rec := env.post(t, "/auth/login", `{"email":"","password":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var decoded struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.Len(t, decoded.Errors, 2)
}
