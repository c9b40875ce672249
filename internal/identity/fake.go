package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"user-api/internal/domain"
	"user-api/pkg/errors"
)

type fakeUser struct {
	sub       string
	password  string
	permanent bool
}

// Fake is an in-memory Provider for tests. It mirrors the adapter's error
// contract: absent users come back as (nil, nil), bad credentials as an AUTH
// INVALID_CREDENTIALS error, and injected failures as COGNITO internal errors.
type Fake struct {
	mu     sync.Mutex
	users  map[string]*fakeUser
	tokens map[string]string

	// FailWith forces the named operation to return this error once set,
	// e.g. FailWith["CreateUser"] = errors.NewCognitoError(...)
	FailWith map[string]error

	// CreateCalls counts CreateUser invocations, for write assertions
	CreateCalls int
}

// NewFake creates an empty fake provider
func NewFake() *Fake {
	return &Fake{
		users:    make(map[string]*fakeUser),
		tokens:   make(map[string]string),
		FailWith: make(map[string]error),
	}
}

// Seed registers a user directly, bypassing the signup sequence
func (f *Fake) Seed(username, password, sub string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = &fakeUser{sub: sub, password: password, permanent: true}
}

// SeedToken associates an access token with a seeded username
func (f *Fake) SeedToken(token, username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = username
}

func (f *Fake) fail(op string) error {
	return f.FailWith[op]
}

// CreateUser registers the username with a temporary password
func (f *Fake) CreateUser(ctx context.Context, username, temporaryPassword string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.CreateCalls++
	if err := f.fail("CreateUser"); err != nil {
		return "", err
	}
	if _, ok := f.users[username]; ok {
		return "", errors.NewCognitoError(errors.CodeUserExists, fmt.Sprintf("username %s already exists", username))
	}

	sub := uuid.NewString()
	f.users[username] = &fakeUser{sub: sub, password: temporaryPassword}
	return sub, nil
}

// SetUserPassword sets a permanent password
func (f *Fake) SetUserPassword(ctx context.Context, username, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("SetUserPassword"); err != nil {
		return err
	}
	user, ok := f.users[username]
	if !ok {
		return errors.NewCognitoError(errors.CodeInternalError, fmt.Sprintf("user %s not found", username))
	}
	user.password = password
	user.permanent = true
	return nil
}

// AdminLoginUser checks credentials and issues an opaque token triple
func (f *Fake) AdminLoginUser(ctx context.Context, username, password string) (*domain.TokenSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("AdminLoginUser"); err != nil {
		return nil, err
	}
	user, ok := f.users[username]
	if !ok || user.password != password {
		return nil, errors.NewAuthErrorWithMessage(errors.CodeInvalidCredentials, "incorrect username or password")
	}

	tokens := &domain.TokenSet{
		IDToken:      "id-" + uuid.NewString(),
		AccessToken:  "access-" + uuid.NewString(),
		RefreshToken: "refresh-" + uuid.NewString(),
	}
	f.tokens[tokens.AccessToken] = username
	return tokens, nil
}

// GetUser returns the identity for the username, or (nil, nil) when absent
func (f *Fake) GetUser(ctx context.Context, username string) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("GetUser"); err != nil {
		return nil, err
	}
	user, ok := f.users[username]
	if !ok {
		return nil, nil
	}
	return &Identity{Username: username, Sub: user.sub, Enabled: true, Status: "CONFIRMED"}, nil
}

// GetUserByAccessToken resolves an issued token back to its identity
func (f *Fake) GetUserByAccessToken(ctx context.Context, accessToken string) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("GetUserByAccessToken"); err != nil {
		return nil, err
	}
	username, ok := f.tokens[accessToken]
	if !ok {
		return nil, errors.NewUnauthorizedError(errors.CodeInvalidCredentials)
	}
	user := f.users[username]
	return &Identity{Username: username, Sub: user.sub, Enabled: true, Status: "CONFIRMED"}, nil
}

// DeleteUser removes the identity; deleting an unknown user succeeds
func (f *Fake) DeleteUser(ctx context.Context, username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail("DeleteUser"); err != nil {
		return err
	}
	delete(f.users, username)
	return nil
}

// Has reports whether the username is registered, for test assertions
func (f *Fake) Has(username string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.users[username]
	return ok
}
