package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"user-api/internal/domain"
	"user-api/pkg/errors"
)

// Memory is an in-memory UserRepository for tests. It enforces the same
// uniqueness rules as the Postgres schema so race-path tests behave like
// the real store.
type Memory struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	calls map[string]int

	// FailWith forces the named operation to return this error
	FailWith map[string]error
}

// NewMemory creates an empty in-memory repository
func NewMemory() *Memory {
	return &Memory{
		byID:     make(map[string]*domain.User),
		calls:    make(map[string]int),
		FailWith: make(map[string]error),
	}
}

// Calls returns how many times the named operation ran
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Len returns the number of stored users
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

func (m *Memory) clone(user *domain.User) *domain.User {
	copied := *user
	return &copied
}

// Create creates a new user record
func (m *Memory) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["Create"]++
	if err := m.FailWith["Create"]; err != nil {
		return err
	}

	for _, existing := range m.byID {
		if existing.Email == user.Email || existing.CognitoSub == user.CognitoSub {
			return errors.NewAuthErrorWithMessage(errors.CodeUserExists, fmt.Sprintf("duplicate user %s", user.Email))
		}
	}

	m.byID[user.ID] = m.clone(user)
	return nil
}

// GetByID retrieves a user by local id
func (m *Memory) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["GetByID"]++
	if err := m.FailWith["GetByID"]; err != nil {
		return nil, err
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return m.clone(user), nil
}

// GetByEmail retrieves a user by email
func (m *Memory) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["GetByEmail"]++
	for _, user := range m.byID {
		if user.Email == email {
			return m.clone(user), nil
		}
	}
	return nil, ErrNotFound
}

// GetByCognitoSub retrieves a user by the provider-issued subject id
func (m *Memory) GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["GetByCognitoSub"]++
	if err := m.FailWith["GetByCognitoSub"]; err != nil {
		return nil, err
	}
	for _, user := range m.byID {
		if user.CognitoSub == sub {
			return m.clone(user), nil
		}
	}
	return nil, ErrNotFound
}

// Update persists profile changes to an existing user
func (m *Memory) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["Update"]++
	if err := m.FailWith["Update"]; err != nil {
		return err
	}
	if _, ok := m.byID[user.ID]; !ok {
		return ErrNotFound
	}
	m.byID[user.ID] = m.clone(user)
	return nil
}

// List returns users ordered by creation time, newest first
func (m *Memory) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["List"]++
	users := make([]*domain.User, 0, len(m.byID))
	for _, user := range m.byID {
		users = append(users, m.clone(user))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})

	if offset >= len(users) {
		return []*domain.User{}, nil
	}
	users = users[offset:]
	if limit < len(users) {
		users = users[:limit]
	}
	return users, nil
}

// Count returns the total number of users
func (m *Memory) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["Count"]++
	return int64(len(m.byID)), nil
}
