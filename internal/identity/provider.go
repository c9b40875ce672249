package identity

import (
	"context"

	"user-api/internal/domain"
)

// Identity is the provider-side view of a user. Sub is the stable opaque
// identifier issued by the provider and never changes once assigned.
type Identity struct {
	Username string
	Sub      string
	Enabled  bool
	Status   string
}

// Provider defines the capability set every identity provider implementation
// must satisfy. The username is the user's email on both sides.
type Provider interface {
	// CreateUser registers the username with a temporary password and
	// returns the provider-issued subject id.
	// Fails with a COGNITO USER_EXISTS error when the username is taken.
	CreateUser(ctx context.Context, username, temporaryPassword string) (string, error)

	// SetUserPassword sets a permanent password, replacing the temporary
	// one assigned at creation.
	SetUserPassword(ctx context.Context, username, password string) error

	// AdminLoginUser performs the server-side direct password flow and
	// returns the token triple. Invalid credentials and unknown users both
	// surface as an AUTH INVALID_CREDENTIALS error.
	AdminLoginUser(ctx context.Context, username, password string) (*domain.TokenSet, error)

	// GetUser returns the provider record for the username, or (nil, nil)
	// when the user does not exist. Absence is not an error.
	GetUser(ctx context.Context, username string) (*Identity, error)

	// GetUserByAccessToken resolves the identity behind a bearer access
	// token. Rejected or expired tokens surface as a 401 AUTH error.
	GetUserByAccessToken(ctx context.Context, accessToken string) (*Identity, error)

	// DeleteUser removes the provider-side identity. Deleting an unknown
	// user is a no-op so compensation paths stay idempotent.
	DeleteUser(ctx context.Context, username string) error
}

// UserExists reports whether the username is registered with the provider
func UserExists(ctx context.Context, p Provider, username string) (bool, error) {
	user, err := p.GetUser(ctx, username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}
