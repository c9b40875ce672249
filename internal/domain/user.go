package domain

import "time"

// User represents a local user record. The record is created only after the
// identity provider has issued a subject id; CognitoSub is the join key
// between the local store and the provider-side identity.
type User struct {
	ID               string     `json:"id"`
	CognitoSub       string     `json:"cognito_sub"`
	Email            string     `json:"email"`
	DOB              *time.Time `json:"dob,omitempty"`
	StreetLine1      string     `json:"street_line_1,omitempty"`
	StreetLine2      string     `json:"street_line_2,omitempty"`
	City             string     `json:"city,omitempty"`
	State            string     `json:"state,omitempty"`
	PostalCode       string     `json:"postal_code,omitempty"`
	Country          string     `json:"country,omitempty"`
	PhoneCountryCode string     `json:"phone_country_code,omitempty"`
	PhoneNumber      string     `json:"phone_number,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// UserProjection is the trimmed user view returned by GET /users/me
type UserProjection struct {
	Email      string `json:"email"`
	CognitoSub string `json:"cognito_sub"`
}

// Projection returns the trimmed view of the user
func (u *User) Projection() UserProjection {
	return UserProjection{Email: u.Email, CognitoSub: u.CognitoSub}
}

// TokenSet is the bearer credential triple returned by login. The tokens are
// issued by the identity provider and never persisted here.
type TokenSet struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
