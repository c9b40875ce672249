package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"user-api/internal/domain"
	"user-api/internal/identity"
	"user-api/internal/service"
	"user-api/pkg/errors"
	"user-api/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// UserContextKey is the key for the resolved local user in context
	UserContextKey ContextKey = "user"
)

// UserFromContext returns the authenticated user set by the Auth middleware
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	return user, ok
}

// Auth authenticates requests with a provider-issued bearer access token.
// The token gets a local structural/expiry check first so obviously bad
// tokens are rejected without a provider round trip; the provider call is
// the authoritative verification.
func Auth(provider identity.Provider, users *service.UserService, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, log, errors.NewUnauthorizedError(errors.CodeInvalidCredentials))
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, log, errors.NewUnauthorizedError(errors.CodeInvalidCredentials))
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				writeAuthError(w, log, errors.NewUnauthorizedError(errors.CodeInvalidCredentials))
				return
			}

			if err := precheckToken(token); err != nil {
				log.WithError(err).Debug("Bearer token rejected before provider check")
				writeAuthError(w, log, errors.NewUnauthorizedError(errors.CodeInvalidCredentials))
				return
			}

			ctx := r.Context()
			ident, err := provider.GetUserByAccessToken(ctx, token)
			if err != nil {
				log.WithError(err).Warn("Access token validation failed")
				writeAuthError(w, log, err)
				return
			}

			user, err := users.ResolveByCognitoSub(ctx, ident.Sub)
			if err != nil {
				log.WithError(err).WithField("cognito_sub", ident.Sub).Warn("No local user for authenticated identity")
				writeAuthError(w, log, err)
				return
			}

			ctx = context.WithValue(ctx, UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// precheckToken rejects tokens that are not well-formed JWTs or are already
// expired. Signature verification is left to the provider.
func precheckToken(token string) error {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return err
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return err
	}
	if exp != nil && exp.Before(time.Now()) {
		return jwt.ErrTokenExpired
	}
	return nil
}

// writeAuthError renders middleware failures with the error's own contract
func writeAuthError(w http.ResponseWriter, log *logger.Logger, err error) {
	var appErr *errors.AppError
	if e, ok := err.(*errors.AppError); ok {
		appErr = e
	} else {
		appErr = errors.NewUnauthorizedError(errors.CodeInvalidCredentials)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	if encodeErr := json.NewEncoder(w).Encode(appErr.Response()); encodeErr != nil {
		log.WithError(encodeErr).Error("Failed to encode error response")
	}
}
