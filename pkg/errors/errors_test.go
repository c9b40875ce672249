package errors

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorFullCode(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "auth user exists",
			err:      NewAuthError(CodeUserExists),
			expected: "ERR_AUTH_USER_EXISTS",
		},
		{
			name:     "auth invalid credentials",
			err:      NewAuthError(CodeInvalidCredentials),
			expected: "ERR_AUTH_INVALID_CREDENTIALS",
		},
		{
			name:     "cognito internal error",
			err:      NewCognitoError(CodeInternalError, "boom"),
			expected: "ERR_COGNITO_INTERNAL_ERROR",
		},
		{
			name:     "cognito invalid password",
			err:      NewCognitoError(CodeInvalidPassword, ""),
			expected: "ERR_COGNITO_INVALID_PASSWORD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.FullCode())
		})
	}
}

func TestAppErrorDefaultMessages(t *testing.T) {
	err := NewAuthError(CodeUserExists)
	assert.Equal(t, "User already exists.", err.UserMessage)
	assert.Equal(t, "Auth API is not working properly.", err.DeveloperMessage)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)

	err = NewCognitoError(CodeInternalError, "connection refused")
	assert.Equal(t, "Cognito internal error.", err.UserMessage)
	assert.Equal(t, "connection refused", err.DeveloperMessage)

	// Unknown codes fall back to the generic user message
	err = NewAuthError("NO_SUCH_CODE")
	assert.Equal(t, "Something went wrong. Please try again.", err.UserMessage)
}

func TestUnauthorizedErrorStatus(t *testing.T) {
	err := NewUnauthorizedError(CodeInvalidCredentials)
	assert.Equal(t, http.StatusUnauthorized, err.StatusCode)
	assert.Equal(t, "Invalid credentials.", err.UserMessage)
	assert.Equal(t, AppAuth, err.AppName)
}

func TestAppErrorResponseShape(t *testing.T) {
	err := NewAuthError(CodeUserExists)

	payload, marshalErr := json.Marshal(err.Response())
	require.NoError(t, marshalErr)

	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal(payload, &decoded))

	body, ok := decoded["errors"]
	require.True(t, ok, "response must nest under errors")
	assert.Equal(t, "ERR_AUTH_USER_EXISTS", body["code"])
	assert.Equal(t, "User already exists.", body["message"])
	assert.NotEmpty(t, body["developer_message"])
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError().
		Add("email", "Enter a valid email address.").
		Add("password", "Password must have numeric characters.")

	require.True(t, verr.HasErrors())
	assert.Len(t, verr.Response().Errors, 2)
	assert.Equal(t, "email", verr.Response().Errors[0].Field)
	assert.Contains(t, verr.Error(), "password")

	empty := NewValidationError()
	assert.False(t, empty.HasErrors())
}
