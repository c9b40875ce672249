package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// Application namespaces for error codes
const (
	AppAuth    = "AUTH"
	AppCognito = "COGNITO"
)

// Error codes within the AUTH namespace
const (
	CodeSignUp             = "SIGN_UP"
	CodeLogin              = "LOGIN"
	CodeUserExists         = "USER_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// Error codes within the COGNITO namespace
const (
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidPassword = "INVALID_PASSWORD"
)

const defaultUserMessage = "Something went wrong. Please try again."

// authMessages maps AUTH error codes to user-facing messages
var authMessages = map[string]string{
	CodeSignUp:             "Unable to sign up new account.",
	CodeLogin:              "Unable to login.",
	CodeInvalidCredentials: "Invalid credentials.",
	CodeUserExists:         "User already exists.",
}

// cognitoMessages maps COGNITO error codes to user-facing messages
var cognitoMessages = map[string]string{
	CodeInternalError:   "Cognito internal error.",
	CodeUserExists:      "User already exists.",
	CodeInvalidPassword: "Invalid password.",
}

var messageTables = map[string]map[string]string{
	AppAuth:    authMessages,
	AppCognito: cognitoMessages,
}

// AppError represents a structured application error with an HTTP status
// and separate user/developer messages
type AppError struct {
	AppName          string
	Code             string
	StatusCode       int
	UserMessage      string
	DeveloperMessage string
}

// Error implements the error interface
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.FullCode(), e.DeveloperMessage)
}

// FullCode returns the composite error code, e.g. "ERR_AUTH_USER_EXISTS"
func (e *AppError) FullCode() string {
	if e.Code == "" {
		return e.AppName
	}
	return fmt.Sprintf("ERR_%s_%s", e.AppName, e.Code)
}

// ErrorBody is the inner object of the error response contract
type ErrorBody struct {
	DeveloperMessage string `json:"developer_message"`
	Message          string `json:"message"`
	Code             string `json:"code"`
}

// ErrorResponse is the JSON body returned for every AppError
type ErrorResponse struct {
	Errors ErrorBody `json:"errors"`
}

// Response serializes the error to the response body contract
func (e *AppError) Response() ErrorResponse {
	return ErrorResponse{
		Errors: ErrorBody{
			DeveloperMessage: e.DeveloperMessage,
			Message:          e.UserMessage,
			Code:             e.FullCode(),
		},
	}
}

// newAppError resolves default messages from the per-namespace tables
func newAppError(appName, code string, statusCode int, developerMessage string) *AppError {
	userMessage := defaultUserMessage
	if table, ok := messageTables[appName]; ok {
		if msg, ok := table[code]; ok {
			userMessage = msg
		}
	}

	if developerMessage == "" {
		name := strings.ReplaceAll(appName, "_", " ")
		developerMessage = fmt.Sprintf("%s%s API is not working properly.", strings.ToUpper(name[:1]), strings.ToLower(name[1:]))
	}

	return &AppError{
		AppName:          appName,
		Code:             code,
		StatusCode:       statusCode,
		UserMessage:      userMessage,
		DeveloperMessage: developerMessage,
	}
}

// NewAuthError creates a signup/login business-rule error (HTTP 400)
func NewAuthError(code string) *AppError {
	return newAppError(AppAuth, code, http.StatusBadRequest, "")
}

// NewAuthErrorWithMessage creates an AUTH error carrying a developer message
func NewAuthErrorWithMessage(code string, developerMessage string) *AppError {
	return newAppError(AppAuth, code, http.StatusBadRequest, developerMessage)
}

// NewUnauthorizedError creates an AUTH error for requests whose credentials
// cannot be resolved to a known identity (HTTP 401)
func NewUnauthorizedError(code string) *AppError {
	return newAppError(AppAuth, code, http.StatusUnauthorized, "")
}

// NewCognitoError creates a provider error carrying the raw provider failure
// as the developer message (HTTP 400)
func NewCognitoError(code string, developerMessage string) *AppError {
	return newAppError(AppCognito, code, http.StatusBadRequest, developerMessage)
}

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field validation failures (HTTP 400)
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field failure and returns the error for chaining
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

// HasErrors reports whether any field failed validation
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// ValidationResponse is the JSON body returned for validation failures
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

// Response serializes the aggregated field errors
func (e *ValidationError) Response() ValidationResponse {
	return ValidationResponse{Errors: e.Fields}
}

// NewValidationError creates an empty validation error to be filled with Add
func NewValidationError() *ValidationError {
	return &ValidationError{}
}
