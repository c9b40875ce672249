package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"

	"user-api/pkg/errors"
)

const passwordMinLength = 8

// passwordSymbols is the accepted symbol set for the password policy
const passwordSymbols = "!@#$%^&*()-_+=<>?/"

var postalCodePattern = regexp.MustCompile(`^[0-9]{5}(?:-[0-9]{4})?$`)

// ValidatePassword checks the password against the policy and returns one
// message per failed rule
func ValidatePassword(password string) []string {
	var messages []string

	if len(password) < passwordMinLength {
		messages = append(messages, fmt.Sprintf("Password must be at least %d characters long.", passwordMinLength))
	}

	var hasDigit, hasLetter, hasUpper, hasLower, hasSymbol bool
	for _, char := range password {
		switch {
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsLetter(char):
			hasLetter = true
		}
		if unicode.IsUpper(char) {
			hasUpper = true
		}
		if unicode.IsLower(char) {
			hasLower = true
		}
		if strings.ContainsRune(passwordSymbols, char) {
			hasSymbol = true
		}
	}

	if !hasDigit {
		messages = append(messages, "Password must have numeric characters.")
	}
	if !hasLetter {
		messages = append(messages, "Password must contain at least one letter.")
	}
	if !hasUpper {
		messages = append(messages, "Password must have uppercase characters.")
	}
	if !hasLower {
		messages = append(messages, "Password must have lowercase characters.")
	}
	if !hasSymbol {
		messages = append(messages, "Password must have symbol characters.")
	}

	return messages
}

// IsValidEmail reports whether the value is a well-formed email address
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// IsValidPostalCode accepts the formats "12345" and "12345-6789"
func IsValidPostalCode(code string) bool {
	return postalCodePattern.MatchString(code)
}

// ValidateSignup validates a signup request and returns nil when it passes.
// All failures are collected so the caller sees every invalid field at once.
func ValidateSignup(email, password string) *errors.ValidationError {
	verr := errors.NewValidationError()

	if !IsValidEmail(email) {
		verr.Add("email", "Enter a valid email address.")
	}
	for _, msg := range ValidatePassword(password) {
		verr.Add("password", msg)
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
