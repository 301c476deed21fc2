// Package validation contains input validation rules for user-supplied data.
package validation

import (
	"errors"
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	minUsernameLen = 3
	maxUsernameLen = 30
	maxEmailLen    = 254
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*[a-zA-Z0-9]$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidatePassword enforces the password policy: 12 to 128 characters with at
// least one uppercase letter, one lowercase letter, one digit and one special
// character.
func ValidatePassword(password string) error {
	length := utf8.RuneCountInString(password)
	if length < minPasswordLen {
		return errors.New("password must be at least 12 characters")
	}
	if length > maxPasswordLen {
		return errors.New("password must be at most 128 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return errors.New("password must contain at least one digit")
	}
	if !hasSpecial {
		return errors.New("password must contain at least one special character")
	}
	return nil
}

// ValidateUsername enforces the username policy: 3 to 30 characters, letters,
// digits, underscores and dashes only, starting and ending with a letter or digit.
func ValidateUsername(username string) error {
	if len(username) < minUsernameLen {
		return errors.New("username must be at least 3 characters")
	}
	if len(username) > maxUsernameLen {
		return errors.New("username must be at most 30 characters")
	}
	if !usernameRe.MatchString(username) {
		return errors.New("username may only contain letters, digits, underscores and dashes, and must start and end with a letter or digit")
	}
	return nil
}

// ValidateEmail checks the email address shape and length.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return errors.New("email must be at most 254 characters")
	}
	if !emailRe.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}
