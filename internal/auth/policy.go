package auth

import (
	"errors"
	"regexp"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	// ErrInvalidUsername is returned for usernames outside the allowed pattern.
	ErrInvalidUsername = errors.New("username must be 3-20 letters, digits or underscores")
	// ErrWeakPassword is returned for passwords shorter than MinPasswordLength.
	ErrWeakPassword = errors.New("password must be at least 8 characters")

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)
)

// ValidateCredentials checks a new account's username and password.
func ValidateCredentials(username, password string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}
