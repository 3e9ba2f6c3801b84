package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrValidation wraps all profile field validation failures.
var ErrValidation = errors.New("validation failed")

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	fullNameRe = regexp.MustCompile(`^[a-zA-Z\s\-'.]+$`)
)

// ValidateEmail checks basic email format.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	return nil
}

// ValidateUsername checks username length and character set.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	if len(username) < 3 || len(username) > 50 {
		return fmt.Errorf("%w: username must be between 3 and 50 characters", ErrValidation)
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: username can only contain letters, numbers, hyphens, and underscores", ErrValidation)
	}
	return nil
}

// ValidateFullName checks an optional display name.
func ValidateFullName(fullName string) error {
	trimmed := strings.TrimSpace(fullName)
	if len(trimmed) < 2 || len(trimmed) > 100 {
		return fmt.Errorf("%w: full name must be between 2 and 100 characters", ErrValidation)
	}
	if !fullNameRe.MatchString(trimmed) {
		return fmt.Errorf("%w: full name contains invalid characters", ErrValidation)
	}
	return nil
}
