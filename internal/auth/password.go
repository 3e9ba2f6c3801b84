package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 12
	MaxPasswordLength = 128
)

var ErrWeakPassword = errors.New("password does not meet security requirements")

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)

	seqNumbersRe = regexp.MustCompile(`(012|123|234|345|456|567|678|789|890)`)
	seqLettersRe = regexp.MustCompile(`(abc|bcd|cde|def|efg|fgh|ghi|hij|ijk|jkl|klm|lmn|mno|nop|opq|pqr|qrs|rst|stu|tuv|uvw|vwx|wxy|xyz)`)
)

// ValidatePassword enforces the password policy. The returned error is always
// ErrWeakPassword wrapped with the specific rule that failed.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrWeakPassword)
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be between %d and %d characters", ErrWeakPassword, MinPasswordLength, MaxPasswordLength)
	}
	if !upperRe.MatchString(password) {
		return fmt.Errorf("%w: password must contain an uppercase letter", ErrWeakPassword)
	}
	if !lowerRe.MatchString(password) {
		return fmt.Errorf("%w: password must contain a lowercase letter", ErrWeakPassword)
	}
	if !digitRe.MatchString(password) {
		return fmt.Errorf("%w: password must contain a digit", ErrWeakPassword)
	}
	if !specialRe.MatchString(password) {
		return fmt.Errorf("%w: password must contain a special character", ErrWeakPassword)
	}

	lower := strings.ToLower(password)
	if hasRepeatedRun(lower, 3) {
		return fmt.Errorf("%w: password contains repeated characters", ErrWeakPassword)
	}
	if seqNumbersRe.MatchString(lower) {
		return fmt.Errorf("%w: password contains sequential numbers", ErrWeakPassword)
	}
	if seqLettersRe.MatchString(lower) {
		return fmt.Errorf("%w: password contains sequential letters", ErrWeakPassword)
	}

	return nil
}

// hasRepeatedRun reports whether s contains n or more identical consecutive runes.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword verifies a password against its bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
