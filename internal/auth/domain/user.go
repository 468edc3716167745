package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotSignedIn  = errors.New("not signed in")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidEmail = errors.New("invalid email address")
)

// User is the single signed-in actor. It is persisted as-is and is null when signed out.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// NormalizeEmail trims and lower-cases an address and rejects input without an "@".
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// LocalPart returns the part of an address before the first "@".
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
