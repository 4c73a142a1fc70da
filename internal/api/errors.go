package api

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	// ErrNetwork covers transport failures and malformed responses.
	ErrNetwork = errors.New("network error")
	// ErrUnauthorized is a 401 on an authorized request; it triggers
	// the session manager's forced-logout hook.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is a 404. For lookups (machine by tag, latest plan)
	// this is a legitimate negative result, not an exceptional failure.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is a rejected login exchange.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Error carries the status and message of a non-2xx backend response
// that does not map to one of the sentinel errors above.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}
