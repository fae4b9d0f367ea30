package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when a request carries no session at all.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSessionExpired is returned when the backend no longer accepts the session.
	ErrSessionExpired = errors.New("session expired")
)

// UpstreamError is a non-success answer from the backend API, relayed to
// the caller with the backend's status.
type UpstreamError struct {
	Status  int
	Message string
	Session SessionDirective
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %d: %s", e.Status, e.Message)
}
