package types

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a discovery session.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
	SessionCancelled SessionStatus = "cancelled"
)

// Terminal reports whether the status is a final state.
func (s SessionStatus) Terminal() bool {
	switch s {
	case SessionCompleted, SessionFailed, SessionCancelled:
		return true
	}
	return false
}

// CanTransition reports whether a transition to next is allowed.
// Transitions are monotonic: pending→running→{completed,failed,cancelled}.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	switch s {
	case SessionPending:
		return next == SessionRunning || next == SessionFailed || next == SessionCancelled
	case SessionRunning:
		return next.Terminal()
	}
	return false
}

// DiscoverySession represents one end-to-end invocation of the discovery
// pipeline for a set of keywords, locations and sources.
type DiscoverySession struct {
	ID           uuid.UUID     `json:"id"`
	Keywords     []string      `json:"keywords"`
	Locations    []string      `json:"locations"`
	Sources      []string      `json:"sources"`
	Status       SessionStatus `json:"status"`
	JobsFound    int           `json:"jobs_found"`
	JobsNew      int           `json:"jobs_new"`
	ErrorMessage string        `json:"error_message,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
}

// Duration returns the session runtime, or zero if it has not finished.
func (s *DiscoverySession) Duration() time.Duration {
	if s.CompletedAt == nil {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}
