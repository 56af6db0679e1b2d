package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobTypeFromText(t *testing.T) {
	tests := []struct {
		text string
		want JobType
	}{
		{"Remote - Senior Engineer", JobTypeRemote},
		{"work from home friendly", JobTypeRemote},
		{"Hybrid schedule in Boston", JobTypeHybrid},
		{"Part-time barista", JobTypePartTime},
		{"6 month contract role", JobTypeContract},
		{"Summer internship program", JobTypeInternship},
		{"Staff Software Engineer", JobTypeFullTime},
		{"", JobTypeFullTime},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, JobTypeFromText(tt.text), "text %q", tt.text)
	}
}

func TestSessionStatus_Terminal(t *testing.T) {
	assert.False(t, SessionPending.Terminal())
	assert.False(t, SessionRunning.Terminal())
	assert.True(t, SessionCompleted.Terminal())
	assert.True(t, SessionFailed.Terminal())
	assert.True(t, SessionCancelled.Terminal())
}

func TestSessionStatus_CanTransition(t *testing.T) {
	assert.True(t, SessionPending.CanTransition(SessionRunning))
	assert.True(t, SessionPending.CanTransition(SessionCancelled))
	assert.False(t, SessionPending.CanTransition(SessionCompleted))

	assert.True(t, SessionRunning.CanTransition(SessionCompleted))
	assert.True(t, SessionRunning.CanTransition(SessionFailed))
	assert.True(t, SessionRunning.CanTransition(SessionCancelled))
	assert.False(t, SessionRunning.CanTransition(SessionPending))

	// terminal states never move
	for _, s := range []SessionStatus{SessionCompleted, SessionFailed, SessionCancelled} {
		for _, next := range []SessionStatus{SessionPending, SessionRunning, SessionCompleted} {
			assert.False(t, s.CanTransition(next), "%s -> %s", s, next)
		}
	}
}

func TestDiscoverySession_Duration(t *testing.T) {
	start := time.Now()
	session := DiscoverySession{StartedAt: start}
	assert.Zero(t, session.Duration())

	end := start.Add(3 * time.Second)
	session.CompletedAt = &end
	assert.Equal(t, 3*time.Second, session.Duration())
}
