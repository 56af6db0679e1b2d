package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmatsuda/jobscout/internal/types"
)

func TestMemory_GetOrCreateJob(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	job := types.JobRecord{Title: "Engineer", Company: "Acme", Source: "mock", ExternalID: "a"}
	created, err := m.GetOrCreateJob(ctx, &job)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, uuid.Nil, job.ID)

	dup := types.JobRecord{Title: "Engineer (repost)", Company: "Acme", Source: "mock", ExternalID: "a"}
	created, err = m.GetOrCreateJob(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, job.ID, dup.ID)
	assert.Equal(t, 1, m.JobCount())

	// same external ID under another source is a different posting
	other := types.JobRecord{Title: "Engineer", Company: "Acme", Source: "board", ExternalID: "a"}
	created, err = m.GetOrCreateJob(ctx, &other)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, m.JobCount())
}

func TestMemory_GetOrCreateJob_NoExternalID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i := 0; i < 2; i++ {
		job := types.JobRecord{Title: "Untracked", Company: "Acme", Source: "schema"}
		created, err := m.GetOrCreateJob(ctx, &job)
		require.NoError(t, err)
		assert.True(t, created)
	}
	assert.Equal(t, 2, m.JobCount())
}

func TestMemory_JobsByIDs_UnknownOmitted(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	job := types.JobRecord{Title: "Engineer", Company: "Acme", Source: "mock", ExternalID: "a"}
	_, err := m.GetOrCreateJob(ctx, &job)
	require.NoError(t, err)

	jobs, err := m.JobsByIDs(ctx, []uuid.UUID{job.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)
}

func TestMemory_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	session := types.DiscoverySession{
		Keywords:  []string{"go"},
		Sources:   []string{"mock"},
		Status:    types.SessionPending,
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, m.CreateSession(ctx, &session))
	require.NotEqual(t, uuid.Nil, session.ID)

	session.Status = types.SessionRunning
	require.NoError(t, m.UpdateSession(ctx, &session))

	got, err := m.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, types.SessionRunning, got.Status)
}

func TestMemory_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.GetSession(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	err = m.UpdateSession(ctx, &types.DiscoverySession{ID: uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Matches(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	userID, jobID := uuid.New(), uuid.New()

	exists, err := m.MatchExists(ctx, userID, jobID)
	require.NoError(t, err)
	assert.False(t, exists)

	score := types.MatchScore{UserID: userID, JobID: jobID, OverallScore: 0.8}
	require.NoError(t, m.CreateMatch(ctx, &score))

	exists, err = m.MatchExists(ctx, userID, jobID)
	require.NoError(t, err)
	assert.True(t, exists)

	// duplicate create keeps the first score
	dup := types.MatchScore{UserID: userID, JobID: jobID, OverallScore: 0.2}
	require.NoError(t, m.CreateMatch(ctx, &dup))

	scores := m.Matches(userID)
	require.Len(t, scores, 1)
	assert.InDelta(t, 0.8, scores[0].OverallScore, 1e-9)
}

func TestMemory_ActiveProfiles(t *testing.T) {
	m := NewMemory()
	m.PutProfile(types.UserProfile{UserID: uuid.New(), MinMatchScore: 0.5})
	m.PutProfile(types.UserProfile{UserID: uuid.New(), MinMatchScore: 0.7})

	profiles, err := m.ActiveProfiles(context.Background())
	require.NoError(t, err)
	assert.Len(t, profiles, 2)
}
