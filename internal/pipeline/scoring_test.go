package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmatsuda/jobscout/internal/queue"
	"github.com/jmatsuda/jobscout/internal/store"
	"github.com/jmatsuda/jobscout/internal/types"
)

// seedScoringFixture stores one job whose score for the profile works out to
// exactly 0.25: skills 0.5 of weight 0.4, plus the neutral experience 0.5 of
// weight 0.1, everything else zero.
func seedScoringFixture(t *testing.T, st *store.Memory, minMatchScore float64) (types.UserProfile, uuid.UUID) {
	t.Helper()

	profile := types.UserProfile{
		UserID:        uuid.New(),
		Skills:        []string{"python", "sql"},
		MinMatchScore: minMatchScore,
	}
	st.PutProfile(profile)

	rec := types.JobRecord{
		Title:       "Engineer",
		Company:     "Acme",
		Description: "We use python every day.",
		Source:      "mock",
		ExternalID:  "score-1",
		ScrapedAt:   time.Now().UTC(),
	}
	_, err := st.GetOrCreateJob(context.Background(), &rec)
	require.NoError(t, err)

	return profile, rec.ID
}

func TestScoreJobs_ThresholdInclusive(t *testing.T) {
	svc, st, _ := newTestService(t)
	profile, jobID := seedScoringFixture(t, st, 0.25)

	result, err := svc.ScoreJobs(context.Background(), queue.ScoreTask{
		UserID: profile.UserID,
		JobIDs: []uuid.UUID{jobID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scored)
	assert.Equal(t, 1, result.Persisted, "a score exactly at the threshold is kept")

	scores := st.Matches(profile.UserID)
	require.Len(t, scores, 1)
	assert.InDelta(t, 0.25, scores[0].OverallScore, 1e-9)
}

func TestScoreJobs_BelowThresholdDiscarded(t *testing.T) {
	svc, st, _ := newTestService(t)
	profile, jobID := seedScoringFixture(t, st, 0.26)

	result, err := svc.ScoreJobs(context.Background(), queue.ScoreTask{
		UserID: profile.UserID,
		JobIDs: []uuid.UUID{jobID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scored)
	assert.Equal(t, 0, result.Persisted)
	assert.Empty(t, st.Matches(profile.UserID))
}

func TestScoreJobs_IdempotentUnderRedelivery(t *testing.T) {
	svc, st, _ := newTestService(t)
	profile, jobID := seedScoringFixture(t, st, 0.2)

	task := queue.ScoreTask{UserID: profile.UserID, JobIDs: []uuid.UUID{jobID}}

	first, err := svc.ScoreJobs(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Persisted)

	second, err := svc.ScoreJobs(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Scored)
	assert.Equal(t, 1, second.Skipped)
	assert.Len(t, st.Matches(profile.UserID), 1)
}

func TestScoreJobs_UnknownProfileDropped(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.ScoreJobs(context.Background(), queue.ScoreTask{
		UserID: uuid.New(),
		JobIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	assert.Zero(t, result.Scored)
}

func TestScoreJobs_UnknownJobsOmitted(t *testing.T) {
	svc, st, _ := newTestService(t)
	profile, jobID := seedScoringFixture(t, st, 0.2)

	result, err := svc.ScoreJobs(context.Background(), queue.ScoreTask{
		UserID: profile.UserID,
		JobIDs: []uuid.UUID{jobID, uuid.New()},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Scored)
}

func TestRunWorker_ProcessesEnqueuedTask(t *testing.T) {
	svc, st, q := newTestService(t)
	profile, jobID := seedScoringFixture(t, st, 0.2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.RunWorker(ctx) }()

	require.NoError(t, q.Enqueue(ctx, queue.ScoreTask{
		UserID: profile.UserID,
		JobIDs: []uuid.UUID{jobID},
	}))

	require.Eventually(t, func() bool {
		return len(st.Matches(profile.UserID)) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
