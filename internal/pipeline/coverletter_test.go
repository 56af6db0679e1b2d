package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmatsuda/jobscout/internal/types"
)

func TestPrepareCoverLetterInput(t *testing.T) {
	svc, st, _ := newTestService(t)

	profile := types.UserProfile{
		UserID:   uuid.New(),
		FullName: "Jordan Doe",
		Skills:   []string{"go", "postgres"},
	}
	st.PutProfile(profile)

	rec := types.JobRecord{
		Title:     "Backend Engineer",
		Company:   "Acme",
		Source:    "mock",
		ScrapedAt: time.Now().UTC(),
	}
	_, err := st.GetOrCreateJob(context.Background(), &rec)
	require.NoError(t, err)

	input, err := svc.PrepareCoverLetterInput(context.Background(), profile.UserID, rec.ID, "", "")
	require.NoError(t, err)

	assert.Equal(t, "Backend Engineer", input.Job.Title)
	assert.Equal(t, "Jordan Doe", input.FullName)
	assert.Equal(t, []string{"go", "postgres"}, input.Skills)
	assert.Equal(t, DefaultTone, input.Tone)
	assert.Equal(t, DefaultLength, input.Length)

	input, err = svc.PrepareCoverLetterInput(context.Background(), profile.UserID, rec.ID, "casual", "short")
	require.NoError(t, err)
	assert.Equal(t, "casual", input.Tone)
	assert.Equal(t, "short", input.Length)
}

func TestPrepareCoverLetterInput_UnknownJob(t *testing.T) {
	svc, st, _ := newTestService(t)
	st.PutProfile(types.UserProfile{UserID: uuid.New()})

	profiles, err := st.ActiveProfiles(context.Background())
	require.NoError(t, err)

	_, err = svc.PrepareCoverLetterInput(context.Background(), profiles[0].UserID, uuid.New(), "", "")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
