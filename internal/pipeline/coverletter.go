package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmatsuda/jobscout/internal/types"
)

// Cover letter preference defaults.
const (
	DefaultTone   = "professional"
	DefaultLength = "medium"
)

// CoverLetterInput is the payload handed to the external cover-letter
// generator for one (user, job) pair. Generation itself happens outside this
// core; the pipeline only assembles the input.
type CoverLetterInput struct {
	Job      types.JobRecord `json:"job"`
	FullName string          `json:"full_name"`
	Skills   []string        `json:"skills"`
	Tone     string          `json:"tone"`
	Length   string          `json:"length"`
}

// PrepareCoverLetterInput assembles the generator payload for a matched job.
// Empty tone or length fall back to the defaults.
func (s *Service) PrepareCoverLetterInput(ctx context.Context, userID, jobID uuid.UUID, tone, length string) (*CoverLetterInput, error) {
	profile, err := s.store.ProfileByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	jobs, err := s.store.JobsByIDs(ctx, []uuid.UUID{jobID})
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("job %s: %w", jobID, ErrJobNotFound)
	}

	if tone == "" {
		tone = DefaultTone
	}
	if length == "" {
		length = DefaultLength
	}

	return &CoverLetterInput{
		Job:      jobs[0],
		FullName: profile.FullName,
		Skills:   profile.Skills,
		Tone:     tone,
		Length:   length,
	}, nil
}
