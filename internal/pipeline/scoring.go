package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jmatsuda/jobscout/internal/match"
	"github.com/jmatsuda/jobscout/internal/queue"
	"github.com/jmatsuda/jobscout/internal/store"
)

// ScoreResult summarizes one scoring task's outcome.
type ScoreResult struct {
	Scored    int // jobs evaluated
	Persisted int // scores at or above the profile's threshold
	Skipped   int // jobs already scored for this user
}

// ScoreJobs evaluates the task's jobs against its user profile. It is
// idempotent under task redelivery: a (user, job) pair that already has a
// persisted score is skipped. The threshold comparison is inclusive — a
// score exactly at min_match_score is kept.
func (s *Service) ScoreJobs(ctx context.Context, task queue.ScoreTask) (ScoreResult, error) {
	var result ScoreResult

	profile, err := s.store.ProfileByID(ctx, task.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.log.Warn("scoring task for unknown profile dropped",
				zap.String("user_id", task.UserID.String()))
			return result, nil
		}
		return result, fmt.Errorf("failed to load profile: %w", err)
	}

	jobs, err := s.store.JobsByIDs(ctx, task.JobIDs)
	if err != nil {
		return result, fmt.Errorf("failed to load jobs: %w", err)
	}

	for i := range jobs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		exists, err := s.store.MatchExists(ctx, profile.UserID, jobs[i].ID)
		if err != nil {
			return result, fmt.Errorf("failed to check existing match: %w", err)
		}
		if exists {
			result.Skipped++
			continue
		}

		score := match.Score(profile, &jobs[i])
		result.Scored++
		if score.OverallScore < profile.MinMatchScore {
			continue
		}

		score.CreatedAt = time.Now().UTC()
		if err := s.store.CreateMatch(ctx, &score); err != nil {
			return result, fmt.Errorf("failed to persist match: %w", err)
		}
		result.Persisted++
	}

	s.log.Info("scoring task finished",
		zap.String("user_id", profile.UserID.String()),
		zap.String("session_id", task.SessionID.String()),
		zap.Int("scored", result.Scored),
		zap.Int("persisted", result.Persisted),
		zap.Int("skipped", result.Skipped))

	return result, nil
}

// RunWorker consumes scoring tasks until the context ends. Task failures are
// logged and the loop continues; the queue's at-least-once delivery plus
// ScoreJobs' idempotence make a redelivered task safe.
func (s *Service) RunWorker(ctx context.Context) error {
	s.log.Info("scoring worker started")
	for {
		task, err := s.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("scoring worker stopped")
				return ctx.Err()
			}
			s.log.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		if _, err := s.ScoreJobs(ctx, task); err != nil {
			s.log.Error("scoring task failed",
				zap.String("user_id", task.UserID.String()),
				zap.Error(err))
		}
	}
}
