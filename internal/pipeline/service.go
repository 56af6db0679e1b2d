// Package pipeline provides the high-level orchestration for job discovery:
// session lifecycle, concurrent source fan-out, central dedupe and commit,
// and dispatch of scoring work.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jmatsuda/jobscout/internal/dedupe"
	"github.com/jmatsuda/jobscout/internal/queue"
	"github.com/jmatsuda/jobscout/internal/scraper"
	"github.com/jmatsuda/jobscout/internal/store"
	"github.com/jmatsuda/jobscout/internal/types"
)

var (
	// ErrSessionNotFound is returned when a session ID is unknown.
	ErrSessionNotFound = errors.New("pipeline: session not found")

	// ErrInvalidTransition is returned when a session status change would
	// violate the pending→running→terminal lifecycle.
	ErrInvalidTransition = errors.New("pipeline: invalid session transition")

	// ErrUnknownSource is returned when a discovery request names a source
	// the service has no adapter for.
	ErrUnknownSource = errors.New("pipeline: unknown source")

	// ErrJobNotFound is returned when a referenced job record does not exist.
	ErrJobNotFound = errors.New("pipeline: job not found")
)

// DiscoveryRequest is the caller's description of one discovery session.
type DiscoveryRequest struct {
	Keywords   []string `json:"keywords" validate:"required,min=1,dive,min=1"`
	Locations  []string `json:"locations" validate:"dive,min=1"`
	Sources    []string `json:"sources" validate:"required,min=1,dive,min=1"`
	MaxResults int      `json:"max_results" validate:"gte=0"`
}

// Service owns discovery sessions end to end: it creates the session record,
// fans out to source adapters, commits deduplicated results, finalizes the
// session, and enqueues scoring work.
type Service struct {
	store    store.Store
	queue    queue.Queue
	sources  map[string]scraper.Source
	validate *validator.Validate
	log      *zap.Logger

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

// NewService builds a Service over the given sources.
func NewService(st store.Store, q queue.Queue, sources []scraper.Source, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	byName := make(map[string]scraper.Source, len(sources))
	for _, src := range sources {
		byName[src.Name()] = src
	}
	return &Service{
		store:    st,
		queue:    q,
		sources:  byName,
		validate: validator.New(),
		log:      log,
		cancels:  make(map[uuid.UUID]context.CancelFunc),
	}
}

// StartDiscovery validates the request, creates a pending session and runs it
// to a terminal state. The returned session reflects the final state. Source
// failures are isolated per source; only a failure to persist results at all
// fails the session.
func (s *Service) StartDiscovery(ctx context.Context, req DiscoveryRequest) (*types.DiscoverySession, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid discovery request: %w", err)
	}
	for _, name := range req.Sources {
		if _, ok := s.sources[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
		}
	}

	session := &types.DiscoverySession{
		ID:        uuid.New(),
		Keywords:  req.Keywords,
		Locations: req.Locations,
		Sources:   req.Sources,
		Status:    types.SessionPending,
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancels[session.ID] = cancel
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		delete(s.cancels, session.ID)
		s.mu.Unlock()
	}()

	if err := s.transition(ctx, session, types.SessionRunning); err != nil {
		return session, err
	}

	records := s.runSources(runCtx, session, req)
	return s.commit(ctx, runCtx, session, records)
}

// runSources fans out one goroutine per configured source. A source's failure
// is logged and recorded but never propagated: the group always returns nil
// so sibling sources finish and the session can still complete.
func (s *Service) runSources(ctx context.Context, session *types.DiscoverySession, req DiscoveryRequest) []types.JobRecord {
	q := scraper.Query{
		Keywords:   req.Keywords,
		Locations:  req.Locations,
		MaxResults: req.MaxResults,
	}

	results := make([][]types.JobRecord, len(session.Sources))
	g, gctx := errgroup.WithContext(ctx)

	for i, name := range session.Sources {
		i := i
		src := s.sources[name]
		g.Go(func() error {
			found, err := src.Search(gctx, q)
			if err != nil {
				s.log.Warn("source failed",
					zap.String("session_id", session.ID.String()),
					zap.String("source", src.Name()),
					zap.Error(err))
			}
			// partial results before a failure or cancellation are kept
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	// flatten in configured source order so first-seen-wins is stable
	var all []types.JobRecord
	for _, batch := range results {
		all = append(all, batch...)
	}
	return all
}

// commit deduplicates and persists the gathered records, finalizes the
// session and dispatches scoring. The write path uses the caller's context,
// not the cancellable run context, so cancellation keeps partial results.
func (s *Service) commit(ctx, runCtx context.Context, session *types.DiscoverySession, records []types.JobRecord) (*types.DiscoverySession, error) {
	unique := dedupe.Dedupe(records)
	session.JobsFound = len(unique)

	var newIDs []uuid.UUID
	for i := range unique {
		created, err := s.store.GetOrCreateJob(ctx, &unique[i])
		if err != nil {
			return session, s.fail(ctx, session, fmt.Errorf("failed to persist jobs: %w", err))
		}
		if created {
			newIDs = append(newIDs, unique[i].ID)
		}
	}
	session.JobsNew = len(newIDs)

	final := types.SessionCompleted
	if runCtx.Err() != nil && ctx.Err() == nil {
		final = types.SessionCancelled
	}

	// dispatch while still running: the lifecycle is monotonic, so a session
	// can only be marked failed on a dispatch error before it goes terminal
	if final == types.SessionCompleted && len(newIDs) > 0 {
		if err := s.dispatchScoring(ctx, session.ID, newIDs); err != nil {
			return session, s.fail(ctx, session, err)
		}
	}

	if err := s.transition(ctx, session, final); err != nil {
		return session, err
	}

	s.log.Info("discovery session finished",
		zap.String("session_id", session.ID.String()),
		zap.String("status", string(final)),
		zap.Int("jobs_found", session.JobsFound),
		zap.Int("jobs_new", session.JobsNew))
	return session, nil
}

// dispatchScoring enqueues one scoring task per active profile, carrying only
// the new job IDs.
func (s *Service) dispatchScoring(ctx context.Context, sessionID uuid.UUID, jobIDs []uuid.UUID) error {
	profiles, err := s.store.ActiveProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}

	for _, profile := range profiles {
		task := queue.ScoreTask{UserID: profile.UserID, JobIDs: jobIDs, SessionID: sessionID}
		if err := s.queue.Enqueue(ctx, task); err != nil {
			return fmt.Errorf("failed to enqueue scoring for user %s: %w", profile.UserID, err)
		}
	}
	return nil
}

// CancelSession requests best-effort termination of a running session.
// In-flight source work stops at its next suspension point; results already
// gathered are committed by the session's own goroutine.
func (s *Service) CancelSession(ctx context.Context, id uuid.UUID) error {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session.Status.Terminal() {
		return fmt.Errorf("%w: session %s is already %s", ErrInvalidTransition, id, session.Status)
	}

	s.mu.Lock()
	cancel, ok := s.cancels[id]
	s.mu.Unlock()
	if ok {
		cancel()
		return nil
	}

	// no live run owns the session (e.g. a stale pending record); finalize it
	return s.transition(ctx, session, types.SessionCancelled)
}

// GetSession retrieves a session by ID.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*types.DiscoverySession, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		return nil, err
	}
	return session, nil
}

// transition moves the session to next, enforcing lifecycle legality, and
// persists the change. Terminal transitions stamp completed_at.
func (s *Service) transition(ctx context.Context, session *types.DiscoverySession, next types.SessionStatus) error {
	if !session.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, session.Status, next)
	}
	session.Status = next
	if next.Terminal() {
		now := time.Now().UTC()
		session.CompletedAt = &now
	}
	if err := s.store.UpdateSession(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// fail records an unrecoverable pipeline error on the session. The original
// error is returned so callers see the cause even when the status write also
// fails.
func (s *Service) fail(ctx context.Context, session *types.DiscoverySession, cause error) error {
	session.ErrorMessage = cause.Error()
	if err := s.transition(ctx, session, types.SessionFailed); err != nil {
		s.log.Error("failed to record session failure",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
	}
	return cause
}
