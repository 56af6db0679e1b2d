// Package store persists job records, discovery sessions, match scores and
// user profiles. Postgres backs production; Memory backs tests and the
// synthetic pipeline.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jmatsuda/jobscout/internal/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence contract for the discovery pipeline. All writes
// of job, session and score records go through it so the uniqueness rules
// are enforced in one place.
type Store interface {
	// GetOrCreateJob inserts job unless a record with the same
	// (source, external_id) pair already exists. It reports whether a new
	// record was created and fills job.ID either way. A duplicate insert is
	// a benign no-op, not an error.
	GetOrCreateJob(ctx context.Context, job *types.JobRecord) (created bool, err error)

	// JobsByIDs loads the given job records; unknown IDs are silently
	// omitted from the result.
	JobsByIDs(ctx context.Context, ids []uuid.UUID) ([]types.JobRecord, error)

	CreateSession(ctx context.Context, session *types.DiscoverySession) error

	// UpdateSession persists the session's current field values. The caller
	// owns transition legality; the store only writes.
	UpdateSession(ctx context.Context, session *types.DiscoverySession) error

	GetSession(ctx context.Context, id uuid.UUID) (*types.DiscoverySession, error)

	// MatchExists reports whether a score is already persisted for the
	// (user, job) pair. Scoring consults it to stay idempotent under task
	// redelivery.
	MatchExists(ctx context.Context, userID, jobID uuid.UUID) (bool, error)

	CreateMatch(ctx context.Context, score *types.MatchScore) error

	// ActiveProfiles returns every profile eligible for scoring.
	ActiveProfiles(ctx context.Context) ([]types.UserProfile, error)

	// ProfileByID loads one profile, or ErrNotFound.
	ProfileByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
}
