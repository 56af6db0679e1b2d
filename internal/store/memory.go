package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jmatsuda/jobscout/internal/types"
)

// Memory is an in-memory Store for tests and network-free runs. Safe for
// concurrent use.
type Memory struct {
	mu       sync.RWMutex
	jobs     map[uuid.UUID]types.JobRecord
	jobKeys  map[string]uuid.UUID
	sessions map[uuid.UUID]types.DiscoverySession
	matches  map[string]types.MatchScore
	profiles map[uuid.UUID]types.UserProfile
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		jobs:     make(map[uuid.UUID]types.JobRecord),
		jobKeys:  make(map[string]uuid.UUID),
		sessions: make(map[uuid.UUID]types.DiscoverySession),
		matches:  make(map[string]types.MatchScore),
		profiles: make(map[uuid.UUID]types.UserProfile),
	}
}

func jobKey(source, externalID string) string {
	return strings.ToLower(source) + "|" + strings.ToLower(externalID)
}

func matchKey(userID, jobID uuid.UUID) string {
	return userID.String() + "|" + jobID.String()
}

// GetOrCreateJob inserts the job unless its (source, external_id) pair is
// already stored. Records without an external ID are always inserted; the
// signature-based dedupe happens upstream.
func (m *Memory) GetOrCreateJob(_ context.Context, job *types.JobRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job.ExternalID != "" {
		if existingID, ok := m.jobKeys[jobKey(job.Source, job.ExternalID)]; ok {
			job.ID = existingID
			return false, nil
		}
	}

	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	m.jobs[job.ID] = *job
	if job.ExternalID != "" {
		m.jobKeys[jobKey(job.Source, job.ExternalID)] = job.ID
	}
	return true, nil
}

func (m *Memory) JobsByIDs(_ context.Context, ids []uuid.UUID) ([]types.JobRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var jobs []types.JobRecord
	for _, id := range ids {
		if job, ok := m.jobs[id]; ok {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func (m *Memory) CreateSession(_ context.Context, session *types.DiscoverySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *Memory) UpdateSession(_ context.Context, session *types.DiscoverySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[session.ID]; !ok {
		return ErrNotFound
	}
	m.sessions[session.ID] = *session
	return nil
}

func (m *Memory) GetSession(_ context.Context, id uuid.UUID) (*types.DiscoverySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (m *Memory) MatchExists(_ context.Context, userID, jobID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.matches[matchKey(userID, jobID)]
	return ok, nil
}

func (m *Memory) CreateMatch(_ context.Context, score *types.MatchScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := matchKey(score.UserID, score.JobID)
	if _, ok := m.matches[key]; ok {
		return nil
	}
	if score.ID == uuid.Nil {
		score.ID = uuid.New()
	}
	m.matches[key] = *score
	return nil
}

func (m *Memory) ActiveProfiles(_ context.Context) ([]types.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]types.UserProfile, 0, len(m.profiles))
	for _, profile := range m.profiles {
		profiles = append(profiles, profile)
	}
	return profiles, nil
}

func (m *Memory) ProfileByID(_ context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

// PutProfile registers a profile so it participates in scoring.
func (m *Memory) PutProfile(profile types.UserProfile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.UserID] = profile
}

// Matches returns all persisted scores for a user, for test inspection.
func (m *Memory) Matches(userID uuid.UUID) []types.MatchScore {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []types.MatchScore
	for _, score := range m.matches {
		if score.UserID == userID {
			out = append(out, score)
		}
	}
	return out
}

// JobCount reports the number of stored jobs.
func (m *Memory) JobCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}
