package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmatsuda/jobscout/internal/types"
)

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Migrate creates the schema if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			company TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			requirements TEXT NOT NULL DEFAULT '',
			benefits TEXT NOT NULL DEFAULT '',
			salary_min INTEGER,
			salary_max INTEGER,
			job_type TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			external_id TEXT NOT NULL DEFAULT '',
			external_url TEXT NOT NULL DEFAULT '',
			application_url TEXT NOT NULL DEFAULT '',
			application_email TEXT NOT NULL DEFAULT '',
			posted_date TIMESTAMPTZ,
			expires_date TIMESTAMPTZ,
			scraped_at TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS jobs_source_external_id_key
			ON jobs (source, external_id) WHERE external_id <> ''`,
		`CREATE TABLE IF NOT EXISTS discovery_sessions (
			id UUID PRIMARY KEY,
			keywords TEXT[] NOT NULL DEFAULT '{}',
			locations TEXT[] NOT NULL DEFAULT '{}',
			sources TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL,
			jobs_found INTEGER NOT NULL DEFAULT 0,
			jobs_new INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT '',
			started_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS match_scores (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			job_id UUID NOT NULL REFERENCES jobs(id),
			overall_score DOUBLE PRECISION NOT NULL,
			skills_score DOUBLE PRECISION NOT NULL,
			experience_score DOUBLE PRECISION NOT NULL,
			location_score DOUBLE PRECISION NOT NULL,
			salary_score DOUBLE PRECISION NOT NULL,
			matching_keywords TEXT[] NOT NULL DEFAULT '{}',
			missing_requirements TEXT[] NOT NULL DEFAULT '{}',
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, job_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_profiles (
			user_id UUID PRIMARY KEY,
			full_name TEXT NOT NULL DEFAULT '',
			skills TEXT[] NOT NULL DEFAULT '{}',
			keywords TEXT[] NOT NULL DEFAULT '{}',
			preferred_locations TEXT[] NOT NULL DEFAULT '{}',
			salary_min INTEGER,
			min_match_score DOUBLE PRECISION NOT NULL DEFAULT 0.5,
			auto_discover BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
	}

	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// GetOrCreateJob inserts the job unless its (source, external_id) pair is
// already persisted. The conflict path is a no-op insert followed by a read
// of the surviving row's ID, so a concurrent duplicate insert resolves to the
// same record on both sides.
func (p *Postgres) GetOrCreateJob(ctx context.Context, job *types.JobRecord) (bool, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	tag, err := p.pool.Exec(ctx,
		`INSERT INTO jobs (id, title, company, location, description, requirements, benefits,
			salary_min, salary_max, job_type, source, external_id, external_url,
			application_url, application_email, posted_date, expires_date, scraped_at, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 ON CONFLICT (source, external_id) WHERE external_id <> '' DO NOTHING`,
		job.ID, job.Title, job.Company, job.Location, job.Description, job.Requirements,
		job.Benefits, job.SalaryMin, job.SalaryMax, job.JobType, job.Source, job.ExternalID,
		job.ExternalURL, job.ApplicationURL, job.ApplicationEmail, job.PostedDate,
		job.ExpiresDate, job.ScrapedAt, job.IsActive,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert job: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var existingID uuid.UUID
	err = p.pool.QueryRow(ctx,
		`SELECT id FROM jobs WHERE source = $1 AND external_id = $2`,
		job.Source, job.ExternalID,
	).Scan(&existingID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve existing job: %w", err)
	}
	job.ID = existingID
	return false, nil
}

const jobColumns = `id, title, company, location, description, requirements, benefits,
	salary_min, salary_max, job_type, source, external_id, external_url,
	application_url, application_email, posted_date, expires_date, scraped_at, is_active`

// JobsByIDs loads the given jobs; unknown IDs are omitted.
func (p *Postgres) JobsByIDs(ctx context.Context, ids []uuid.UUID) ([]types.JobRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobRecord
	for rows.Next() {
		var job types.JobRecord
		if err := rows.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.Description,
			&job.Requirements, &job.Benefits, &job.SalaryMin, &job.SalaryMax, &job.JobType,
			&job.Source, &job.ExternalID, &job.ExternalURL, &job.ApplicationURL,
			&job.ApplicationEmail, &job.PostedDate, &job.ExpiresDate, &job.ScrapedAt,
			&job.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CreateSession persists a new discovery session.
func (p *Postgres) CreateSession(ctx context.Context, session *types.DiscoverySession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO discovery_sessions (id, keywords, locations, sources, status,
			jobs_found, jobs_new, error_message, started_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		session.ID, session.Keywords, session.Locations, session.Sources, session.Status,
		session.JobsFound, session.JobsNew, session.ErrorMessage, session.StartedAt,
		session.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// UpdateSession writes the session's current field values.
func (p *Postgres) UpdateSession(ctx context.Context, session *types.DiscoverySession) error {
	tag, err := p.pool.Exec(ctx,
		`UPDATE discovery_sessions
		 SET status = $1, jobs_found = $2, jobs_new = $3, error_message = $4, completed_at = $5
		 WHERE id = $6`,
		session.Status, session.JobsFound, session.JobsNew, session.ErrorMessage,
		session.CompletedAt, session.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSession retrieves a discovery session by ID.
func (p *Postgres) GetSession(ctx context.Context, id uuid.UUID) (*types.DiscoverySession, error) {
	var session types.DiscoverySession
	err := p.pool.QueryRow(ctx,
		`SELECT id, keywords, locations, sources, status, jobs_found, jobs_new,
			error_message, started_at, completed_at
		 FROM discovery_sessions WHERE id = $1`,
		id,
	).Scan(&session.ID, &session.Keywords, &session.Locations, &session.Sources,
		&session.Status, &session.JobsFound, &session.JobsNew, &session.ErrorMessage,
		&session.StartedAt, &session.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// MatchExists reports whether a score already exists for the (user, job) pair.
func (p *Postgres) MatchExists(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM match_scores WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check match: %w", err)
	}
	return exists, nil
}

// CreateMatch persists a match score. A concurrent duplicate for the same
// (user, job) pair is absorbed by the unique constraint as a no-op.
func (p *Postgres) CreateMatch(ctx context.Context, score *types.MatchScore) error {
	if score.ID == uuid.Nil {
		score.ID = uuid.New()
	}

	_, err := p.pool.Exec(ctx,
		`INSERT INTO match_scores (id, user_id, job_id, overall_score, skills_score,
			experience_score, location_score, salary_score, matching_keywords,
			missing_requirements, is_approved, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (user_id, job_id) DO NOTHING`,
		score.ID, score.UserID, score.JobID, score.OverallScore, score.SkillsScore,
		score.ExperienceScore, score.LocationScore, score.SalaryScore,
		score.MatchingKeywords, score.MissingRequirements, score.IsApproved, score.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// ProfileByID loads one profile by user ID.
func (p *Postgres) ProfileByID(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	var profile types.UserProfile
	err := p.pool.QueryRow(ctx,
		`SELECT user_id, full_name, skills, keywords, preferred_locations,
			salary_min, min_match_score, auto_discover
		 FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.UserID, &profile.FullName, &profile.Skills, &profile.Keywords,
		&profile.PreferredLocations, &profile.SalaryMin, &profile.MinMatchScore,
		&profile.AutoDiscover)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &profile, nil
}

// ActiveProfiles returns every profile eligible for scoring.
func (p *Postgres) ActiveProfiles(ctx context.Context) ([]types.UserProfile, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT user_id, full_name, skills, keywords, preferred_locations,
			salary_min, min_match_score, auto_discover
		 FROM user_profiles WHERE is_active`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []types.UserProfile
	for rows.Next() {
		var profile types.UserProfile
		if err := rows.Scan(&profile.UserID, &profile.FullName, &profile.Skills,
			&profile.Keywords, &profile.PreferredLocations, &profile.SalaryMin,
			&profile.MinMatchScore, &profile.AutoDiscover); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}
