// Package scraper defines the source contract and the three source variants:
// a deterministic synthetic generator, a structured-data extractor built on
// the crawler and JSON-LD normalizer, and a browser-driven board extractor.
package scraper

import (
	"context"
	"fmt"

	"github.com/jmatsuda/jobscout/internal/types"
)

// Query carries the caller's search criteria. Empty slices mean "no
// constraint" for that dimension.
type Query struct {
	Keywords   []string
	Locations  []string
	JobTypes   []types.JobType
	SalaryMin  *int
	MaxResults int
}

// Source is implemented by each job source variant. Search returns whatever
// could be gathered: per-item network or parse failures are logged and
// skipped, never surfaced as an error. An error return means the source could
// not be set up at all.
type Source interface {
	Name() string
	Search(ctx context.Context, q Query) ([]types.JobRecord, error)
}

// DetailFetcher is implemented by sources whose listing pages yield partial
// records that can be enriched from the job's own page.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, jobURL string) (*types.JobRecord, error)
}

// SetupError reports a source that could not establish its session or
// browser context. It marks the whole source invocation failed without
// implicating sibling sources.
type SetupError struct {
	Source string
	Cause  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("scraper %s: setup failed: %v", e.Source, e.Cause)
}

func (e *SetupError) Unwrap() error { return e.Cause }
