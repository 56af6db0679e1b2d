package scraper

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jmatsuda/jobscout/internal/crawl"
	"github.com/jmatsuda/jobscout/internal/dedupe"
	"github.com/jmatsuda/jobscout/internal/fetch"
	"github.com/jmatsuda/jobscout/internal/jsonld"
	"github.com/jmatsuda/jobscout/internal/types"
)

// Schema extracts JobPosting structured data from organization sites. Each
// configured seed URL is crawled for candidate job pages, each candidate page
// is normalized, and the combined output is filtered against the query's
// canonical fields.
type Schema struct {
	client  *fetch.Client
	crawler *crawl.Crawler
	seeds   []string
	log     *zap.Logger
}

// SchemaOptions configures a Schema source.
type SchemaOptions struct {
	Seeds    []string
	Client   *fetch.Client
	CrawlCfg crawl.Config
	Logger   *zap.Logger
}

// NewSchema builds a structured-data source over the given seed URLs.
func NewSchema(opts SchemaOptions) *Schema {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	client := opts.Client
	if client == nil {
		client = fetch.NewClient(nil)
	}
	return &Schema{
		client:  client,
		crawler: crawl.New(client, opts.CrawlCfg, log),
		seeds:   opts.Seeds,
		log:     log,
	}
}

func (s *Schema) Name() string { return jsonld.Source }

// Search crawls every seed, normalizes each candidate page, and returns the
// deduplicated, query-filtered records. Page-level failures are logged and
// skipped; Search only fails when the context is cancelled.
func (s *Schema) Search(ctx context.Context, q Query) ([]types.JobRecord, error) {
	var out []types.JobRecord

	for _, seed := range s.seeds {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		candidates, err := s.crawler.Discover(ctx, seed)
		if err != nil {
			s.log.Warn("seed crawl failed", zap.String("seed", seed), zap.Error(err))
			continue
		}

		for _, candidate := range candidates {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			if q.MaxResults > 0 && len(out) >= q.MaxResults {
				break
			}

			records, err := s.extractPage(ctx, candidate)
			if err != nil {
				s.log.Warn("job page fetch failed", zap.String("url", candidate), zap.Error(err))
				continue
			}

			for _, rec := range records {
				if matchesQuery(&rec, q) {
					out = append(out, rec)
				}
			}
		}

		if q.MaxResults > 0 && len(out) >= q.MaxResults {
			break
		}
	}

	out = dedupe.Dedupe(out)
	if q.MaxResults > 0 && len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}

	s.log.Info("schema search complete", zap.Int("jobs", len(out)))
	return out, nil
}

// FetchDetail normalizes a single known job page URL.
func (s *Schema) FetchDetail(ctx context.Context, jobURL string) (*types.JobRecord, error) {
	records, err := s.extractPage(ctx, jobURL)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *Schema) extractPage(ctx context.Context, pageURL string) ([]types.JobRecord, error) {
	res, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	records := jsonld.Extract(res.HTML, pageURL)
	now := time.Now().UTC()
	for i := range records {
		records[i].ScrapedAt = now
		records[i].IsActive = true
	}
	return records, nil
}

// matchesQuery filters a record against the query's canonical fields rather
// than the description alone. Keywords match title, description or company;
// any match is enough.
func matchesQuery(rec *types.JobRecord, q Query) bool {
	if len(q.Keywords) > 0 {
		searchable := strings.ToLower(rec.Title + " " + rec.Description + " " + rec.Company)
		found := false
		for _, kw := range q.Keywords {
			if kw != "" && strings.Contains(searchable, strings.ToLower(kw)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(q.Locations) > 0 && rec.Location != "" {
		jobLoc := strings.ToLower(rec.Location)
		found := false
		for _, loc := range q.Locations {
			if loc != "" && strings.Contains(jobLoc, strings.ToLower(loc)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(q.JobTypes) > 0 && rec.JobType != "" {
		found := false
		for _, jt := range q.JobTypes {
			if rec.JobType == jt {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if q.SalaryMin != nil && rec.SalaryMax != nil && *rec.SalaryMax < *q.SalaryMin {
		return false
	}

	return true
}
