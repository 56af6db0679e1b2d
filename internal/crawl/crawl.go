// Package crawl discovers candidate job-detail pages on an organization's
// website. Starting from a seed URL it follows career-page links identified by
// path and anchor-text heuristics, then collects job-detail links from those
// pages. The crawl is bounded by page caps and a relaxed-but-bounded domain
// policy: links are followed only on the seed's host, its subdomains, or an
// allow-list of known applicant-tracking-system hosts.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/jmatsuda/jobscout/internal/fetch"
	"github.com/jmatsuda/jobscout/internal/jsonld"
)

// Error represents a crawl failure.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("crawl error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("crawl error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// careerPathFragments mark a link path as a probable career page.
var careerPathFragments = []string{
	"careers", "career", "jobs", "job",
	"opportunities", "opportunity", "work-with-us", "join-us",
	"employment", "hiring", "positions", "openings",
}

// careerAnchorPhrases mark a link by its visible text.
var careerAnchorPhrases = []string{
	"careers", "jobs", "work with us", "join us", "opportunities", "hiring",
}

// jobLinkPatterns match paths that look like individual job postings.
var jobLinkPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/jobs?/[a-zA-Z0-9\-]+`),
	regexp.MustCompile(`(?i)/positions?/[a-zA-Z0-9\-]+`),
	regexp.MustCompile(`(?i)/openings?/[a-zA-Z0-9\-]+`),
	regexp.MustCompile(`(?i)/careers?/[a-zA-Z0-9\-]+`),
	regexp.MustCompile(`(?i)/apply/[a-zA-Z0-9\-]+`),
	regexp.MustCompile(`(?i)/postings?/[a-zA-Z0-9\-]+`),
	regexp.MustCompile(`(?i)/detail/[a-zA-Z0-9\-]+`),
	regexp.MustCompile(`(?i)/view/[a-zA-Z0-9\-]+`),
}

// jobAnchorPhrases mark a job-detail link by its visible text.
var jobAnchorPhrases = []string{
	"view job", "apply", "details", "read more", "learn more",
}

// Config bounds a crawl.
type Config struct {
	MaxCareerPages int      // career pages followed per seed
	MaxJobURLs     int      // candidate URLs returned per seed
	ATSDomains     []string // allow-listed third-party hosts
}

// Crawler enumerates candidate job pages for seed URLs.
type Crawler struct {
	client *fetch.Client
	cfg    Config
	log    *zap.Logger
}

// New builds a Crawler. Zero-valued caps fall back to small defaults that keep
// a single seed's crawl bounded.
func New(client *fetch.Client, cfg Config, log *zap.Logger) *Crawler {
	if cfg.MaxCareerPages <= 0 {
		cfg.MaxCareerPages = 5
	}
	if cfg.MaxJobURLs <= 0 {
		cfg.MaxJobURLs = 30
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Crawler{client: client, cfg: cfg, log: log}
}

// Discover returns a deduplicated, capped list of URLs on the seed's site (or
// an allow-listed ATS host) worth passing to the structured-data normalizer.
// Single-page fetch failures are logged and skipped; the crawl continues.
func (c *Crawler) Discover(ctx context.Context, seedURL string) ([]string, error) {
	seed, err := url.Parse(seedURL)
	if err != nil || seed.Scheme == "" || seed.Host == "" {
		return nil, &Error{Message: fmt.Sprintf("invalid seed URL %q", seedURL), Cause: err}
	}

	var jobURLs []string
	seen := make(map[string]bool)
	add := func(u string) {
		if !seen[u] && len(jobURLs) < c.cfg.MaxJobURLs {
			seen[u] = true
			jobURLs = append(jobURLs, u)
		}
	}

	result, err := c.client.Get(ctx, seedURL)
	if err != nil {
		return nil, &Error{Message: "failed to fetch seed page", Cause: err}
	}

	// The seed itself may already carry structured data.
	if jsonld.HasJobPosting(result.HTML) {
		add(seedURL)
	}

	links := collectLinks(result.HTML, seed)
	careerPages := c.selectCareerPages(links, seed)

	for _, careerURL := range careerPages {
		if err := ctx.Err(); err != nil {
			return jobURLs, err
		}

		page, err := c.client.Get(ctx, careerURL)
		if err != nil {
			c.log.Warn("skipping career page", zap.String("url", careerURL), zap.Error(err))
			continue
		}

		if jsonld.HasJobPosting(page.HTML) {
			add(careerURL)
		}

		base, err := url.Parse(careerURL)
		if err != nil {
			continue
		}
		for _, link := range collectLinks(page.HTML, base) {
			if len(jobURLs) >= c.cfg.MaxJobURLs {
				break
			}
			if c.isJobLink(link) && c.allowedHost(link.Host(), seed.Host) {
				add(link.URL)
			}
		}
	}

	return jobURLs, nil
}

// selectCareerPages filters links down to probable career pages within the
// domain policy, capped at MaxCareerPages.
func (c *Crawler) selectCareerPages(links []Link, seed *url.URL) []string {
	var pages []string
	seen := make(map[string]bool)

	for _, link := range links {
		if len(pages) >= c.cfg.MaxCareerPages {
			break
		}
		if seen[link.URL] || link.URL == strings.TrimSuffix(seed.String(), "/") {
			continue
		}
		if !c.isCareerLink(link) || !c.allowedHost(link.Host(), seed.Host) {
			continue
		}
		seen[link.URL] = true
		pages = append(pages, link.URL)
	}
	return pages
}

func (c *Crawler) isCareerLink(link Link) bool {
	for _, fragment := range careerPathFragments {
		if hasPathSegment(link.Path(), fragment) {
			return true
		}
	}
	text := strings.ToLower(link.Text)
	for _, phrase := range careerAnchorPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func (c *Crawler) isJobLink(link Link) bool {
	for _, pattern := range jobLinkPatterns {
		if pattern.MatchString(link.Path()) {
			return true
		}
	}
	text := strings.ToLower(link.Text)
	for _, phrase := range jobAnchorPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

// allowedHost implements the relaxed domain policy: the seed's host, any
// subdomain of it, or an allow-listed ATS host.
func (c *Crawler) allowedHost(host, seedHost string) bool {
	if host == seedHost || strings.HasSuffix(host, "."+seedHost) {
		return true
	}
	for _, ats := range c.cfg.ATSDomains {
		if host == ats || strings.HasSuffix(host, "."+ats) {
			return true
		}
	}
	return false
}

// hasPathSegment reports whether the URL path contains fragment as a whole
// path segment, so "/careers/eng" matches "careers" but "/jobsworth" does not
// match "jobs".
func hasPathSegment(path, fragment string) bool {
	for _, segment := range strings.Split(strings.ToLower(path), "/") {
		if segment == fragment {
			return true
		}
	}
	return false
}
