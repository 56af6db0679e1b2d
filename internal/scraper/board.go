package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jmatsuda/jobscout/internal/fetch"
	"github.com/jmatsuda/jobscout/internal/types"
)

const (
	boardPageSize    = 50
	boardMaxPages    = 5
	boardPageTimeout = 45 * time.Second
)

// Board drives a headless browser against a job board's search pages and
// extracts listings from the rendered DOM. Boards render results client-side
// and fingerprint plain HTTP clients, so a real browser session is the only
// reliable way in.
type Board struct {
	baseURL  string
	headless bool
	throttle *fetch.Throttle
	log      *zap.Logger
}

// BoardOptions configures a Board source.
type BoardOptions struct {
	BaseURL      string
	Headless     bool
	RequestDelay time.Duration
	Logger       *zap.Logger
}

// NewBoard builds a browser-driven source for the given board URL.
func NewBoard(opts BoardOptions) *Board {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	delay := opts.RequestDelay
	if delay <= 0 {
		delay = fetch.DefaultRequestDelay
	}
	return &Board{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		headless: opts.Headless,
		throttle: fetch.NewThrottle(delay),
		log:      log,
	}
}

func (b *Board) Name() string { return "board" }

// Search navigates the board's search results for each keyword/location pair,
// paginating until max_results is reached. The browser session is scoped to
// this call: it is released on every exit path. A failure to launch the
// browser at all is a setup error; failures on individual pages or listings
// are logged and skipped.
func (b *Board) Search(ctx context.Context, q Query) ([]types.JobRecord, error) {
	browser, err := fetch.NewBrowser(ctx, b.headless)
	if err != nil {
		return nil, &SetupError{Source: b.Name(), Cause: err}
	}
	defer browser.Close()

	host := "board"
	if u, err := url.Parse(b.baseURL); err == nil {
		host = u.Host
	}

	keywords := q.Keywords
	if len(keywords) == 0 {
		keywords = []string{""}
	}
	locations := q.Locations
	if len(locations) == 0 {
		locations = []string{""}
	}

	var jobs []types.JobRecord
	for _, location := range locations {
		for _, keyword := range keywords {
			if err := ctx.Err(); err != nil {
				return jobs, err
			}

			found, err := b.searchOne(ctx, browser, host, keyword, location, q, len(jobs))
			if err != nil {
				b.log.Warn("board search page failed",
					zap.String("keyword", keyword),
					zap.String("location", location),
					zap.Error(err))
				continue
			}
			jobs = append(jobs, found...)

			if q.MaxResults > 0 && len(jobs) >= q.MaxResults {
				return jobs[:q.MaxResults], nil
			}
		}
	}

	return jobs, nil
}

func (b *Board) searchOne(ctx context.Context, browser *fetch.Browser, host, keyword, location string, q Query, have int) ([]types.JobRecord, error) {
	var jobs []types.JobRecord

	for page := 0; page < boardMaxPages; page++ {
		if err := b.throttle.Wait(ctx, host); err != nil {
			return jobs, err
		}

		pageURL := b.searchURL(keyword, location, q.SalaryMin, page)
		htmlContent, err := browser.HTML(ctx, pageURL, boardPageTimeout)
		if err != nil {
			return jobs, err
		}

		found, err := b.parseListings(htmlContent, location)
		if err != nil {
			return jobs, err
		}
		if len(found) == 0 {
			break
		}
		jobs = append(jobs, found...)

		if q.MaxResults > 0 && have+len(jobs) >= q.MaxResults {
			break
		}
	}

	return jobs, nil
}

func (b *Board) searchURL(keyword, location string, salaryMin *int, page int) string {
	params := url.Values{}
	if keyword != "" {
		params.Set("q", keyword)
	}
	if location != "" {
		params.Set("l", location)
	}
	params.Set("sort", "date")
	if salaryMin != nil {
		params.Set("salary", fmt.Sprintf("%d+", *salaryMin))
	}
	if page > 0 {
		params.Set("start", fmt.Sprint(page*boardPageSize))
	}
	return b.baseURL + "/jobs?" + params.Encode()
}

// parseListings pulls job cards out of rendered search-result markup. A card
// missing its listing ID is skipped; other missing fields degrade to
// fallbacks.
func (b *Board) parseListings(htmlContent, searchedLocation string) ([]types.JobRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var jobs []types.JobRecord

	doc.Find("[data-jk]").Each(func(_ int, card *goquery.Selection) {
		listingID, ok := card.Attr("data-jk")
		if !ok || listingID == "" {
			return
		}

		title := strings.TrimSpace(card.Find("h2 a span").First().Text())
		if title == "" {
			title = strings.TrimSpace(card.Find("h2").First().Text())
		}
		if title == "" {
			b.log.Debug("listing without title skipped", zap.String("id", listingID))
			return
		}

		company := strings.TrimSpace(card.Find(`[data-testid="company-name"]`).First().Text())
		if company == "" {
			company = "Unknown Company"
		}

		jobLocation := strings.TrimSpace(card.Find(`[data-testid="job-location"]`).First().Text())
		if jobLocation == "" {
			jobLocation = searchedLocation
		}

		snippet := strings.TrimSpace(card.Find(".job-snippet").First().Text())
		salaryMin, salaryMax := ParseSalary(card.Find(`[data-testid="attribute_snippet_testid"]`).First().Text())

		jobURL := b.baseURL + "/viewjob?jk=" + listingID

		jobs = append(jobs, types.JobRecord{
			Title:          title,
			Company:        company,
			Location:       jobLocation,
			Description:    snippet,
			SalaryMin:      salaryMin,
			SalaryMax:      salaryMax,
			JobType:        types.JobTypeFromText(title + " " + snippet + " " + jobLocation),
			Source:         b.Name(),
			ExternalID:     listingID,
			ExternalURL:    jobURL,
			ApplicationURL: jobURL,
			ScrapedAt:      now,
			IsActive:       true,
		})
	})

	return jobs, nil
}
