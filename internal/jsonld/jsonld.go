// Package jsonld extracts JobPosting structured data embedded in HTML pages
// and normalizes it into canonical job records. External markup is wildly
// inconsistent, so every field decoder handles the shapes actually seen in the
// wild (string, object, array of either) and degrades to a documented default
// instead of failing. Extraction is a pure function of the page content and
// source URL; identical input always yields identical records.
package jsonld

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"

	"github.com/jmatsuda/jobscout/internal/types"
)

// marker is the fast-reject substring: pages without it contain no structured
// data blocks and are skipped before any parsing.
const marker = "application/ld+json"

const (
	fallbackCompany  = "Unknown Company"
	fallbackLocation = "Location not specified"
)

// Source is the adapter identifier stamped on extracted records.
const Source = "schema"

var numberPattern = regexp.MustCompile(`\d+(?:,\d+)*`)

// HasJobPosting reports whether the page content contains at least one
// JobPosting structured-data block. Used by the crawler to decide whether a
// page is worth treating as a job page.
func HasJobPosting(content string) bool {
	if !strings.Contains(strings.ToLower(content), marker) {
		return false
	}
	for _, block := range dataBlocks(content) {
		for _, entry := range flatten(block) {
			if isJobPosting(entry) {
				return true
			}
		}
	}
	return false
}

// Extract parses every structured-data block in content and returns the
// normalized job records found. Records missing a title are discarded; every
// other field degrades to its documented fallback. Malformed blocks are
// skipped, never an error.
func Extract(content, sourceURL string) []types.JobRecord {
	if !strings.Contains(strings.ToLower(content), marker) {
		return nil
	}

	var records []types.JobRecord
	for _, block := range dataBlocks(content) {
		for _, entry := range flatten(block) {
			if !isJobPosting(entry) {
				continue
			}
			if rec, ok := parsePosting(entry, sourceURL); ok {
				records = append(records, rec)
			}
		}
	}
	return records
}

// dataBlocks returns the decoded JSON value of each ld+json script tag.
// Tags holding invalid JSON are dropped.
func dataBlocks(content string) []any {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var blocks []any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		var data any
		if err := json.Unmarshal([]byte(text), &data); err != nil {
			return
		}
		blocks = append(blocks, data)
	})
	return blocks
}

// flatten expands a block into its candidate entries: a block may be a single
// record, an array of records, or an array of mixed types with nesting.
func flatten(data any) []any {
	switch v := data.(type) {
	case []any:
		var out []any
		for _, item := range v {
			out = append(out, flatten(item)...)
		}
		return out
	case map[string]any:
		return []any{v}
	default:
		return nil
	}
}

// isJobPosting reports whether the entry's declared @type is JobPosting.
// The type field may be a single string or a list of strings; a malformed or
// absent type means "not a job posting", never an error.
func isJobPosting(entry any) bool {
	m, ok := entry.(map[string]any)
	if !ok {
		return false
	}

	switch t := m["@type"].(type) {
	case string:
		return t == "JobPosting"
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && s == "JobPosting" {
				return true
			}
		}
	}
	return false
}

func parsePosting(entry any, sourceURL string) (types.JobRecord, bool) {
	m := entry.(map[string]any)

	title := strings.TrimSpace(stringField(m, "title"))
	if title == "" {
		// Title is the only required field from the source data.
		return types.JobRecord{}, false
	}

	description := strings.TrimSpace(stringField(m, "description"))
	salaryMin, salaryMax := decodeSalary(m["baseSalary"])

	jobURL := strings.TrimSpace(stringField(m, "url"))
	if jobURL == "" {
		jobURL = sourceURL
	}

	rec := types.JobRecord{
		Title:          title,
		Company:        decodeCompany(m),
		Location:       decodeLocation(m["jobLocation"]),
		Description:    description,
		SalaryMin:      salaryMin,
		SalaryMax:      salaryMax,
		JobType:        decodeEmploymentType(m, title, description),
		Source:         Source,
		ExternalID:     decodeIdentifier(m["identifier"]),
		ExternalURL:    jobURL,
		ApplicationURL: jobURL,
		PostedDate:     decodeDate(m["datePosted"]),
		ExpiresDate:    decodeDate(m["validThrough"]),
		IsActive:       true,
	}
	return rec, true
}

// decodeCompany resolves the hiring organization name with fallbacks:
// hiringOrganization → employer → "Unknown Company". Either field may be an
// object with a name or a bare string.
func decodeCompany(m map[string]any) string {
	for _, key := range []string{"hiringOrganization", "employer"} {
		switch org := m[key].(type) {
		case map[string]any:
			if name := strings.TrimSpace(stringField(org, "name")); name != "" {
				return name
			}
		case string:
			if name := strings.TrimSpace(org); name != "" {
				return name
			}
		}
	}
	return fallbackCompany
}

// decodeLocation normalizes the jobLocation value. A plain string is used
// verbatim; a Place object becomes "city, region, country" from its non-empty
// address parts; a list is resolved through its first entry.
func decodeLocation(v any) string {
	switch loc := v.(type) {
	case string:
		if s := strings.TrimSpace(loc); s != "" {
			return s
		}
	case []any:
		if len(loc) > 0 {
			return decodeLocation(loc[0])
		}
	case map[string]any:
		if addr, ok := loc["address"].(map[string]any); ok {
			var parts []string
			for _, key := range []string{"addressLocality", "addressRegion", "addressCountry"} {
				if part := strings.TrimSpace(stringField(addr, key)); part != "" {
					parts = append(parts, part)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, ", ")
			}
		}
		if name := strings.TrimSpace(stringField(loc, "name")); name != "" {
			return name
		}
	}
	return fallbackLocation
}

// decodeSalary extracts a salary range from a baseSalary value. Preference
// order: structured min/max pair, then a single value, then a scan of the raw
// value's text for numeric tokens. No numeric signal yields no salary.
func decodeSalary(v any) (*int, *int) {
	if v == nil {
		return nil, nil
	}

	switch sal := v.(type) {
	case float64:
		n := int(sal)
		return &n, &n
	case string:
		return scanSalaryText(sal)
	case map[string]any:
		if value, ok := sal["value"].(map[string]any); ok {
			if min, max, ok := numberPair(value, "minValue", "maxValue"); ok {
				return min, max
			}
			if single, ok := numberField(value, "value"); ok {
				return &single, &single
			}
		}
		if single, ok := numberField(sal, "value"); ok {
			return &single, &single
		}
		if min, max, ok := numberPair(sal, "minValue", "maxValue"); ok {
			return min, max
		}
		// Last resort: any numeric tokens in the value's text form.
		return scanSalaryText(fmt.Sprint(sal))
	}
	return nil, nil
}

func numberPair(m map[string]any, minKey, maxKey string) (*int, *int, bool) {
	min, minOK := numberField(m, minKey)
	max, maxOK := numberField(m, maxKey)
	if minOK && maxOK {
		return &min, &max, true
	}
	return nil, nil, false
}

func numberField(m map[string]any, key string) (int, bool) {
	n, ok := m[key].(float64)
	if !ok || n == 0 {
		return 0, false
	}
	return int(n), true
}

func scanSalaryText(text string) (*int, *int) {
	tokens := numberPattern.FindAllString(text, 2)
	if len(tokens) == 0 {
		return nil, nil
	}

	first := parseNumericToken(tokens[0])
	if len(tokens) >= 2 {
		second := parseNumericToken(tokens[1])
		return &first, &second
	}
	return &first, &first
}

func parseNumericToken(token string) int {
	n, _ := strconv.Atoi(strings.ReplaceAll(token, ",", ""))
	return n
}

// decodeDate parses a date string permissively; unparseable or absent values
// yield no date rather than an error.
func decodeDate(v any) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	parsed, err := dateparse.ParseAny(s)
	if err != nil {
		return nil
	}
	return &parsed
}

// decodeIdentifier extracts the declared external identifier, which may be a
// bare scalar or a PropertyValue object with a "value" sub-field.
func decodeIdentifier(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case map[string]any:
		switch inner := id["value"].(type) {
		case string:
			return strings.TrimSpace(inner)
		case float64:
			return strconv.FormatFloat(inner, 'f', -1, 64)
		}
	}
	return ""
}

// decodeEmploymentType maps the schema employmentType value (string or list)
// onto the job type enum, falling back to inference from the posting text.
func decodeEmploymentType(m map[string]any, title, description string) types.JobType {
	label := ""
	switch et := m["employmentType"].(type) {
	case string:
		label = et
	case []any:
		if len(et) > 0 {
			if s, ok := et[0].(string); ok {
				label = s
			}
		}
	}

	if label != "" {
		return types.JobTypeFromText(label)
	}
	return types.JobTypeFromText(title + " " + description)
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
