// Package dedupe collapses job records that refer to the same posting.
// The primary key is the (external_id, source) pair; records without an
// external id fall back to a derived signature built from their best available
// identifying fields. Matching is exact string equality only — near-duplicate
// titles across sources are treated as distinct postings.
package dedupe

import (
	"strings"

	"github.com/jmatsuda/jobscout/internal/types"
)

const separator = "|"

// Key returns the deduplication key for a record: the (external_id, source)
// pair when an external id is present, otherwise the derived signature.
func Key(r *types.JobRecord) string {
	if r.ExternalID != "" {
		return strings.ToLower(r.Source + separator + r.ExternalID)
	}
	return Signature(r)
}

// Signature builds the fallback key from the best available identifying
// fields, in a fixed order, case-folded. Order sensitivity is intentional:
// this is a best-effort exact key, not a similarity measure.
func Signature(r *types.JobRecord) string {
	var parts []string

	if r.ExternalID != "" {
		parts = append(parts, r.ExternalID)
	}
	if r.ExternalURL != "" {
		parts = append(parts, r.ExternalURL)
	}
	parts = append(parts, r.Title, r.Company, r.Location)

	return strings.ToLower(strings.Join(parts, separator))
}

// Dedupe returns the records with duplicates removed. For records sharing a
// key, the first encountered in insertion order survives.
func Dedupe(records []types.JobRecord) []types.JobRecord {
	seen := make(map[string]bool, len(records))
	out := make([]types.JobRecord, 0, len(records))

	for _, r := range records {
		key := Key(&r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
