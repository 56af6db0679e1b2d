// Package types provides type definitions for structured data used throughout the jobscout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobType classifies the employment arrangement of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "full_time"
	JobTypePartTime   JobType = "part_time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
	JobTypeHybrid     JobType = "hybrid"
)

// JobTypeFromText infers a job type from free text (a title, description or a
// source's employment-type label). Defaults to full_time when nothing matches.
func JobTypeFromText(text string) JobType {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, "remote", "work from home", "wfh"):
		return JobTypeRemote
	case containsAny(lower, "hybrid", "flexible"):
		return JobTypeHybrid
	case containsAny(lower, "part-time", "part time", "part_time"):
		return JobTypePartTime
	case containsAny(lower, "contract", "contractor", "freelance", "temporary"):
		return JobTypeContract
	case containsAny(lower, "intern", "internship"):
		return JobTypeInternship
	default:
		return JobTypeFullTime
	}
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// JobRecord is the canonical unit of discovered work produced by a source adapter.
// Records are immutable after creation except for the IsActive flag.
type JobRecord struct {
	ID               uuid.UUID  `json:"id,omitempty"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Location         string     `json:"location"`
	Description      string     `json:"description"`
	Requirements     string     `json:"requirements,omitempty"`
	Benefits         string     `json:"benefits,omitempty"`
	SalaryMin        *int       `json:"salary_min,omitempty"`
	SalaryMax        *int       `json:"salary_max,omitempty"`
	JobType          JobType    `json:"job_type,omitempty"`
	Source           string     `json:"source"`
	ExternalID       string     `json:"external_id,omitempty"`
	ExternalURL      string     `json:"external_url,omitempty"`
	ApplicationURL   string     `json:"application_url,omitempty"`
	ApplicationEmail string     `json:"application_email,omitempty"`
	PostedDate       *time.Time `json:"posted_date,omitempty"`
	ExpiresDate      *time.Time `json:"expires_date,omitempty"`
	ScrapedAt        time.Time  `json:"scraped_at,omitempty"`
	IsActive         bool       `json:"is_active"`
}
