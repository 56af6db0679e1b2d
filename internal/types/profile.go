package types

import "github.com/google/uuid"

// UserProfile is the read-only shape of a user's matching preferences as
// stored by the external user service. The core never mutates it.
type UserProfile struct {
	UserID             uuid.UUID `json:"user_id"`
	FullName           string    `json:"full_name,omitempty"`
	Skills             []string  `json:"skills"`
	Keywords           []string  `json:"keywords"`
	PreferredLocations []string  `json:"preferred_locations"`
	SalaryMin          *int      `json:"salary_min,omitempty"`
	MinMatchScore      float64   `json:"min_match_score"`
	AutoDiscover       bool      `json:"auto_discover"`
}
