package types

import (
	"time"

	"github.com/google/uuid"
)

// MatchScore is the result of scoring one JobRecord against one user profile.
// OverallScore is always the fixed weighted sum of the component scores and is
// never set independently. A score is immutable after creation.
type MatchScore struct {
	ID                  uuid.UUID `json:"id,omitempty"`
	UserID              uuid.UUID `json:"user_id"`
	JobID               uuid.UUID `json:"job_id"`
	OverallScore        float64   `json:"overall_score"`
	SkillsScore         float64   `json:"skills_score"`
	ExperienceScore     float64   `json:"experience_score"`
	LocationScore       float64   `json:"location_score"`
	SalaryScore         float64   `json:"salary_score"`
	MatchingKeywords    []string  `json:"matching_keywords"`
	MissingRequirements []string  `json:"missing_requirements"`
	IsApproved          bool      `json:"is_approved"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
}
