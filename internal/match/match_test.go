package match

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmatsuda/jobscout/internal/types"
)

func intPtr(v int) *int { return &v }

func baseProfile() *types.UserProfile {
	return &types.UserProfile{
		UserID:   uuid.New(),
		FullName: "Test User",
	}
}

func baseJob() *types.JobRecord {
	return &types.JobRecord{
		ID:      uuid.New(),
		Title:   "Backend Engineer",
		Company: "Acme Corp",
	}
}

func TestScore_SkillsHalfMatched(t *testing.T) {
	profile := baseProfile()
	profile.Skills = []string{"python", "sql"}

	job := baseJob()
	job.Description = "We use python for all backend services."

	score := Score(profile, job)

	assert.InDelta(t, 0.5, score.SkillsScore, 1e-9)
	assert.Equal(t, []string{"python"}, score.MatchingKeywords)
	assert.Equal(t, []string{"sql"}, score.MissingRequirements)
}

func TestScore_SkillsMatchInRequirements(t *testing.T) {
	profile := baseProfile()
	profile.Skills = []string{"Kubernetes"}

	job := baseJob()
	job.Requirements = "Experience with kubernetes and CI/CD pipelines."

	score := Score(profile, job)

	assert.InDelta(t, 1.0, score.SkillsScore, 1e-9)
	assert.Empty(t, score.MissingRequirements)
}

func TestScore_KeywordsIncludeTitle(t *testing.T) {
	profile := baseProfile()
	profile.Keywords = []string{"backend", "fintech"}

	job := baseJob()
	job.Description = "Payments platform."

	score := Score(profile, job)

	assert.Zero(t, score.SkillsScore)
	assert.Contains(t, score.MatchingKeywords, "backend")
	assert.NotContains(t, score.MatchingKeywords, "fintech")
}

func TestScore_EmptySkillsAndKeywords(t *testing.T) {
	profile := baseProfile()
	job := baseJob()
	job.Description = "Anything at all."

	var score types.MatchScore
	require.NotPanics(t, func() {
		score = Score(profile, job)
	})

	assert.Zero(t, score.SkillsScore)
	assert.Empty(t, score.MatchingKeywords)
	assert.Empty(t, score.MissingRequirements)
}

func TestScore_ExperienceIsNeutralConstant(t *testing.T) {
	score := Score(baseProfile(), baseJob())
	assert.InDelta(t, 0.5, score.ExperienceScore, 1e-9)
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		name      string
		preferred []string
		location  string
		jobType   types.JobType
		want      float64
	}{
		{"direct overlap", []string{"Boston"}, "Boston, MA", "", 1.0},
		{"job contained in preference", []string{"San Francisco Bay Area"}, "San Francisco", "", 1.0},
		{"both remote via text", []string{"Remote"}, "Remote - US", "", 1.0},
		{"both remote via job type", []string{"remote"}, "Anywhere", types.JobTypeRemote, 1.0},
		{"mismatch", []string{"Austin"}, "Seattle, WA", "", 0.3},
		{"no preferences", nil, "Seattle, WA", "", 0.0},
		{"job has no location", []string{"Austin"}, "", "", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := baseProfile()
			profile.PreferredLocations = tt.preferred
			job := baseJob()
			job.Location = tt.location
			job.JobType = tt.jobType

			assert.InDelta(t, tt.want, computeLocationScore(profile, job), 1e-9)
		})
	}
}

func TestSalaryScore(t *testing.T) {
	tests := []struct {
		name       string
		profileMin *int
		jobMin     *int
		jobMax     *int
		want       float64
	}{
		{"job meets profile minimum", intPtr(100000), intPtr(120000), nil, 1.0},
		{"job exactly at minimum", intPtr(100000), intPtr(100000), nil, 1.0},
		{"job below minimum scores ratio", intPtr(100000), intPtr(80000), nil, 0.8},
		{"only job max meets minimum", intPtr(100000), nil, intPtr(110000), 1.0},
		{"profile only", intPtr(100000), nil, nil, 0.5},
		{"job only", nil, intPtr(90000), intPtr(120000), 0.5},
		{"neither side", nil, nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := baseProfile()
			profile.SalaryMin = tt.profileMin
			job := baseJob()
			job.SalaryMin = tt.jobMin
			job.SalaryMax = tt.jobMax

			assert.InDelta(t, tt.want, computeSalaryScore(profile, job), 1e-9)
		})
	}
}

func TestScore_OverallCombinesWeightedComponents(t *testing.T) {
	profile := baseProfile()
	profile.Skills = []string{"go", "postgres"}
	profile.Keywords = []string{"backend"}
	profile.PreferredLocations = []string{"Boston"}
	profile.SalaryMin = intPtr(100000)

	job := baseJob()
	job.Description = "Build backend services in go."
	job.Location = "Boston, MA"
	job.SalaryMin = intPtr(120000)

	score := Score(profile, job)

	// skills 0.5*0.4 + keywords 1.0*0.3 + location 1.0*0.2 + salary 1.0*0.1 + experience 0.5*0.1
	assert.InDelta(t, 0.5*0.4+1.0*0.3+1.0*0.2+1.0*0.1+0.5*0.1, score.OverallScore, 1e-9)
}

func TestScore_MatchingKeywordsDeduplicated(t *testing.T) {
	profile := baseProfile()
	profile.Skills = []string{"Python"}
	profile.Keywords = []string{"python"}

	job := baseJob()
	job.Description = "python everywhere"

	score := Score(profile, job)

	assert.Equal(t, []string{"python"}, score.MatchingKeywords)
}
