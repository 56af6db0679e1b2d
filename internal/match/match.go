// Package match computes a weighted similarity score between a user profile
// and a job record. The weights are fixed design constants; experience is
// currently a neutral constant reserved for future refinement. The nominal
// weights sum to 1.1, but with experience fixed at 0.5 the achievable maximum
// is 1.05 and only threshold comparison consumes the value, so they are kept
// as-is rather than renormalized.
package match

import (
	"strings"

	"github.com/jmatsuda/jobscout/internal/types"
)

// Scoring component weights.
const (
	skillsWeight     = 0.4
	keywordsWeight   = 0.3
	locationWeight   = 0.2
	salaryWeight     = 0.1
	experienceWeight = 0.1
)

// neutralExperienceScore is the fixed experience component, a known
// simplification until profile experience data is modeled.
const neutralExperienceScore = 0.5

// partialLocationScore is credited when both sides specify locations but none
// match.
const partialLocationScore = 0.3

// Score computes the match between profile and job. It never fails: missing
// profile or job data degrades the affected component to its documented
// floor, and empty skill/keyword sets score zero rather than dividing by zero.
func Score(profile *types.UserProfile, job *types.JobRecord) types.MatchScore {
	skillsScore, matchedSkills, missing := computeSkillsScore(profile, job)
	keywordScore, matchedKeywords := computeKeywordScore(profile, job)
	locationScore := computeLocationScore(profile, job)
	salaryScore := computeSalaryScore(profile, job)

	overall := skillsScore*skillsWeight +
		keywordScore*keywordsWeight +
		locationScore*locationWeight +
		salaryScore*salaryWeight +
		neutralExperienceScore*experienceWeight

	return types.MatchScore{
		UserID:              profile.UserID,
		JobID:               job.ID,
		OverallScore:        overall,
		SkillsScore:         skillsScore,
		ExperienceScore:     neutralExperienceScore,
		LocationScore:       locationScore,
		SalaryScore:         salaryScore,
		MatchingKeywords:    dedupeFolded(append(matchedSkills, matchedKeywords...)),
		MissingRequirements: missing,
	}
}

// computeSkillsScore is the ratio of profile skills found as case-insensitive
// substrings of the job's description and requirements. Returns the matched
// and unmatched skill lists alongside the ratio.
func computeSkillsScore(profile *types.UserProfile, job *types.JobRecord) (float64, []string, []string) {
	if len(profile.Skills) == 0 {
		return 0.0, nil, nil
	}

	jobText := strings.ToLower(job.Description + " " + job.Requirements)

	var matched, missing []string
	for _, skill := range profile.Skills {
		if skill == "" {
			continue
		}
		if strings.Contains(jobText, strings.ToLower(skill)) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return float64(len(matched)) / float64(len(profile.Skills)), matched, missing
}

// computeKeywordScore is the substring-containment ratio of profile keywords
// over the job's title, description and requirements.
func computeKeywordScore(profile *types.UserProfile, job *types.JobRecord) (float64, []string) {
	if len(profile.Keywords) == 0 {
		return 0.0, nil
	}

	jobText := strings.ToLower(job.Title + " " + job.Description + " " + job.Requirements)

	var matched []string
	for _, keyword := range profile.Keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(jobText, strings.ToLower(keyword)) {
			matched = append(matched, keyword)
		}
	}

	return float64(len(matched)) / float64(len(profile.Keywords)), matched
}

// computeLocationScore scores 1.0 when a preferred location overlaps the job
// location in either direction, or when both sides independently signal
// remote; 0.3 when both sides specify locations but none match; 0.0 when
// either side has no location data.
func computeLocationScore(profile *types.UserProfile, job *types.JobRecord) float64 {
	if len(profile.PreferredLocations) == 0 || job.Location == "" {
		return 0.0
	}

	jobLocation := strings.ToLower(job.Location)
	jobRemote := strings.Contains(jobLocation, "remote") || job.JobType == types.JobTypeRemote

	for _, preferred := range profile.PreferredLocations {
		loc := strings.ToLower(preferred)
		if loc == "" {
			continue
		}
		if strings.Contains(jobLocation, loc) || strings.Contains(loc, jobLocation) {
			return 1.0
		}
		if strings.Contains(loc, "remote") && jobRemote {
			return 1.0
		}
	}

	return partialLocationScore
}

// computeSalaryScore scores 1.0 when the job's minimum meets the profile's
// minimum, partial credit proportional to the shortfall when below, 0.5 when
// only one side has salary data at all, and 0.0 when neither does.
func computeSalaryScore(profile *types.UserProfile, job *types.JobRecord) float64 {
	profileHas := profile.SalaryMin != nil && *profile.SalaryMin > 0
	jobHas := job.SalaryMin != nil || job.SalaryMax != nil

	switch {
	case profileHas && jobHas:
		jobFloor := job.SalaryMax
		if job.SalaryMin != nil {
			jobFloor = job.SalaryMin
		}
		if *jobFloor >= *profile.SalaryMin {
			return 1.0
		}
		ratio := float64(*jobFloor) / float64(*profile.SalaryMin)
		if ratio < 0 {
			return 0.0
		}
		return ratio
	case profileHas != jobHas:
		return 0.5
	default:
		return 0.0
	}
}

// dedupeFolded lowercases and deduplicates matched terms, preserving first
// occurrence order.
func dedupeFolded(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		folded := strings.ToLower(term)
		if folded == "" || seen[folded] {
			continue
		}
		seen[folded] = true
		out = append(out, folded)
	}
	return out
}
