package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	salaryRangePattern  = regexp.MustCompile(`(\d+)k?\s*(?:to|-|–)\s*\$?(\d+)k?`)
	salarySinglePattern = regexp.MustCompile(`(\d+)k?`)
)

// ParseSalary extracts a min/max pair from free-form salary text such as
// "$80,000 - $95,000", "80k-95k" or "up to 120k". Values written in thousands
// notation, or small enough to be annual salaries in thousands, are scaled.
// Text with no numeric signal yields nil, nil.
func ParseSalary(text string) (*int, *int) {
	if text == "" {
		return nil, nil
	}

	clean := strings.ToLower(text)
	clean = strings.NewReplacer(",", "", "$", "").Replace(clean)

	if m := salaryRangePattern.FindStringSubmatch(clean); m != nil {
		minVal, _ := strconv.Atoi(m[1])
		maxVal, _ := strconv.Atoi(m[2])
		if strings.Contains(clean, "k") || minVal < 1000 {
			minVal *= 1000
			maxVal *= 1000
		}
		return &minVal, &maxVal
	}

	if m := salarySinglePattern.FindStringSubmatch(clean); m != nil {
		val, _ := strconv.Atoi(m[1])
		if strings.Contains(clean, "k") || val < 1000 {
			val *= 1000
		}
		v2 := val
		return &val, &v2
	}

	return nil, nil
}
