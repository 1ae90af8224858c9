package matching

import (
	"regexp"
	"strconv"
	"time"
)

// neutralRecency is used when the resume carries no dates at all.
const neutralRecency = 0.5

var yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

// recencyScore rates how recent the resume's most recent 4-digit year is
// relative to now. Resumes with no years score neutral.
func recencyScore(resumeText string, now time.Time) float64 {
	matches := yearPattern.FindAllString(resumeText, -1)
	if len(matches) == 0 {
		return neutralRecency
	}

	mostRecent := 0
	for _, match := range matches {
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if year > mostRecent {
			mostRecent = year
		}
	}

	gap := now.Year() - mostRecent
	switch {
	case gap <= 1:
		return 1.0
	case gap <= 2:
		return 0.9
	case gap <= 3:
		return 0.7
	case gap <= 5:
		return 0.5
	default:
		return 0.3
	}
}
