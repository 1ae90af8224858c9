package matching

import "strings"

// SeniorityLevel is one of four ordered career levels.
type SeniorityLevel int

// Career levels in ascending order.
const (
	LevelEntry SeniorityLevel = iota + 1
	LevelMid
	LevelSenior
	LevelExecutive
)

func (l SeniorityLevel) String() string {
	switch l {
	case LevelEntry:
		return "entry"
	case LevelSenior:
		return "senior"
	case LevelExecutive:
		return "executive"
	default:
		return "mid"
	}
}

var seniorityKeywords = map[SeniorityLevel][]string{
	LevelEntry:     {"junior", "entry level", "graduate", "intern", "associate", "trainee"},
	LevelMid:       {"mid level", "intermediate", "engineer", "developer", "analyst", "specialist"},
	LevelSenior:    {"senior", "lead", "principal", "staff", "expert", "architect"},
	LevelExecutive: {"director", "vp", "vice president", "head of", "chief", "cto", "ceo", "executive"},
}

// DetectSeniority classifies text into a career level by keyword counts.
// Executive indicators take precedence regardless of count; senior and mid
// require at least two hits, entry at least one; otherwise mid.
func DetectSeniority(text string) SeniorityLevel {
	lower := strings.ToLower(text)

	counts := make(map[SeniorityLevel]int, len(seniorityKeywords))
	for level, keywords := range seniorityKeywords {
		for _, keyword := range keywords {
			counts[level] += strings.Count(lower, keyword)
		}
	}

	switch {
	case counts[LevelExecutive] > 0:
		return LevelExecutive
	case counts[LevelSenior] >= 2:
		return LevelSenior
	case counts[LevelMid] >= 2:
		return LevelMid
	case counts[LevelEntry] >= 1:
		return LevelEntry
	default:
		return LevelMid
	}
}

// seniorityFit scores how well the resume's level matches the job's level.
// The score decays with level distance.
func seniorityFit(resumeText, jdText string) float64 {
	distance := int(DetectSeniority(resumeText)) - int(DetectSeniority(jdText))
	if distance < 0 {
		distance = -distance
	}

	switch distance {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.5
	default:
		return 0.3
	}
}
