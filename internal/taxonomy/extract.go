package taxonomy

import (
	"github.com/jonathan/resume-tailor/internal/types"
)

// DefaultMinConfidence is the fuzzy-match acceptance threshold used when a
// caller does not supply one.
const DefaultMinConfidence = 0.8

// Extract detects taxonomy skills in free text. Canonical names and synonyms
// are matched as case-insensitive whole-word patterns at confidence 1.0. A
// second pass fuzzy-compares candidate phrases against canonical names to
// catch near-miss phrasing, accepting ratios at or above minConfidence.
// Results are deduplicated by skill id, keeping the higher-confidence hit.
func (t *Table) Extract(text string, minConfidence float64) types.ExtractedSkills {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	var detected []types.DetectedSkill
	seen := make(map[string]int) // skill id -> index into detected

	for _, skill := range t.skills {
		for _, pattern := range skill.patterns {
			match := pattern.FindString(text)
			if match == "" {
				continue
			}
			seen[skill.record.ID] = len(detected)
			detected = append(detected, types.DetectedSkill{
				SkillID:     skill.record.ID,
				Name:        skill.record.Name,
				Category:    skill.record.Category,
				Confidence:  1.0,
				MatchedTerm: match,
			})
			break
		}
	}

	for _, phrase := range candidatePhrases(text) {
		for _, skill := range t.skills {
			ratio := matchRatio(phrase, skill.record.Name)
			if ratio < minConfidence {
				continue
			}
			if idx, found := seen[skill.record.ID]; found {
				if ratio > detected[idx].Confidence {
					detected[idx].Confidence = ratio
					detected[idx].MatchedTerm = phrase
				}
				continue
			}
			seen[skill.record.ID] = len(detected)
			detected = append(detected, types.DetectedSkill{
				SkillID:     skill.record.ID,
				Name:        skill.record.Name,
				Category:    skill.record.Category,
				Confidence:  ratio,
				MatchedTerm: phrase,
			})
		}
	}

	return groupByCategory(detected)
}

// groupByCategory splits detected skills into technical and soft lists while
// preserving detection order.
func groupByCategory(detected []types.DetectedSkill) types.ExtractedSkills {
	result := types.ExtractedSkills{All: detected}
	for _, skill := range detected {
		switch skill.Category {
		case types.CategorySoft:
			result.Soft = append(result.Soft, skill)
		default:
			result.Technical = append(result.Technical, skill)
		}
	}
	return result
}
