package taxonomy

import "github.com/jonathan/resume-tailor/internal/types"

// ComputeSkillOverlap compares resume skills against job-description skills
// by skill id. Matched and missing preserve the job's detection order; extra
// preserves the resume's. OverlapScore is matched/total_required, defined as
// 1.0 when the job lists no skills.
func ComputeSkillOverlap(resumeSkills, jdSkills []types.DetectedSkill) types.SkillOverlap {
	resumeIDs := make(map[string]bool, len(resumeSkills))
	for _, skill := range resumeSkills {
		resumeIDs[skill.SkillID] = true
	}

	jdIDs := make(map[string]bool, len(jdSkills))
	overlap := types.SkillOverlap{}
	for _, skill := range jdSkills {
		if jdIDs[skill.SkillID] {
			continue // Duplicate detection of the same id
		}
		jdIDs[skill.SkillID] = true
		if resumeIDs[skill.SkillID] {
			overlap.Matched = append(overlap.Matched, skill)
		} else {
			overlap.Missing = append(overlap.Missing, skill)
		}
	}

	seenExtra := make(map[string]bool, len(resumeSkills))
	for _, skill := range resumeSkills {
		if !jdIDs[skill.SkillID] && !seenExtra[skill.SkillID] {
			seenExtra[skill.SkillID] = true
			overlap.Extra = append(overlap.Extra, skill)
		}
	}

	overlap.MatchedCount = len(overlap.Matched)
	overlap.TotalRequired = len(jdIDs)
	if overlap.TotalRequired == 0 {
		overlap.OverlapScore = 1.0
	} else {
		overlap.OverlapScore = float64(overlap.MatchedCount) / float64(overlap.TotalRequired)
	}

	return overlap
}
