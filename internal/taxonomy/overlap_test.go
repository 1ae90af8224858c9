package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func detected(id, name string) types.DetectedSkill {
	return types.DetectedSkill{SkillID: id, Name: name, Category: types.CategoryTechnical, Confidence: 1.0, MatchedTerm: name}
}

func TestComputeSkillOverlap_PartialMatch(t *testing.T) {
	resume := []types.DetectedSkill{detected("python", "python")}
	jd := []types.DetectedSkill{detected("python", "python"), detected("docker", "docker")}

	overlap := ComputeSkillOverlap(resume, jd)

	assert.Equal(t, 0.5, overlap.OverlapScore)
	assert.Equal(t, 1, overlap.MatchedCount)
	assert.Equal(t, 2, overlap.TotalRequired)
	require.Len(t, overlap.Missing, 1)
	assert.Equal(t, "docker", overlap.Missing[0].SkillID)
}

func TestComputeSkillOverlap_SetConsistency(t *testing.T) {
	resume := []types.DetectedSkill{detected("a", "a"), detected("c", "c"), detected("e", "e")}
	jd := []types.DetectedSkill{detected("a", "a"), detected("b", "b"), detected("c", "c"), detected("d", "d")}

	overlap := ComputeSkillOverlap(resume, jd)

	// matched_count + |missing| == total_required, always
	assert.Equal(t, overlap.TotalRequired, overlap.MatchedCount+len(overlap.Missing))
	assert.Equal(t, float64(overlap.MatchedCount)/float64(overlap.TotalRequired), overlap.OverlapScore)
	require.Len(t, overlap.Extra, 1)
	assert.Equal(t, "e", overlap.Extra[0].SkillID)
}

func TestComputeSkillOverlap_EmptyJob(t *testing.T) {
	resume := []types.DetectedSkill{detected("python", "python")}

	overlap := ComputeSkillOverlap(resume, nil)

	assert.Equal(t, 1.0, overlap.OverlapScore)
	assert.Equal(t, 0, overlap.TotalRequired)
	assert.Empty(t, overlap.Matched)
	assert.Empty(t, overlap.Missing)
}

func TestComputeSkillOverlap_DuplicateDetectionsCountOnce(t *testing.T) {
	jd := []types.DetectedSkill{detected("python", "python"), detected("python", "python")}

	overlap := ComputeSkillOverlap(nil, jd)

	assert.Equal(t, 1, overlap.TotalRequired)
	assert.Len(t, overlap.Missing, 1)
}
