package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func testTable() *Table {
	return NewTable([]SkillRecord{
		{ID: "S1", Name: "python", Category: types.CategoryTechnical},
		{ID: "S2", Name: "docker", Category: types.CategoryTechnical},
		{ID: "S3", Name: "kubernetes", Category: types.CategoryTechnical, Synonyms: []string{"k8s"}},
		{ID: "S4", Name: "communication", Category: types.CategorySoft},
	}, "test")
}

func TestExtract_ExactMatch(t *testing.T) {
	table := testTable()

	result := table.Extract("Built data pipelines in Python and deployed with Docker.", 0.8)

	require.Len(t, result.All, 2)
	assert.Equal(t, "S1", result.All[0].SkillID)
	assert.Equal(t, 1.0, result.All[0].Confidence)
	assert.Equal(t, "Python", result.All[0].MatchedTerm)
	assert.Equal(t, "S2", result.All[1].SkillID)
}

func TestExtract_SynonymMatch(t *testing.T) {
	table := testTable()

	result := table.Extract("Operated k8s clusters in production.", 0.8)

	require.Len(t, result.All, 1)
	assert.Equal(t, "S3", result.All[0].SkillID)
	assert.Equal(t, "kubernetes", result.All[0].Name)
	assert.Equal(t, 1.0, result.All[0].Confidence)
}

func TestExtract_CaseInsensitiveWholeWord(t *testing.T) {
	table := testTable()

	// "pythonic" must not match "python" as a whole word
	result := table.Extract("Wrote pythonic code.", 0.99)

	assert.Empty(t, result.All)
}

func TestExtract_FuzzyNearMiss(t *testing.T) {
	table := testTable()

	// "kubernets" is one edit away from "kubernetes"
	result := table.Extract("Experience running kubernets clusters", 0.8)

	require.Len(t, result.All, 1)
	assert.Equal(t, "S3", result.All[0].SkillID)
	assert.Less(t, result.All[0].Confidence, 1.0)
	assert.GreaterOrEqual(t, result.All[0].Confidence, 0.8)
	assert.Equal(t, "kubernets", result.All[0].MatchedTerm)
}

func TestExtract_FuzzyDoesNotDowngradeExactHit(t *testing.T) {
	table := testTable()

	result := table.Extract("Python and pythn scripts everywhere.", 0.8)

	require.Len(t, result.All, 1)
	assert.Equal(t, 1.0, result.All[0].Confidence)
	assert.Equal(t, "Python", result.All[0].MatchedTerm)
}

func TestExtract_GroupsByCategory(t *testing.T) {
	table := testTable()

	result := table.Extract("Python developer with strong communication.", 0.8)

	require.Len(t, result.All, 2)
	require.Len(t, result.Technical, 1)
	require.Len(t, result.Soft, 1)
	assert.Equal(t, "S1", result.Technical[0].SkillID)
	assert.Equal(t, "S4", result.Soft[0].SkillID)
}

func TestExtract_EmptyTaxonomy(t *testing.T) {
	table := NewTable(nil, "empty")

	result := table.Extract("Python, Docker, Kubernetes, everything.", 0.8)

	assert.Empty(t, result.All)
	assert.Empty(t, result.Technical)
	assert.Empty(t, result.Soft)
}

func TestExtract_Deterministic(t *testing.T) {
	table := testTable()
	text := "Python and Docker on Kubernetes with good communication."

	first := table.Extract(text, 0.8)
	second := table.Extract(text, 0.8)

	assert.Equal(t, first, second)
}
