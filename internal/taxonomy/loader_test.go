package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func writeTaxonomyDir(t *testing.T, skillsCSV, synonymsCSV string) string {
	t.Helper()
	dir := t.TempDir()
	if skillsCSV != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "skills.csv"), []byte(skillsCSV), 0o644))
	}
	if synonymsCSV != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "skill_synonyms.csv"), []byte(synonymsCSV), 0o644))
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := writeTaxonomyDir(t,
		"id,name,type,category\nS1,Python,technical,languages\nS2,Teamwork,soft,interpersonal\n",
		"skill_id,synonym\nS1,python3\nS1,py\n",
	)

	table, err := LoadDir(dir)
	require.NoError(t, err)

	records := table.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "python", records[0].Name)
	assert.Equal(t, types.CategoryTechnical, records[0].Category)
	assert.Equal(t, []string{"python3", "py"}, records[0].Synonyms)
	assert.Equal(t, types.CategorySoft, records[1].Category)
}

func TestLoadDir_SkipsMalformedRows(t *testing.T) {
	dir := writeTaxonomyDir(t,
		"id,name,type,category\nS1,Python,technical,languages\n,missing-id,technical,x\nS3,,technical,x\n",
		"",
	)

	table, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoadDir_MissingFilesDegradeToEmptyTable(t *testing.T) {
	table, err := LoadDir(t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Extract("python everywhere", 0.8).All)
}

func TestStore_SwapReplacesSnapshotAtomically(t *testing.T) {
	store := NewStore(NewTable(nil, "v1"))
	assert.Equal(t, "v1", store.Table().Version())

	store.Swap(NewTable([]SkillRecord{{ID: "S1", Name: "go", Category: types.CategoryTechnical}}, "v2"))

	table := store.Table()
	assert.Equal(t, "v2", table.Version())
	assert.Equal(t, 1, table.Len())
}
