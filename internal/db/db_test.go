package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactStepConstants(t *testing.T) {
	steps := []string{
		StepResume,
		StepJobPosting,
		StepMatchResult,
		StepEvidence,
		StepSuggestions,
		StepATSExport,
	}

	seen := make(map[string]bool)
	for _, step := range steps {
		assert.NotEmpty(t, step, "step constant should not be empty")
		assert.False(t, seen[step], "step constant %q duplicated", step)
		seen[step] = true
	}
}

func TestRunType(t *testing.T) {
	score := 72.5
	run := Run{
		JobTitle:   "Platform Engineer",
		Status:     StatusCompleted,
		MatchScore: &score,
	}

	assert.Equal(t, "Platform Engineer", run.JobTitle)
	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, 72.5, *run.MatchScore)
	assert.Nil(t, run.CompletedAt)
}
