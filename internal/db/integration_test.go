//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	database, err := Connect(context.Background(), url)
	require.NoError(t, err)
	return database
}

func TestIntegration_RunLifecycle(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()
	ctx := context.Background()

	runID, err := database.CreateRun(ctx, "Backend Engineer", "https://example.com/job")
	require.NoError(t, err)
	defer func() { _ = database.DeleteRun(ctx, runID) }()

	run, err := database.GetRun(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, StatusRunning, run.Status)
	assert.Nil(t, run.MatchScore)

	score := 68.25
	require.NoError(t, database.CompleteRun(ctx, runID, StatusCompleted, &score))

	run, err = database.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, run.Status)
	require.NotNil(t, run.MatchScore)
	assert.Equal(t, score, *run.MatchScore)
	assert.NotNil(t, run.CompletedAt)
}

func TestIntegration_Artifacts(t *testing.T) {
	database := getTestDB(t)
	defer database.Close()
	ctx := context.Background()

	runID, err := database.CreateRun(ctx, "Backend Engineer", "")
	require.NoError(t, err)
	defer func() { _ = database.DeleteRun(ctx, runID) }()

	result := types.MatchResult{MatchScore: 61.5}
	require.NoError(t, database.SaveArtifact(ctx, runID, StepMatchResult, result))

	loaded, err := database.GetMatchResultByRunID(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 61.5, loaded.MatchScore)

	// Upsert replaces the previous artifact for the same step
	result.MatchScore = 70.0
	require.NoError(t, database.SaveArtifact(ctx, runID, StepMatchResult, result))
	loaded, err = database.GetMatchResultByRunID(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, loaded.MatchScore)

	require.NoError(t, database.SaveTextArtifact(ctx, runID, StepATSExport, "EXPERIENCE\n..."))
	text, err := database.GetTextArtifact(ctx, runID, StepATSExport)
	require.NoError(t, err)
	assert.Contains(t, text, "EXPERIENCE")

	missing, err := database.GetSuggestionsByRunID(ctx, runID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
