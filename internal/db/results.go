package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/types"
)

// GetMatchResultByRunID loads the stored match result for a run.
// Returns (nil, nil) when the run has no match result artifact.
func (db *DB) GetMatchResultByRunID(ctx context.Context, runID uuid.UUID) (*types.MatchResult, error) {
	content, err := db.GetArtifact(ctx, runID, StepMatchResult)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var result types.MatchResult
	if err := json.Unmarshal(content, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match result: %w", err)
	}
	return &result, nil
}

// GetEvidenceByRunID loads the stored evidence items for a run.
func (db *DB) GetEvidenceByRunID(ctx context.Context, runID uuid.UUID) ([]types.EvidenceItem, error) {
	content, err := db.GetArtifact(ctx, runID, StepEvidence)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var items []types.EvidenceItem
	if err := json.Unmarshal(content, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evidence: %w", err)
	}
	return items, nil
}

// GetSuggestionsByRunID loads the stored suggestions for a run.
func (db *DB) GetSuggestionsByRunID(ctx context.Context, runID uuid.UUID) ([]types.Suggestion, error) {
	content, err := db.GetArtifact(ctx, runID, StepSuggestions)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var suggestions []types.Suggestion
	if err := json.Unmarshal(content, &suggestions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestions: %w", err)
	}
	return suggestions, nil
}

// GetResumeByRunID loads the stored sectioned resume for a run.
func (db *DB) GetResumeByRunID(ctx context.Context, runID uuid.UUID) (*types.SectionedDocument, error) {
	content, err := db.GetArtifact(ctx, runID, StepResume)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var doc types.SectionedDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume: %w", err)
	}
	return &doc, nil
}

// GetJobPostingByRunID loads the stored sectioned job posting for a run.
func (db *DB) GetJobPostingByRunID(ctx context.Context, runID uuid.UUID) (*types.SectionedDocument, error) {
	content, err := db.GetArtifact(ctx, runID, StepJobPosting)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var doc types.SectionedDocument
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job posting: %w", err)
	}
	return &doc, nil
}
