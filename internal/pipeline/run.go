package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/types"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for one end-to-end run
type RunOptions struct {
	ResumePath string
	JobPath    string
	JobURL     string
	UseBrowser bool
	Verbose    bool
	Suggest    bool // Also generate rewrite suggestions
	Export     bool // Also render the ATS text export
	OnProgress ProgressCallback
}

// RunResult collects everything a run produced.
type RunResult struct {
	RunID       *uuid.UUID               `json:"run_id,omitempty"`
	Resume      *types.SectionedDocument `json:"-"`
	Match       *types.MatchResult       `json:"match"`
	Evidence    []types.EvidenceItem     `json:"evidence"`
	Suggestions []types.Suggestion       `json:"suggestions,omitempty"`
	ATSText     string                   `json:"ats_text,omitempty"`
	PIITypes    []string                 `json:"pii_types,omitempty"`
	Warnings    []string                 `json:"warnings,omitempty"`
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, step, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{Step: step, Message: message, Content: content})
	}
}

// Run orchestrates the full analysis flow: ingest both documents, score,
// build evidence, and optionally suggest rewrites and export ATS text.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	fmt.Printf("Step 1/4: Ingesting resume from %s...\n", opts.ResumePath)
	resume, err := LoadResume(opts.ResumePath)
	if err != nil {
		return nil, fmt.Errorf("resume ingestion failed: %w", err)
	}
	for _, warning := range resume.LayoutWarnings {
		fmt.Printf("Warning: %s\n", warning)
	}
	emitProgress(&opts, db.StepResume,
		fmt.Sprintf("Ingested resume with %d sections", len(resume.Sections)), nil)

	source := opts.JobURL
	if source == "" {
		source = opts.JobPath
	}
	fmt.Printf("Step 2/4: Ingesting job posting from %s...\n", source)
	jd, err := LoadJob(ctx, opts.JobPath, opts.JobURL, opts.UseBrowser, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("job ingestion failed: %w", err)
	}
	emitProgress(&opts, db.StepJobPosting,
		fmt.Sprintf("Ingested job posting with %d requirements", len(jd.Requirements)), nil)

	fmt.Printf("Step 3/4: Scoring resume against job description...\n")
	analysis, err := p.Analyze(ctx, resume, jd, opts.JobURL)
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	if opts.Verbose {
		fmt.Printf("[VERBOSE] Match score: %.2f (skills %.2f, semantic %.2f, seniority %.2f, recency %.2f)\n",
			analysis.Match.MatchScore,
			analysis.Match.Scores.SkillsExact,
			analysis.Match.Scores.SemanticFit,
			analysis.Match.Scores.SeniorityFit,
			analysis.Match.Scores.Recency)
	}
	emitProgress(&opts, db.StepMatchResult,
		fmt.Sprintf("Scored match at %.2f", analysis.Match.MatchScore), analysis.Match)

	result := &RunResult{
		RunID:    analysis.RunID,
		Resume:   resume,
		Match:    analysis.Match,
		Evidence: analysis.Evidence,
		PIITypes: analysis.PIITypes,
		Warnings: analysis.Warnings,
	}

	runID := uuid.Nil
	if analysis.RunID != nil {
		runID = *analysis.RunID
	}

	if opts.Suggest {
		fmt.Printf("Step 4/4: Generating rewrite suggestions...\n")
		suggested, err := p.Suggest(ctx, resume, jd, analysis.Match, runID)
		if err != nil {
			return nil, fmt.Errorf("suggestion generation failed: %w", err)
		}
		result.Suggestions = suggested.Suggestions
		result.Match = suggested.Match
		emitProgress(&opts, db.StepSuggestions,
			fmt.Sprintf("Generated %d suggestions", len(suggested.Suggestions)), nil)
	} else {
		fmt.Printf("Step 4/4: Skipping rewrite suggestions\n")
	}

	if opts.Export {
		result.ATSText = p.Export(ctx, resume, result.Suggestions, runID)
	}

	return result, nil
}
