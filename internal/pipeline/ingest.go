package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/types"
)

// LoadResume reads and parses a resume file. PDF files go through layout
// analysis; everything else is treated as plain text.
func LoadResume(path string) (*types.SectionedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		doc, err := ingestion.ParseResumePDF(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse resume PDF: %w", err)
		}
		return doc, nil
	}
	return ingestion.ParseResumeText(string(data)), nil
}

// LoadJob parses a job description from a local file or a URL. Exactly one
// of jobPath and jobURL must be set.
func LoadJob(ctx context.Context, jobPath, jobURL string, useBrowser, verbose bool) (*types.SectionedDocument, error) {
	switch {
	case jobURL != "":
		return ingestion.IngestJDFromURL(ctx, jobURL, useBrowser, verbose)
	case jobPath != "":
		data, err := os.ReadFile(jobPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read job file %s: %w", jobPath, err)
		}
		return ingestion.ProcessJDText(string(data)), nil
	default:
		return nil, fmt.Errorf("either a job file or a job URL is required")
	}
}
