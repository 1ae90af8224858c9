package ingestion

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/types"
)

// browserTimeout bounds headless rendering for JavaScript-heavy job boards.
const browserTimeout = 30 * time.Second

// IngestJDFromURL fetches a job posting URL and normalizes it into a
// sectioned document. Platform detection picks selectors that strip
// application forms and legal boilerplate. Pages that render client-side
// fall back to a headless browser when useBrowser is set.
func IngestJDFromURL(ctx context.Context, urlStr string, useBrowser, verbose bool) (*types.SectionedDocument, error) {
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s", urlStr)
		log.Printf("[VERBOSE] Detected platform: %s", platform)
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job posting: %w", err)
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, fmt.Errorf("failed to extract job posting text: %w", err)
	}

	var warnings []string
	if useBrowser && fetch.ShouldUseBrowser(text) {
		if verbose {
			log.Printf("[VERBOSE] Content too short (%d chars < %d), falling back to browser rendering",
				len(text), fetch.MinContentLength)
		}

		html, browserErr := fetch.WithBrowser(ctx, urlStr, browserTimeout, verbose)
		if browserErr != nil {
			if verbose {
				log.Printf("[VERBOSE] Browser rendering failed: %v, using HTTP content", browserErr)
			}
		} else if rendered, extractErr := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...); extractErr == nil {
			text = rendered
			warnings = append(warnings, "Headless browser rendering used")
		}
	}

	if text == "" {
		return nil, fmt.Errorf("no text content found at %s", urlStr)
	}

	doc := ProcessJDText(text)
	doc.LayoutWarnings = warnings
	return doc, nil
}
