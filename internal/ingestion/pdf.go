// Package ingestion normalizes raw resume and job-description input into
// SectionedDocuments for the scoring pipeline.
package ingestion

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-tailor/internal/types"
)

// columnGapThreshold is the horizontal gap, in PDF points, that suggests a
// multi-column layout.
const columnGapThreshold = 100.0

// ParseResumePDF extracts text from PDF bytes and normalizes it into a
// sectioned resume document. Layout oddities are reported as human-readable
// warnings, never as errors.
func ParseResumePDF(data []byte) (*types.SectionedDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var pages []string
	var warnings []string

	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		if detectColumns(page) {
			warnings = append(warnings, fmt.Sprintf("Multi-column layout detected on page %d", pageNum))
		}

		text, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(text) == "" {
			warnings = append(warnings, fmt.Sprintf("No extractable text on page %d", pageNum))
			continue
		}
		pages = append(pages, text)
	}

	rawText := strings.Join(pages, "\n")
	if strings.TrimSpace(rawText) == "" {
		return nil, fmt.Errorf("PDF contains no extractable text")
	}

	doc := ParseResumeText(rawText)
	doc.LayoutWarnings = warnings
	return doc, nil
}

// detectColumns flags pages whose text runs cluster into horizontally
// separated groups.
func detectColumns(page pdf.Page) bool {
	content := page.Content()
	if len(content.Text) < 2 {
		return false
	}

	xs := make([]float64, 0, len(content.Text))
	for _, text := range content.Text {
		xs = append(xs, text.X)
	}
	sort.Float64s(xs)

	for i := 1; i < len(xs); i++ {
		if xs[i]-xs[i-1] > columnGapThreshold {
			return true
		}
	}
	return false
}
