// Package render applies accepted suggestions to a resume and renders the
// result as plain ATS-style text.
package render

import (
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// ApplySuggestions returns a copy of the document with each accepted
// suggestion substituted into section content. Per content item the first
// suggestion whose Before occurs wins; every occurrence of that Before is
// replaced. The input document is not modified.
func ApplySuggestions(doc *types.SectionedDocument, suggestions []types.Suggestion) *types.SectionedDocument {
	applied := &types.SectionedDocument{
		RawText:        doc.RawText,
		Requirements:   doc.Requirements,
		LayoutWarnings: doc.LayoutWarnings,
	}

	for _, section := range doc.Sections {
		modified := types.Section{Title: section.Title}
		for _, item := range section.Content {
			modified.Content = append(modified.Content, applyFirstMatch(item, suggestions))
		}
		applied.Sections = append(applied.Sections, modified)
	}

	return applied
}

func applyFirstMatch(item string, suggestions []types.Suggestion) string {
	for _, suggestion := range suggestions {
		if suggestion.Before == "" {
			continue
		}
		if strings.Contains(item, suggestion.Before) {
			return strings.ReplaceAll(item, suggestion.Before, suggestion.After)
		}
	}
	return item
}

// ATSText renders the document with suggestions applied as plain text with
// uppercase section headers, the format applicant tracking systems parse
// most reliably.
func ATSText(doc *types.SectionedDocument, suggestions []types.Suggestion) string {
	applied := ApplySuggestions(doc, suggestions)

	var lines []string
	for _, section := range applied.Sections {
		if title := strings.ToUpper(section.Title); title != "" {
			lines = append(lines, title, "")
		}
		lines = append(lines, section.Content...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
