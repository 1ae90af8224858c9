// Package types provides type definitions for structured data used throughout the resume-tailor system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Section is a titled block of document content. Content holds the ordered
// lines or bullets that appeared under the title.
type Section struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// Text returns the section content joined into a single string.
func (s *Section) Text() string {
	return strings.Join(s.Content, " ")
}

// SectionedDocument is the normalized form of a resume or job description as
// produced by the ingestion layer. The core treats it as read-only input.
type SectionedDocument struct {
	RawText        string    `json:"raw_text"`
	Sections       []Section `json:"sections"`
	Requirements   []string  `json:"requirements,omitempty"`    // Job descriptions only
	LayoutWarnings []string  `json:"layout_warnings,omitempty"` // Human-readable ingestion warnings
}

// ContentItems returns every content line across all sections in order.
func (d *SectionedDocument) ContentItems() []string {
	var items []string
	for _, section := range d.Sections {
		items = append(items, section.Content...)
	}
	return items
}
