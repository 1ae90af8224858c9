package types

import "strings"

// ResumeFact is a literal sentence or bullet extracted from the resume,
// retained verbatim. Facts are the sole permissible justification for any
// generated text.
type ResumeFact string

// SuggestionType classifies why a rewrite was proposed.
type SuggestionType string

// Suggestion type values.
const (
	SuggestionSkillAddition      SuggestionType = "skill_addition"
	SuggestionContentImprovement SuggestionType = "content_improvement"
)

// Suggestion is a validated rewrite proposal. Before must be a non-empty
// literal substring of the normalized resume content at acceptance time;
// a suggestion failing that check is never returned to callers.
type Suggestion struct {
	Before     string         `json:"before"`
	After      string         `json:"after"`
	Reasoning  string         `json:"reasoning"`
	Confidence float64        `json:"confidence"`
	GroundedBy []int          `json:"grounded_by"`
	Type       SuggestionType `json:"type"`
	SkillID    string         `json:"skill_id,omitempty"`
}

// OccursIn reports whether the suggestion's Before text literally occurs in
// any of the document's content items.
func (s *Suggestion) OccursIn(doc *SectionedDocument) bool {
	if s.Before == "" {
		return false
	}
	if strings.Contains(doc.RawText, s.Before) {
		return true
	}
	for _, item := range doc.ContentItems() {
		if strings.Contains(item, s.Before) {
			return true
		}
	}
	return false
}
