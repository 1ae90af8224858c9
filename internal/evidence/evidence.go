// Package evidence derives literal quoted spans from the resume and job
// text that justify each score component. It is purely extractive; every
// quote is a verbatim substring of its source document.
package evidence

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const (
	// contextWindow is the number of characters captured on each side of
	// a skill occurrence.
	contextWindow = 100
	// maxQuoteLength bounds a quote before the ellipsis is applied.
	maxQuoteLength = 200
)

// Build assembles evidence items for a match result. Matched skills come
// first in overlap order, then the scoring engine's semantic evidence in
// discovery order. A skill item is only emitted when a context quote was
// found in both documents.
func Build(resume, jd *types.SectionedDocument, match *types.MatchResult) []types.EvidenceItem {
	var items []types.EvidenceItem

	for _, skill := range match.SkillOverlap.Matched {
		resumeQuote := findSkillContext(skill.Name, resume.RawText)
		jdQuote := findSkillContext(skill.Name, jd.RawText)
		if resumeQuote == "" || jdQuote == "" {
			continue
		}

		items = append(items, types.EvidenceItem{
			Type:        types.EvidenceSkillMatch,
			SkillID:     skill.SkillID,
			Skill:       skill.Name,
			ResumeQuote: resumeQuote,
			JDQuote:     jdQuote,
			Confidence:  skill.Confidence,
		})
	}

	for _, sem := range match.SemanticEvidence {
		items = append(items, types.EvidenceItem{
			Type:          types.EvidenceSemanticMatch,
			Requirement:   sem.Requirement,
			ResumeSection: sem.MatchedSection,
			ResumeQuote:   sem.MatchedText,
			Similarity:    sem.Similarity,
		})
	}

	return items
}

// findSkillContext returns the text surrounding the first case-insensitive
// whole-word occurrence of skillName, or "" when the skill does not occur.
func findSkillContext(skillName, text string) string {
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(skillName) + `\b`)
	if err != nil {
		return ""
	}

	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	start := loc[0] - contextWindow
	if start < 0 {
		start = 0
	}
	end := loc[1] + contextWindow
	if end > len(text) {
		end = len(text)
	}

	quote := strings.TrimSpace(text[start:end])
	if len(quote) > maxQuoteLength {
		quote = quote[:maxQuoteLength] + "..."
	}

	return quote
}

// Citation renders a one-line human-readable description of an item.
func Citation(item types.EvidenceItem) string {
	switch item.Type {
	case types.EvidenceSkillMatch:
		return fmt.Sprintf("Skill %q found in resume and matches a job requirement", item.Skill)
	case types.EvidenceSemanticMatch:
		return fmt.Sprintf("Resume section %q semantically matches a job requirement", item.ResumeSection)
	default:
		return ""
	}
}
