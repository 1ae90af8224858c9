// Package pii detects and redacts personally identifiable information in
// resume text using regex matchers. The scoring pipeline only logs entity
// counts; redaction is offered for sharing exports.
package pii

import (
	"regexp"
	"sort"
	"strings"
)

// Entity is one detected PII occurrence.
type Entity struct {
	EntityType string  `json:"entity_type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// matcher pairs an entity type with its pattern, match confidence, and
// redaction placeholder.
type matcher struct {
	entityType  string
	pattern     *regexp.Regexp
	score       float64
	placeholder string
}

var matchers = []matcher{
	{
		entityType:  "EMAIL_ADDRESS",
		pattern:     regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		score:       0.95,
		placeholder: "[EMAIL]",
	},
	{
		entityType:  "PHONE_NUMBER",
		pattern:     regexp.MustCompile(`\b(?:\+?1[-. ]?)?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}\b`),
		score:       0.85,
		placeholder: "[PHONE]",
	},
	{
		entityType:  "US_SSN",
		pattern:     regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		score:       0.9,
		placeholder: "[SSN]",
	},
	{
		entityType:  "CREDIT_CARD",
		pattern:     regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`),
		score:       0.6,
		placeholder: "[CREDIT_CARD]",
	},
	{
		entityType:  "IP_ADDRESS",
		pattern:     regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		score:       0.8,
		placeholder: "[IP]",
	},
	{
		entityType:  "URL",
		pattern:     regexp.MustCompile(`https?://\S+|www\.\S+`),
		score:       0.9,
		placeholder: "[URL]",
	},
}

// Detect finds PII entities in text, ordered by position.
func Detect(text string) []Entity {
	var entities []Entity
	for _, m := range matchers {
		for _, loc := range m.pattern.FindAllStringIndex(text, -1) {
			entities = append(entities, Entity{
				EntityType: m.entityType,
				Start:      loc[0],
				End:        loc[1],
				Score:      m.score,
				Text:       text[loc[0]:loc[1]],
			})
		}
	}

	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].End > entities[j].End
	})

	return entities
}

// RedactionResult summarizes a redaction pass.
type RedactionResult struct {
	OriginalText  string   `json:"original_text"`
	RedactedText  string   `json:"redacted_text"`
	ItemsRedacted int      `json:"items_redacted"`
	PIITypes      []string `json:"pii_types"`
}

// Redact replaces every detected entity with its type placeholder.
func Redact(text string) RedactionResult {
	entities := Detect(text)

	redacted := replaceEntities(text, entities)

	seen := make(map[string]bool)
	var piiTypes []string
	for _, entity := range entities {
		if !seen[entity.EntityType] {
			seen[entity.EntityType] = true
			piiTypes = append(piiTypes, entity.EntityType)
		}
	}

	return RedactionResult{
		OriginalText:  text,
		RedactedText:  redacted,
		ItemsRedacted: len(entities),
		PIITypes:      piiTypes,
	}
}

// replaceEntities substitutes placeholders right to left so earlier offsets
// stay valid. Overlapping entities keep the first (longest) match.
func replaceEntities(text string, entities []Entity) string {
	placeholders := make(map[string]string, len(matchers))
	for _, m := range matchers {
		placeholders[m.entityType] = m.placeholder
	}

	kept := entities[:0:0]
	lastEnd := -1
	for _, entity := range entities {
		if entity.Start < lastEnd {
			continue
		}
		kept = append(kept, entity)
		lastEnd = entity.End
	}

	var sb strings.Builder
	cursor := 0
	for _, entity := range kept {
		sb.WriteString(text[cursor:entity.Start])
		sb.WriteString(placeholders[entity.EntityType])
		cursor = entity.End
	}
	sb.WriteString(text[cursor:])
	return sb.String()
}
