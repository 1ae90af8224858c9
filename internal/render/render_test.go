package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func sampleDoc() *types.SectionedDocument {
	return &types.SectionedDocument{
		RawText: "raw",
		Sections: []types.Section{
			{Title: "experience", Content: []string{
				"Built deployment tooling for 30 services.",
				"Led a platform rewrite.",
			}},
			{Title: "skills", Content: []string{"Go, Python"}},
		},
	}
}

func TestApplySuggestions_ReplacesMatchingItem(t *testing.T) {
	doc := sampleDoc()
	suggestions := []types.Suggestion{
		{Before: "deployment tooling", After: "Docker deployment tooling"},
	}

	applied := ApplySuggestions(doc, suggestions)

	assert.Equal(t, "Built Docker deployment tooling for 30 services.", applied.Sections[0].Content[0])
	assert.Equal(t, "Led a platform rewrite.", applied.Sections[0].Content[1])
}

func TestApplySuggestions_FirstMatchWinsPerItem(t *testing.T) {
	doc := sampleDoc()
	suggestions := []types.Suggestion{
		{Before: "platform rewrite", After: "data platform rewrite"},
		{Before: "Led a", After: "Directed a"},
	}

	applied := ApplySuggestions(doc, suggestions)

	// The first suggestion matching the item applies; later ones do not.
	assert.Equal(t, "Led a data platform rewrite.", applied.Sections[0].Content[1])
}

func TestApplySuggestions_DoesNotMutateInput(t *testing.T) {
	doc := sampleDoc()
	original := doc.Sections[0].Content[0]

	_ = ApplySuggestions(doc, []types.Suggestion{{Before: "tooling", After: "systems"}})

	assert.Equal(t, original, doc.Sections[0].Content[0])
}

func TestApplySuggestions_EmptyBeforeSkipped(t *testing.T) {
	doc := sampleDoc()

	applied := ApplySuggestions(doc, []types.Suggestion{{Before: "", After: "junk"}})

	assert.Equal(t, doc.Sections[0].Content, applied.Sections[0].Content)
}

func TestATSText_Format(t *testing.T) {
	text := ATSText(sampleDoc(), nil)

	assert.Contains(t, text, "EXPERIENCE")
	assert.Contains(t, text, "SKILLS")
	assert.Contains(t, text, "Built deployment tooling for 30 services.")
	assert.Less(t, strings.Index(text, "EXPERIENCE"), strings.Index(text, "SKILLS"))
}

func TestATSText_AppliesSuggestions(t *testing.T) {
	text := ATSText(sampleDoc(), []types.Suggestion{
		{Before: "Go, Python", After: "Go, Python, Kubernetes"},
	})

	require.Contains(t, text, "Go, Python, Kubernetes")
}
