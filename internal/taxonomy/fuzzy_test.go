package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRatio(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"identical", "python", "python", 1.0},
		{"case insensitive", "Python", "python", 1.0},
		{"empty left", "", "python", 0.0},
		{"empty right", "python", "", 0.0},
		{"single deletion", "kubernets", "kubernetes", 0.9},
		{"unrelated", "zzzz", "python", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, matchRatio(tt.a, tt.b), 0.01)
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("go", "go"))
	assert.Equal(t, 1, levenshtein("go", "gos"))
	assert.Equal(t, 3, levenshtein("kitten", "sitting"))
	assert.Equal(t, 6, levenshtein("", "python"))
}

func TestCandidatePhrases(t *testing.T) {
	phrases := candidatePhrases("Led the machine learning team")

	assert.Contains(t, phrases, "machine learning")
	assert.Contains(t, phrases, "machine learning team")
	// Windows framed by stopwords are discarded
	assert.NotContains(t, phrases, "the machine")
}

func TestCandidatePhrases_KeepsTechTokens(t *testing.T) {
	phrases := candidatePhrases("Shipped services in C++ and node.js")

	assert.Contains(t, phrases, "c++")
	assert.Contains(t, phrases, "node.js")
}
