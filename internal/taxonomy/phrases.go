package taxonomy

import (
	"strings"
	"unicode"
)

// maxPhraseTokens bounds candidate phrases to short noun-phrase-like spans.
const maxPhraseTokens = 3

// phraseStopwords are tokens that cannot start or end a candidate phrase.
var phraseStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "with": true,
	"by": true, "as": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "has": true, "have": true, "had": true,
	"i": true, "my": true, "our": true, "their": true, "this": true, "that": true,
}

// candidatePhrases extracts short lowercased token spans from text for the
// fuzzy taxonomy pass. This is a lightweight stand-in for full noun-phrase
// chunking: contiguous word tokens are windowed up to maxPhraseTokens, and
// windows framed by stopwords are discarded.
func candidatePhrases(text string) []string {
	tokens := tokenize(text)

	var phrases []string
	seen := make(map[string]bool)
	for i := range tokens {
		for width := 1; width <= maxPhraseTokens && i+width <= len(tokens); width++ {
			window := tokens[i : i+width]
			if phraseStopwords[window[0]] || phraseStopwords[window[len(window)-1]] {
				continue
			}
			phrase := strings.Join(window, " ")
			if len(phrase) < 3 || seen[phrase] {
				continue
			}
			seen[phrase] = true
			phrases = append(phrases, phrase)
		}
	}

	return phrases
}

// tokenize lowercases and splits text into word tokens, keeping characters
// common in technology names (+, #, ., -).
func tokenize(text string) []string {
	isWordRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) ||
			r == '+' || r == '#' || r == '.' || r == '-'
	}

	var tokens []string
	var current strings.Builder
	for _, r := range strings.ToLower(text) {
		if isWordRune(r) {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, strings.Trim(current.String(), ".-"))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, strings.Trim(current.String(), ".-"))
	}

	filtered := tokens[:0]
	for _, token := range tokens {
		if token != "" {
			filtered = append(filtered, token)
		}
	}
	return filtered
}
