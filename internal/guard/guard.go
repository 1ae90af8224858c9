// Package guard decides whether proposed resume text contradicts facts
// already stated in the resume. It is the grounding gate for generated
// suggestions: anything that conflicts with a verifiable claim is blocked.
package guard

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/jonathan/resume-tailor/internal/semantic"
	"github.com/jonathan/resume-tailor/internal/types"
)

// minFactLength is the shortest sentence considered a fact candidate.
const minFactLength = 20

// Policy holds the tunable thresholds for contradiction detection.
type Policy struct {
	// ConfidenceThreshold is the minimum classifier confidence for a
	// contradiction label to count.
	ConfidenceThreshold float64
	// PenaltyPerHit is the (negative) score adjustment per confirmed
	// contradiction.
	PenaltyPerHit float64
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{
		ConfidenceThreshold: 0.7,
		PenaltyPerHit:       -0.05,
	}
}

// Contradiction records one fact/proposal pair judged incompatible.
type Contradiction struct {
	ResumeFact types.ResumeFact `json:"resume_fact"`
	Suggestion string           `json:"suggestion"`
	Confidence float64          `json:"confidence"`
}

// CheckResult is the outcome of screening a proposal against resume facts.
type CheckResult struct {
	HasContradiction bool            `json:"has_contradiction"`
	Contradictions   []Contradiction `json:"contradictions"`
	Penalty          float64         `json:"penalty"`
}

// Classifier is the entailment capability the guard needs.
type Classifier interface {
	Classify(ctx context.Context, premise, hypothesis string) (semantic.NLIResult, error)
}

// Guard screens proposed text against extracted resume facts.
type Guard struct {
	classifier Classifier
	policy     Policy
}

// New creates a guard with the given classifier and policy.
func New(classifier Classifier, policy Policy) *Guard {
	return &Guard{classifier: classifier, policy: policy}
}

// ExtractFacts splits text into sentences and keeps those long enough to
// carry meaning and containing at least one digit. Digits are a proxy for
// verifiable claims such as dates, counts, and percentages.
func ExtractFacts(text string) []types.ResumeFact {
	var facts []types.ResumeFact
	for _, sentence := range strings.Split(text, ".") {
		sentence = strings.TrimSpace(sentence)
		if len(sentence) > minFactLength && containsDigit(sentence) {
			facts = append(facts, types.ResumeFact(sentence))
		}
	}
	return facts
}

// CheckAgainstFacts classifies the proposed text against every fact. A pair
// counts as a contradiction when the classifier labels it contradiction with
// confidence above the policy threshold. Classifier failures on individual
// facts are returned as errors; the caller decides whether to degrade.
func (g *Guard) CheckAgainstFacts(ctx context.Context, facts []types.ResumeFact, proposal string) (CheckResult, error) {
	result := CheckResult{}

	for _, fact := range facts {
		classification, err := g.classifier.Classify(ctx, string(fact), proposal)
		if err != nil {
			return CheckResult{}, fmt.Errorf("contradiction check failed: %w", err)
		}

		if classification.Label == semantic.LabelContradiction && classification.Confidence > g.policy.ConfidenceThreshold {
			result.Contradictions = append(result.Contradictions, Contradiction{
				ResumeFact: fact,
				Suggestion: proposal,
				Confidence: classification.Confidence,
			})
		}
	}

	result.HasContradiction = len(result.Contradictions) > 0
	if result.HasContradiction {
		result.Penalty = g.policy.PenaltyPerHit * float64(len(result.Contradictions))
	}

	return result, nil
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
