package matching

import "fmt"

// weightTolerance is the allowed deviation from 1.0 for the weight sum.
const weightTolerance = 0.01

// Weights are the relative contributions of each sub-score to the final
// match score.
type Weights struct {
	SkillsExact  float64 `json:"skills_exact"`
	SemanticFit  float64 `json:"semantic_fit"`
	SeniorityFit float64 `json:"seniority_fit"`
	Recency      float64 `json:"recency"`
}

// DefaultWeights returns the standard signal weighting.
func DefaultWeights() Weights {
	return Weights{
		SkillsExact:  0.40,
		SemanticFit:  0.35,
		SeniorityFit: 0.15,
		Recency:      0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.SkillsExact + w.SemanticFit + w.SeniorityFit + w.Recency
}

// Validate checks that every weight is non-negative and the sum is 1.0
// within tolerance.
func (w Weights) Validate() error {
	if w.SkillsExact < 0 || w.SemanticFit < 0 || w.SeniorityFit < 0 || w.Recency < 0 {
		return fmt.Errorf("weights must be non-negative")
	}
	sum := w.Sum()
	if sum < 1.0-weightTolerance || sum > 1.0+weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}
