package guard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/semantic"
	"github.com/jonathan/resume-tailor/internal/types"
)

// fakeClassifier marks configured premise substrings as contradictions.
type fakeClassifier struct {
	contradicts map[string]float64 // premise substring -> confidence
	err         error
}

func (f *fakeClassifier) Classify(_ context.Context, premise, _ string) (semantic.NLIResult, error) {
	if f.err != nil {
		return semantic.NLIResult{}, f.err
	}
	for fragment, confidence := range f.contradicts {
		if strings.Contains(premise, fragment) {
			return semantic.NLIResult{Label: semantic.LabelContradiction, Confidence: confidence}, nil
		}
	}
	return semantic.NLIResult{Label: semantic.LabelNeutral, Confidence: 0.9}, nil
}

func TestExtractFacts(t *testing.T) {
	text := "Managed a team of 12 engineers. Great person. " +
		"Cut infrastructure spend by 30 percent in 2024. Led many projects without numbers."

	facts := ExtractFacts(text)

	require.Len(t, facts, 2)
	assert.Equal(t, types.ResumeFact("Managed a team of 12 engineers"), facts[0])
	assert.Contains(t, string(facts[1]), "30 percent in 2024")
}

func TestExtractFacts_ShortOrDigitless(t *testing.T) {
	assert.Empty(t, ExtractFacts("Led 9 people.")) // too short
	assert.Empty(t, ExtractFacts("Led several teams over many years."))
	assert.Empty(t, ExtractFacts(""))
}

func TestCheckAgainstFacts_DetectsContradiction(t *testing.T) {
	g := New(&fakeClassifier{contradicts: map[string]float64{"team of 12": 0.92}}, DefaultPolicy())
	facts := []types.ResumeFact{
		"Managed a team of 12 engineers",
		"Shipped 3 products in 2024",
	}

	result, err := g.CheckAgainstFacts(context.Background(), facts, "Never managed anyone")

	require.NoError(t, err)
	assert.True(t, result.HasContradiction)
	require.Len(t, result.Contradictions, 1)
	assert.Equal(t, types.ResumeFact("Managed a team of 12 engineers"), result.Contradictions[0].ResumeFact)
	assert.InDelta(t, -0.05, result.Penalty, 1e-9)
}

func TestCheckAgainstFacts_LowConfidenceIgnored(t *testing.T) {
	g := New(&fakeClassifier{contradicts: map[string]float64{"team of 12": 0.6}}, DefaultPolicy())

	result, err := g.CheckAgainstFacts(context.Background(),
		[]types.ResumeFact{"Managed a team of 12 engineers"}, "Never managed anyone")

	require.NoError(t, err)
	assert.False(t, result.HasContradiction)
	assert.Zero(t, result.Penalty)
}

func TestCheckAgainstFacts_PenaltyScalesWithHits(t *testing.T) {
	g := New(&fakeClassifier{contradicts: map[string]float64{"12": 0.9, "2024": 0.8}}, DefaultPolicy())
	facts := []types.ResumeFact{
		"Managed a team of 12 engineers",
		"Shipped 3 products in 2024",
	}

	result, err := g.CheckAgainstFacts(context.Background(), facts, "Did nothing at all")

	require.NoError(t, err)
	require.Len(t, result.Contradictions, 2)
	assert.InDelta(t, -0.10, result.Penalty, 1e-9)
}

func TestCheckAgainstFacts_NoFacts(t *testing.T) {
	g := New(&fakeClassifier{}, DefaultPolicy())

	result, err := g.CheckAgainstFacts(context.Background(), nil, "Anything goes")

	require.NoError(t, err)
	assert.False(t, result.HasContradiction)
	assert.Zero(t, result.Penalty)
}

func TestCheckAgainstFacts_ClassifierError(t *testing.T) {
	g := New(&fakeClassifier{err: errors.New("backend down")}, DefaultPolicy())

	_, err := g.CheckAgainstFacts(context.Background(),
		[]types.ResumeFact{"Managed a team of 12 engineers"}, "proposal")

	assert.Error(t, err)
}

func TestCustomPolicy(t *testing.T) {
	policy := Policy{ConfidenceThreshold: 0.5, PenaltyPerHit: -0.2}
	g := New(&fakeClassifier{contradicts: map[string]float64{"12": 0.6}}, policy)

	result, err := g.CheckAgainstFacts(context.Background(),
		[]types.ResumeFact{"Managed a team of 12 engineers"}, "Never managed anyone")

	require.NoError(t, err)
	assert.True(t, result.HasContradiction)
	assert.InDelta(t, -0.2, result.Penalty, 1e-9)
}
