package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
)

// NLILabel is the relationship of a hypothesis to a premise.
type NLILabel string

// Entailment labels.
const (
	LabelEntailment    NLILabel = "entailment"
	LabelNeutral       NLILabel = "neutral"
	LabelContradiction NLILabel = "contradiction"
)

// NLIResult is the outcome of classifying a premise/hypothesis pair.
type NLIResult struct {
	Label      NLILabel `json:"label"`
	Confidence float64  `json:"confidence"`
}

// Generator is the slice of the llm client the oracle needs for
// classification calls.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, opts llm.Options) (string, error)
}

const nliSystemInstruction = `You are a precise natural language inference classifier. ` +
	`Given a premise and a hypothesis, decide whether the hypothesis is entailed by, ` +
	`neutral toward, or contradicted by the premise. Respond with JSON only: ` +
	`{"label": "entailment"|"neutral"|"contradiction", "confidence": <0.0-1.0>}`

// Oracle answers semantic similarity and entailment questions. Similarity
// runs on embeddings; entailment runs on the generation chain as a
// structured classification call.
type Oracle struct {
	embedder  Embedder
	generator Generator
	tracer    *observability.Tracer
	metrics   *observability.Metrics
}

// NewOracle builds an oracle over the given embedder and generator.
func NewOracle(embedder Embedder, generator Generator, tracer *observability.Tracer, metrics *observability.Metrics) *Oracle {
	return &Oracle{
		embedder:  embedder,
		generator: generator,
		tracer:    tracer,
		metrics:   metrics,
	}
}

// Similarity returns the cosine similarity of the embeddings of two texts,
// in [-1, 1] and in practice [0, 1] for natural language.
func (o *Oracle) Similarity(ctx context.Context, a, b string) (float64, error) {
	vecA, err := o.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vecB, err := o.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(vecA, vecB), nil
}

// Embed returns the embedding for a text, counting the call in metrics.
func (o *Oracle) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := o.embedder.Embed(ctx, text)
	o.metrics.ObserveEmbeddingCall()
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}
	return vec, nil
}

// BestMatch returns the index and similarity of the candidate closest to
// the query. Returns index -1 when candidates is empty.
func (o *Oracle) BestMatch(ctx context.Context, query string, candidates []string) (int, float64, error) {
	ranked, err := o.Rerank(ctx, query, candidates, 1)
	if err != nil || len(ranked) == 0 {
		return -1, 0, err
	}
	return ranked[0].Index, ranked[0].Similarity, nil
}

// Classify determines whether hypothesis is entailed by, neutral toward,
// or contradicted by premise.
func (o *Oracle) Classify(ctx context.Context, premise, hypothesis string) (NLIResult, error) {
	prompt := fmt.Sprintf("Premise: %s\n\nHypothesis: %s", premise, hypothesis)

	done := o.tracer.Span("nli_classify", prompt, nil)
	raw, err := o.generator.GenerateJSON(ctx, prompt, llm.Options{
		SystemInstruction: nliSystemInstruction,
	})
	done(raw, err)
	if err != nil {
		return NLIResult{}, fmt.Errorf("classification failed: %w", err)
	}

	return parseNLIResult(raw)
}

// parseNLIResult validates and normalizes a classification response.
func parseNLIResult(raw string) (NLIResult, error) {
	var result NLIResult
	if err := json.Unmarshal([]byte(llm.ExtractJSONObject(raw)), &result); err != nil {
		return NLIResult{}, fmt.Errorf("failed to parse classification response: %w", err)
	}

	result.Label = NLILabel(strings.ToLower(strings.TrimSpace(string(result.Label))))
	switch result.Label {
	case LabelEntailment, LabelNeutral, LabelContradiction:
	default:
		// An off-vocabulary label carries no signal; treat it as neutral.
		result.Label = LabelNeutral
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return result, nil
}
