// Package rewrite proposes grounded edits to a resume that address missing
// skills and weak semantic matches. Every proposal is screened against the
// resume's own facts before it is surfaced; the caller only ever observes
// accepted suggestions.
package rewrite

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/guard"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/semantic"
	"github.com/jonathan/resume-tailor/internal/types"
)

// maxPromptFacts bounds how many resume facts are included in a prompt.
const maxPromptFacts = 10

// maxJobContextLength bounds the job description excerpt in prompts.
const maxJobContextLength = 500

// minGroundingFactLength filters out trivially short content lines.
const minGroundingFactLength = 20

// Policy holds the tunable generation and acceptance limits.
type Policy struct {
	// MaxSkillTargets caps generation calls for missing skills.
	MaxSkillTargets int
	// MaxSemanticTargets caps generation calls for weak semantic matches.
	MaxSemanticTargets int
	// WeakSimilarityThreshold marks a semantic match as worth improving.
	WeakSimilarityThreshold float64
	// ConfidenceFloor rejects proposals the model itself is unsure about.
	ConfidenceFloor float64
}

// DefaultPolicy returns the standard generation limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxSkillTargets:         5,
		MaxSemanticTargets:      3,
		WeakSimilarityThreshold: 0.7,
		ConfidenceFloor:         0.3,
	}
}

// Generator is the slice of the llm chain the agent needs.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, opts llm.Options) (string, error)
}

// FactChecker screens proposed text against resume facts.
type FactChecker interface {
	CheckAgainstFacts(ctx context.Context, facts []types.ResumeFact, proposal string) (guard.CheckResult, error)
}

// Reranker orders candidate texts by relevance to a query. Optional; a nil
// reranker keeps prompt facts in resume order.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []string, topK int) ([]semantic.RankedCandidate, error)
}

// Agent orchestrates per-target generation and validation.
type Agent struct {
	generator Generator
	checker   FactChecker
	reranker  Reranker
	tracer    *observability.Tracer
	metrics   *observability.Metrics
	policy    Policy
}

// NewAgent creates a rewrite agent.
func NewAgent(generator Generator, checker FactChecker, reranker Reranker, tracer *observability.Tracer, metrics *observability.Metrics, policy Policy) *Agent {
	return &Agent{
		generator: generator,
		checker:   checker,
		reranker:  reranker,
		tracer:    tracer,
		metrics:   metrics,
		policy:    policy,
	}
}

// target is one unit of generation work.
type target struct {
	kind     types.SuggestionType
	skill    types.DetectedSkill
	evidence types.SemanticEvidence
}

// Result pairs the accepted suggestions with the contradiction screening
// outcome across every drafted proposal, accepted or not.
type Result struct {
	Suggestions       []types.Suggestion
	ContradictionHits int
	// Penalty is the accumulated contradiction penalty, <= 0, on the
	// sub-score scale.
	Penalty float64
}

// GenerateSuggestions proposes validated rewrites for the match result's
// missing skills and weak semantic matches.
func (a *Agent) GenerateSuggestions(ctx context.Context, resume, jd *types.SectionedDocument, match *types.MatchResult) ([]types.Suggestion, error) {
	result, err := a.Generate(ctx, resume, jd, match)
	if err != nil {
		return nil, err
	}
	return result.Suggestions, nil
}

// Generate proposes validated rewrites for the match result's missing
// skills and weak semantic matches. Targets are generated concurrently; a
// failing provider call drops that target only, never the batch. Results
// preserve target order regardless of completion order.
func (a *Agent) Generate(ctx context.Context, resume, jd *types.SectionedDocument, match *types.MatchResult) (*Result, error) {
	groundingFacts := extractGroundingFacts(resume)
	digitFacts := guard.ExtractFacts(resume.RawText)
	targets := a.selectTargets(match)

	accepted := make([]*types.Suggestion, len(targets))
	checks := make([]guard.CheckResult, len(targets))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, tgt := range targets {
		group.Go(func() error {
			proposal := a.draft(groupCtx, tgt, groundingFacts, jd)
			if proposal == nil {
				return nil
			}
			if a.validate(groupCtx, proposal, resume, digitFacts, &checks[i]) {
				accepted[i] = proposal
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, suggestion := range accepted {
		if suggestion != nil {
			result.Suggestions = append(result.Suggestions, *suggestion)
		}
		result.ContradictionHits += len(checks[i].Contradictions)
		result.Penalty += checks[i].Penalty
	}
	return result, nil
}

// selectTargets picks up to MaxSkillTargets missing skills in overlap order
// and up to MaxSemanticTargets weak semantic matches in evidence order.
func (a *Agent) selectTargets(match *types.MatchResult) []target {
	var targets []target

	for _, skill := range match.SkillOverlap.Missing {
		if len(targets) >= a.policy.MaxSkillTargets {
			break
		}
		targets = append(targets, target{kind: types.SuggestionSkillAddition, skill: skill})
	}

	semanticCount := 0
	for _, ev := range match.SemanticEvidence {
		if semanticCount >= a.policy.MaxSemanticTargets {
			break
		}
		if ev.Similarity >= a.policy.WeakSimilarityThreshold {
			continue
		}
		targets = append(targets, target{kind: types.SuggestionContentImprovement, evidence: ev})
		semanticCount++
	}

	return targets
}

// rawProposal is the provider's structured output before validation.
type rawProposal struct {
	Before     string   `json:"before"`
	After      string   `json:"after"`
	Reasoning  string   `json:"reasoning"`
	Confidence *float64 `json:"confidence"`
}

// draft issues one generation call for a target. Any failure (provider
// error, unparsable output, schema violation, explicit null) yields nil;
// per-target failures never abort the batch.
func (a *Agent) draft(ctx context.Context, tgt target, facts []string, jd *types.SectionedDocument) *types.Suggestion {
	var systemPrompt, userPrompt string
	switch tgt.kind {
	case types.SuggestionSkillAddition:
		factsJSON, err := json.MarshalIndent(a.relevantFacts(ctx, tgt.skill.Name, facts), "", "  ")
		if err != nil {
			return nil
		}
		systemPrompt = prompts.MustGet("rewrite.json", "skill-addition-system")
		userPrompt = prompts.Format(prompts.MustGet("rewrite.json", "skill-addition-user"), map[string]string{
			"Facts":      string(factsJSON),
			"SkillName":  tgt.skill.Name,
			"JobContext": truncateText(jd.RawText, maxJobContextLength),
		})
	case types.SuggestionContentImprovement:
		systemPrompt = prompts.MustGet("rewrite.json", "content-improvement-system")
		userPrompt = prompts.Format(prompts.MustGet("rewrite.json", "content-improvement-user"), map[string]string{
			"Content":     tgt.evidence.MatchedText,
			"Requirement": tgt.evidence.Requirement,
			"Similarity":  fmt.Sprintf("%.3f", tgt.evidence.Similarity),
		})
	default:
		return nil
	}

	done := a.tracer.Span("rewrite_draft", userPrompt, map[string]any{"type": string(tgt.kind)})
	raw, err := a.generator.GenerateJSON(ctx, userPrompt, llm.Options{SystemInstruction: systemPrompt})
	done(raw, err)
	if err != nil {
		a.metrics.ObserveSuggestion("provider_error")
		return nil
	}

	proposal, err := parseProposal(raw)
	if err != nil {
		a.metrics.ObserveSuggestion("unparsable")
		return nil
	}
	if proposal == nil {
		// Explicit null: the model could not ground the target.
		a.metrics.ObserveSuggestion("ungroundable")
		return nil
	}

	confidence := 0.5
	if proposal.Confidence != nil {
		confidence = *proposal.Confidence
	}

	suggestion := &types.Suggestion{
		Before:     proposal.Before,
		After:      proposal.After,
		Reasoning:  proposal.Reasoning,
		Confidence: confidence,
		GroundedBy: groundedBy(facts, proposal.Before),
		Type:       tgt.kind,
	}
	if tgt.kind == types.SuggestionSkillAddition {
		suggestion.SkillID = tgt.skill.SkillID
	}
	return suggestion
}

// parseProposal validates and decodes one structured response. A JSON null
// is returned as (nil, nil).
func parseProposal(raw string) (*rawProposal, error) {
	cleaned := strings.TrimSpace(llm.CleanJSONBlock(raw))
	if cleaned == "" || cleaned == "null" {
		return nil, nil
	}

	if err := schemas.ValidateJSONString(suggestionSchema, cleaned); err != nil {
		return nil, err
	}

	var proposal rawProposal
	if err := json.Unmarshal([]byte(cleaned), &proposal); err != nil {
		return nil, fmt.Errorf("failed to parse proposal: %w", err)
	}
	return &proposal, nil
}

// validate applies the acceptance rules: non-empty before and after, before
// literally present in the resume, confidence at or above the floor, and no
// contradiction with any resume fact. Rejections are silent. The screening
// outcome is written to check for the caller's penalty accounting.
func (a *Agent) validate(ctx context.Context, suggestion *types.Suggestion, resume *types.SectionedDocument, facts []types.ResumeFact, check *guard.CheckResult) bool {
	if suggestion.Before == "" || suggestion.After == "" {
		a.metrics.ObserveSuggestion("rejected")
		return false
	}
	if !suggestion.OccursIn(resume) {
		a.metrics.ObserveSuggestion("rejected")
		return false
	}
	if suggestion.Confidence < a.policy.ConfidenceFloor {
		a.metrics.ObserveSuggestion("rejected")
		return false
	}

	result, err := a.checker.CheckAgainstFacts(ctx, facts, suggestion.After)
	if err != nil {
		// Without a working fact check the proposal cannot be trusted.
		a.tracer.Emit(observability.Record{Name: "rewrite_validate", Err: err})
		a.metrics.ObserveSuggestion("check_failed")
		return false
	}
	*check = result
	if result.HasContradiction {
		a.metrics.ObserveSuggestion("rejected")
		return false
	}

	a.metrics.ObserveSuggestion("accepted")
	return true
}

// extractGroundingFacts collects resume content lines long enough to carry
// a claim worth citing.
func extractGroundingFacts(resume *types.SectionedDocument) []string {
	var facts []string
	for _, item := range resume.ContentItems() {
		if len(item) > minGroundingFactLength {
			facts = append(facts, item)
		}
	}
	return facts
}

// groundedBy returns the indices of facts that support the before text,
// by literal containment either way.
func groundedBy(facts []string, before string) []int {
	indices := []int{}
	if before == "" {
		return indices
	}
	for i, fact := range facts {
		if strings.Contains(fact, before) || strings.Contains(before, fact) {
			indices = append(indices, i)
		}
	}
	return indices
}

// relevantFacts picks the prompt facts most relevant to the query, keeping
// resume order. Falls back to the first facts when no reranker is
// configured or the rerank call fails.
func (a *Agent) relevantFacts(ctx context.Context, query string, facts []string) []string {
	if a.reranker == nil || len(facts) <= maxPromptFacts {
		return truncateFacts(facts, maxPromptFacts)
	}

	ranked, err := a.reranker.Rerank(ctx, query, facts, maxPromptFacts)
	if err != nil || len(ranked) == 0 {
		return truncateFacts(facts, maxPromptFacts)
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Index < ranked[j].Index })
	selected := make([]string, 0, len(ranked))
	for _, candidate := range ranked {
		selected = append(selected, candidate.Text)
	}
	return selected
}

func truncateFacts(facts []string, limit int) []string {
	if len(facts) <= limit {
		return facts
	}
	return facts[:limit]
}

func truncateText(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
