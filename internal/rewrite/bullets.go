package rewrite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/prompts"
	"github.com/jonathan/resume-tailor/internal/schemas"
)

// maxBulletJobContextLength bounds the job excerpt for bullet optimization.
const maxBulletJobContextLength = 800

// BulletImprovement is one optimized bullet point.
type BulletImprovement struct {
	Before    string `json:"before"`
	After     string `json:"after"`
	Reasoning string `json:"reasoning"`
}

// GenerateBulletImprovements optimizes a batch of bullet points against the
// job description in a single generation call.
func (a *Agent) GenerateBulletImprovements(ctx context.Context, bullets []string, jd string) ([]BulletImprovement, error) {
	if len(bullets) == 0 {
		return nil, nil
	}

	bulletsJSON, err := json.MarshalIndent(bullets, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode bullets: %w", err)
	}

	userPrompt := prompts.Format(prompts.MustGet("rewrite.json", "bullet-improvement-user"), map[string]string{
		"Bullets":    string(bulletsJSON),
		"JobContext": truncateText(jd, maxBulletJobContextLength),
	})

	done := a.tracer.Span("bullet_improvements", userPrompt, map[string]any{"bullets": len(bullets)})
	raw, err := a.generator.GenerateJSON(ctx, userPrompt, llm.Options{
		SystemInstruction: prompts.MustGet("rewrite.json", "bullet-improvement-system"),
	})
	done(raw, err)
	if err != nil {
		return nil, fmt.Errorf("bullet improvement failed: %w", err)
	}

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.ValidateJSONString(improvementsSchema, cleaned); err != nil {
		return nil, fmt.Errorf("bullet improvement response invalid: %w", err)
	}

	var response struct {
		Improvements []BulletImprovement `json:"improvements"`
	}
	if err := json.Unmarshal([]byte(cleaned), &response); err != nil {
		return nil, fmt.Errorf("failed to parse bullet improvements: %w", err)
	}

	return response.Improvements, nil
}
