package types

// ScoreBreakdown holds the per-signal sub-scores behind a match score.
// Every component is in [0,1] except ContradictionPenalty, which is <= 0
// and applied on the final percentage scale.
type ScoreBreakdown struct {
	SkillsExact          float64 `json:"skills_exact"`
	SemanticFit          float64 `json:"semantic_fit"`
	SeniorityFit         float64 `json:"seniority_fit"`
	Recency              float64 `json:"recency"`
	ContradictionPenalty float64 `json:"contradiction_penalty"`
}

// SemanticEvidence records the best-matching resume section for one job
// requirement, captured when the similarity exceeds the evidence threshold.
type SemanticEvidence struct {
	Requirement    string  `json:"requirement"`
	MatchedSection string  `json:"matched_section"`
	MatchedText    string  `json:"matched_text"`
	Similarity     float64 `json:"similarity"`
}

// MatchResult is the full output of the scoring engine for one
// resume/job-description pair.
type MatchResult struct {
	MatchScore       float64            `json:"match_score"`
	Scores           ScoreBreakdown     `json:"scores"`
	SkillOverlap     SkillOverlap       `json:"skill_overlap"`
	SemanticEvidence []SemanticEvidence `json:"semantic_evidence"`
	ResumeSkills     ExtractedSkills    `json:"resume_skills"`
	JDSkills         ExtractedSkills    `json:"jd_skills"`
}
