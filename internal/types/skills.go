package types

// SkillCategory distinguishes technical skills from soft skills.
type SkillCategory string

// Skill category values assigned by the taxonomy.
const (
	CategoryTechnical SkillCategory = "technical"
	CategorySoft      SkillCategory = "soft"
)

// DetectedSkill is a single taxonomy hit found in free text.
// Confidence is 1.0 for exact and synonym matches, otherwise the
// fuzzy-match ratio that produced the hit.
type DetectedSkill struct {
	SkillID     string        `json:"skill_id"`
	Name        string        `json:"name"`
	Category    SkillCategory `json:"category"`
	Confidence  float64       `json:"confidence"`
	MatchedTerm string        `json:"matched_term"`
}

// ExtractedSkills groups detected skills by category. All preserves
// detection order across both categories.
type ExtractedSkills struct {
	Technical []DetectedSkill `json:"technical"`
	Soft      []DetectedSkill `json:"soft"`
	All       []DetectedSkill `json:"all"`
}

// SkillOverlap is the set-algebraic comparison of resume skills against
// job-description skills, recomputed per match.
type SkillOverlap struct {
	Matched       []DetectedSkill `json:"matched"`
	Missing       []DetectedSkill `json:"missing"`
	Extra         []DetectedSkill `json:"extra"`
	OverlapScore  float64         `json:"overlap_score"`
	MatchedCount  int             `json:"matched_count"`
	TotalRequired int             `json:"total_required"`
}
