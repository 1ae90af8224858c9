package types

// EvidenceType tags the variant carried by an EvidenceItem.
type EvidenceType string

// Evidence item variants.
const (
	EvidenceSkillMatch    EvidenceType = "skill_match"
	EvidenceSemanticMatch EvidenceType = "semantic_match"
)

// EvidenceItem ties a score component to literal quoted text. Quotes are
// verbatim substrings of the source documents, bounded at 200 characters
// and truncated with an ellipsis, never paraphrased.
//
// For EvidenceSkillMatch the skill fields and both quotes are set.
// For EvidenceSemanticMatch the requirement fields are set instead.
type EvidenceItem struct {
	Type EvidenceType `json:"type"`

	// Skill match fields
	SkillID     string `json:"skill_id,omitempty"`
	Skill       string `json:"skill,omitempty"`
	ResumeQuote string `json:"resume_quote,omitempty"`
	JDQuote     string `json:"jd_quote,omitempty"`

	// Semantic match fields
	Requirement   string `json:"requirement,omitempty"`
	ResumeSection string `json:"resume_section,omitempty"`

	Confidence float64 `json:"confidence,omitempty"`
	Similarity float64 `json:"similarity,omitempty"`
}
