package ingestion

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

var resumeHeaderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(summary|profile|objective)`),
	regexp.MustCompile(`(?i)^(experience|work experience|employment)`),
	regexp.MustCompile(`(?i)^(education|academic)`),
	regexp.MustCompile(`(?i)^(skills|technical skills|core competencies)`),
	regexp.MustCompile(`(?i)^(projects|key projects)`),
	regexp.MustCompile(`(?i)^(certifications|certificates)`),
	regexp.MustCompile(`(?i)^(awards|achievements|honors)`),
}

// ParseResumeText splits plain resume text into titled sections. Lines
// before the first recognized header land in a "header" section.
func ParseResumeText(text string) *types.SectionedDocument {
	doc := &types.SectionedDocument{RawText: text}

	current := types.Section{Title: "header"}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if matchesAny(resumeHeaderPatterns, line) {
			if len(current.Content) > 0 {
				doc.Sections = append(doc.Sections, current)
			}
			current = types.Section{Title: strings.ToLower(line)}
			continue
		}

		current.Content = append(current.Content, line)
	}
	if len(current.Content) > 0 {
		doc.Sections = append(doc.Sections, current)
	}

	return doc
}

func matchesAny(patterns []*regexp.Regexp, line string) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
