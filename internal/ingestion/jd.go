package ingestion

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// maxJDHeaderLength guards against matching a header keyword that appears
// inside a long prose line.
const maxJDHeaderLength = 100

// minRequirementLength drops bullet fragments too short to be a real
// requirement.
const minRequirementLength = 10

var jdSectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(about|company|overview)`),
	regexp.MustCompile(`(?i)(role|position|job description)`),
	regexp.MustCompile(`(?i)(responsibilities|duties|what you.?ll do)`),
	regexp.MustCompile(`(?i)(requirements|qualifications|what we.?re looking for)`),
	regexp.MustCompile(`(?i)(preferred|nice to have|bonus)`),
	regexp.MustCompile(`(?i)(benefits|perks|what we offer)`),
}

var (
	requirementsStartPattern = regexp.MustCompile(`(?i)(requirements|qualifications|must have)`)
	requirementsEndPattern   = regexp.MustCompile(`(?i)(benefits|perks|about)`)
	bulletPrefixPattern      = regexp.MustCompile(`^[-•*]\s*`)
)

// ProcessJDText normalizes job-description text into a sectioned document
// with an extracted requirements list.
func ProcessJDText(text string) *types.SectionedDocument {
	doc := &types.SectionedDocument{RawText: text}
	doc.Sections = splitJDSections(text)
	doc.Requirements = extractRequirements(text)
	return doc
}

// splitJDSections splits on recognizable header lines, defaulting early
// content into an "overview" section.
func splitJDSections(text string) []types.Section {
	var sections []types.Section
	current := types.Section{Title: "overview"}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if len(line) < maxJDHeaderLength && matchesAny(jdSectionPatterns, line) {
			if len(current.Content) > 0 {
				sections = append(sections, current)
			}
			current = types.Section{Title: strings.ToLower(line)}
			continue
		}

		current.Content = append(current.Content, line)
	}
	if len(current.Content) > 0 {
		sections = append(sections, current)
	}

	return sections
}

// extractRequirements collects the lines between a requirements-style
// header and the next unrelated section, stripped of bullet markers.
func extractRequirements(text string) []string {
	var requirements []string
	inRequirements := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if requirementsStartPattern.MatchString(line) {
			inRequirements = true
			continue
		}
		if requirementsEndPattern.MatchString(line) {
			inRequirements = false
		}

		if inRequirements && line != "" {
			cleaned := bulletPrefixPattern.ReplaceAllString(line, "")
			if len(cleaned) > minRequirementLength {
				requirements = append(requirements, cleaned)
			}
		}
	}

	return requirements
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// CleanText collapses all whitespace runs into single spaces.
func CleanText(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}
