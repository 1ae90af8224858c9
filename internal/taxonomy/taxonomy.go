// Package taxonomy maps free text to canonical skill identifiers using a
// versioned reference taxonomy of skills and synonyms.
package taxonomy

import (
	"regexp"
	"sync/atomic"

	"github.com/jonathan/resume-tailor/internal/types"
)

// SkillRecord is one taxonomy entry. Records are immutable once loaded.
type SkillRecord struct {
	ID       string
	Name     string // Canonical name, lowercased
	Category types.SkillCategory
	Synonyms []string // Lowercased
}

// compiledSkill pairs a record with the whole-word patterns for its
// canonical name and synonyms. The first pattern is always the name.
type compiledSkill struct {
	record   SkillRecord
	patterns []*regexp.Regexp
}

// Table is an immutable snapshot of the loaded taxonomy. Extraction walks
// records in load order so results are deterministic.
type Table struct {
	skills  []compiledSkill
	version string
}

// NewTable compiles a taxonomy table from records. Record order is preserved.
func NewTable(records []SkillRecord, version string) *Table {
	table := &Table{version: version}
	for _, record := range records {
		compiled := compiledSkill{record: record}
		for _, term := range append([]string{record.Name}, record.Synonyms...) {
			compiled.patterns = append(compiled.patterns, wholeWordPattern(term))
		}
		table.skills = append(table.skills, compiled)
	}
	return table
}

// Len returns the number of skills in the table.
func (t *Table) Len() int {
	return len(t.skills)
}

// Version returns the version label recorded at load time.
func (t *Table) Version() string {
	return t.version
}

// TermCount returns the total number of lookup terms across all skills,
// counting canonical names and synonyms.
func (t *Table) TermCount() int {
	count := 0
	for _, skill := range t.skills {
		count += len(skill.patterns)
	}
	return count
}

// Records returns a copy of the loaded skill records in load order.
func (t *Table) Records() []SkillRecord {
	records := make([]SkillRecord, 0, len(t.skills))
	for _, skill := range t.skills {
		records = append(records, skill.record)
	}
	return records
}

// wholeWordPattern compiles a case-insensitive whole-word pattern for a
// literal term.
func wholeWordPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
}

// Store holds the process-wide taxonomy table behind an atomic pointer.
// Readers always observe a complete snapshot; Swap replaces the whole
// mapping atomically on hot reload.
type Store struct {
	table atomic.Pointer[Table]
}

// NewStore creates a store seeded with the given table.
func NewStore(table *Table) *Store {
	s := &Store{}
	s.table.Store(table)
	return s
}

// Table returns the current immutable snapshot.
func (s *Store) Table() *Table {
	return s.table.Load()
}

// Swap atomically replaces the current table.
func (s *Store) Swap(table *Table) {
	s.table.Store(table)
}
