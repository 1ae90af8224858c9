package taxonomy

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

// Taxonomy source file names within the taxonomy directory.
const (
	skillsFile   = "skills.csv"
	synonymsFile = "skill_synonyms.csv"
)

// LoadError indicates the taxonomy directory could not be read at all.
// Malformed individual rows are skipped with a warning, never fatal.
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("taxonomy load error for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("taxonomy load error for %s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// LoadDir reads skills.csv and skill_synonyms.csv from dir and compiles a
// table. A missing synonyms file is tolerated; a missing skills file yields
// an empty table, which degrades extraction to zero detected skills.
func LoadDir(dir string) (*Table, error) {
	records, err := loadSkills(filepath.Join(dir, skillsFile))
	if err != nil {
		return nil, err
	}

	synonyms, err := loadSynonyms(filepath.Join(dir, synonymsFile))
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Synonyms = synonyms[records[i].ID]
	}

	return NewTable(records, filepath.Base(dir)), nil
}

// loadSkills parses the skills CSV. Expected header: id,name,type,category.
func loadSkills(path string) ([]SkillRecord, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Printf("Warning: taxonomy file %s not found, loading empty taxonomy", path)
		return nil, nil
	}
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to open skills file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Row length validated per row below

	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read header", Cause: err}
	}
	columns := columnIndex(header)

	var records []SkillRecord
	line := 1
	for {
		row, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed taxonomy row at %s:%d: %v", path, line, err)
			continue
		}

		record, ok := parseSkillRow(row, columns)
		if !ok {
			log.Printf("Warning: skipping malformed taxonomy row at %s:%d", path, line)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// parseSkillRow validates and normalizes one skills.csv row.
func parseSkillRow(row []string, columns map[string]int) (SkillRecord, bool) {
	id := field(row, columns, "id")
	name := field(row, columns, "name")
	category := field(row, columns, "type")
	if id == "" || name == "" {
		return SkillRecord{}, false
	}

	cat := types.SkillCategory(strings.ToLower(category))
	if cat != types.CategoryTechnical && cat != types.CategorySoft {
		cat = types.CategoryTechnical
	}

	return SkillRecord{
		ID:       id,
		Name:     strings.ToLower(name),
		Category: cat,
	}, true
}

// loadSynonyms parses the synonyms CSV. Expected header: skill_id,synonym.
func loadSynonyms(path string) (map[string][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to open synonyms file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read header", Cause: err}
	}
	columns := columnIndex(header)

	synonyms := make(map[string][]string)
	line := 1
	for {
		row, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed synonym row at %s:%d: %v", path, line, err)
			continue
		}

		id := field(row, columns, "skill_id")
		synonym := strings.ToLower(field(row, columns, "synonym"))
		if id == "" || synonym == "" {
			log.Printf("Warning: skipping malformed synonym row at %s:%d", path, line)
			continue
		}
		synonyms[id] = append(synonyms[id], synonym)
	}

	return synonyms, nil
}

// columnIndex maps lowercased header names to their positions.
func columnIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(name)] = i
	}
	return columns
}

// field returns the trimmed cell for a named column, or empty if absent.
func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
