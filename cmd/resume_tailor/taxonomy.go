package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/config"
	"github.com/jonathan/resume-tailor/internal/taxonomy"
)

var taxonomyCommand = &cobra.Command{
	Use:   "taxonomy",
	Short: "Validate a skill taxonomy directory",
	Long: `Loads skills.csv and skill_synonyms.csv from a taxonomy directory and
reports the parsed skill and synonym counts. Use this to check a taxonomy
edit before pointing the server or CLI at it.`,
	RunE: runTaxonomyCmd,
}

var taxonomyCheckDir string

func init() {
	taxonomyCommand.Flags().StringVarP(&taxonomyCheckDir, "dir", "d", config.DefaultTaxonomyDir, "Directory holding skills.csv and skill_synonyms.csv")
	rootCmd.AddCommand(taxonomyCommand)
}

func runTaxonomyCmd(_ *cobra.Command, _ []string) error {
	table, err := taxonomy.LoadDir(taxonomyCheckDir)
	if err != nil {
		return fmt.Errorf("taxonomy validation failed: %w", err)
	}

	fmt.Printf("Taxonomy OK: %s\n", taxonomyCheckDir)
	fmt.Printf("  version: %s\n", table.Version())
	fmt.Printf("  skills:  %d\n", table.Len())
	fmt.Printf("  lookup terms (names + synonyms): %d\n", table.TermCount())
	return nil
}
