// Package main provides the entry point for the resume tailor CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_tailor",
	Short: "Resume/job-description matching and grounded rewriting",
	Long:  "Resume Tailor scores a resume against a job description across weighted signals, quotes literal evidence for every score component, and proposes rewrites grounded in the resume's own facts.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
