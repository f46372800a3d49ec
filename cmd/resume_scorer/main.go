// Package main provides the resume_scorer command line tool and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	debug      bool
	jsonLogs   bool
	format     string
	useCache   bool
	csvPath    string
)

var rootCmd = &cobra.Command{
	Use:   "resume_scorer <resume.pdf | s3://bucket/key>",
	Short: "Score a resume PDF against the engineering rubric",
	Long: `Converts a resume PDF to text, extracts its sections with a language model,
enriches it with GitHub and personal website data and scores it against a fixed
rubric: open source, self projects, production experience and technical skills.

Configuration comes from defaults, an optional --config file, environment
variables (a .env file is loaded when present) and flags, in increasing order
of precedence.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScore,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	flags.StringVar(&format, "format", "text", "Output format: text or json")
	flags.BoolVar(&useCache, "cache", false, "Cache intermediate results between runs")
	flags.StringVar(&csvPath, "csv", "", "Append the score to this CSV file")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
