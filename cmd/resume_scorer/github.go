package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/github"
	"github.com/jonathan/resume-scorer/internal/report"
)

var githubCmd = &cobra.Command{
	Use:   "github <profile-url | username>",
	Short: "Fetch and select a candidate's GitHub repositories",
	Long: `Runs GitHub enrichment on its own: fetches the profile and repositories, keeps
those where the user authored enough of the commits and asks the model to pick
the most relevant ones. Prints the enrichment as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runGitHub,
}

func init() {
	rootCmd.AddCommand(githubCmd)
}

func runGitHub(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	username := github.ExtractUsername(args[0])
	if username == "" {
		return fmt.Errorf("no GitHub username found in %q", args[0])
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	client, err := a.model(ctx)
	if err != nil {
		return err
	}
	enricher, err := a.githubEnricher(client)
	if err != nil {
		return err
	}

	data, err := enricher.EnrichUser(ctx, username)
	if err != nil {
		return err
	}
	if a.cfg.Output.Format == report.FormatText {
		report.NewPrinter(cmd.ErrOrStderr()).PrintGitHub(data)
	}
	return report.WriteJSON(cmd.OutOrStdout(), data)
}
