package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/report"
)

var convertCmd = &cobra.Command{
	Use:   "convert <resume.pdf | s3://bucket/key>",
	Short: "Print the Markdown text extracted from a resume PDF",
	Long: `Converts a PDF the same way the scoring pipeline does and prints the Markdown
sent to the model. With --format json the typed text blocks are printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	loader, err := a.loader(ctx, args[0])
	if err != nil {
		return err
	}
	in, err := loader.Load(ctx, args[0])
	if err != nil {
		return err
	}

	doc, err := a.converter().Convert(ctx, in.Data)
	if err != nil {
		return err
	}
	doc.Source = in.Ref

	if a.cfg.Output.Format == report.FormatJSON {
		return report.WriteJSON(cmd.OutOrStdout(), doc)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), doc.Markdown())
	return err
}
