package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/pipeline"
	"github.com/jonathan/resume-scorer/internal/report"
)

func runScore(cmd *cobra.Command, args []string) error {
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
		return &pipeline.StageError{Stage: pipeline.StageLoad, Err: err}
	}

	p, err := a.pipeline(ctx)
	if err != nil {
		return err
	}
	res, err := p.Run(ctx, in)
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			a.log.Error("scoring failed", zap.String("stage", stageErr.Stage), zap.Error(stageErr.Err))
		}
		return err
	}
	for _, w := range res.Warnings {
		a.log.Warn(w)
	}

	opts := report.Options{Format: a.cfg.Output.Format, CSVPath: a.cfg.Output.CSVPath}
	store, err := a.openStore(ctx)
	if err != nil {
		return &pipeline.StageError{Stage: pipeline.StageReport, Err: err}
	}
	if store != nil {
		opts.Store = store
	}

	reporter := report.New(cmd.OutOrStdout(), a.log, opts)
	if a.cfg.Output.Format == report.FormatText && res.GitHub != nil {
		reporter.Printer().PrintGitHub(res.GitHub)
	}
	if err := reporter.Report(ctx, res.Report); err != nil {
		return &pipeline.StageError{Stage: pipeline.StageReport, Err: err}
	}
	return nil
}
