package report

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/jonathan/resume-scorer/internal/types"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Store persists evaluations
type Store interface {
	SaveEvaluation(ctx context.Context, report *types.ScoreReport) error
}

// Options configures a Reporter
type Options struct {
	Format  string
	CSVPath string
	Store   Store
}

// Reporter displays a score report and writes it to the configured sinks
type Reporter struct {
	out     io.Writer
	printer *Printer
	opts    Options
	log     *zap.Logger
}

// New creates a Reporter writing display output to out.
func New(out io.Writer, log *zap.Logger, opts Options) *Reporter {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	return &Reporter{out: out, printer: NewPrinter(out), opts: opts, log: log}
}

// Printer exposes the underlying box printer.
func (r *Reporter) Printer() *Printer {
	return r.printer
}

// Report displays the report, then appends it to the CSV file and store
// when configured. Persistence errors are returned after display.
func (r *Reporter) Report(ctx context.Context, report *types.ScoreReport) error {
	if err := r.Display(report); err != nil {
		return err
	}

	if r.opts.CSVPath != "" {
		if err := AppendCSV(r.opts.CSVPath, report); err != nil {
			return err
		}
		r.log.Debug("appended csv row", zap.String("path", r.opts.CSVPath))
	}
	if r.opts.Store != nil {
		if err := r.opts.Store.SaveEvaluation(ctx, report); err != nil {
			return fmt.Errorf("failed to store evaluation: %w", err)
		}
		r.log.Debug("stored evaluation", zap.String("resume_id", report.ResumeID))
	}
	return nil
}

// Display writes the report in the configured format.
func (r *Reporter) Display(report *types.ScoreReport) error {
	switch r.opts.Format {
	case FormatJSON:
		return WriteJSON(r.out, report)
	case FormatText:
		r.printer.PrintScoreReport(report)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", r.opts.Format)
	}
}
