package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jonathan/resume-scorer/internal/types"
)

// CSVHeader lists the columns of the results file
var CSVHeader = []string{
	"resume_id",
	"candidate_name",
	"open_source",
	"self_projects",
	"production",
	"technical_skills",
	"bonus",
	"deductions",
	"final_score",
	"timestamp",
}

// CSVRow converts a report to one results row.
func CSVRow(r *types.ScoreReport) []string {
	ts := r.EvaluatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return []string{
		r.ResumeID,
		r.CandidateName,
		formatScore(r.Scores.OpenSource.Score),
		formatScore(r.Scores.SelfProjects.Score),
		formatScore(r.Scores.Production.Score),
		formatScore(r.Scores.TechnicalSkills.Score),
		formatScore(r.BonusPoints.Total),
		formatScore(r.Deductions.Total),
		formatScore(r.FinalScore),
		ts.Format(time.RFC3339),
	}
}

// AppendCSV appends a row for r to path, writing the header first when the
// file is new or empty.
func AppendCSV(path string, r *types.ScoreReport) error {
	if r == nil {
		return errors.New("no report to write")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create csv directory: %w", err)
		}
	}

	needHeader := false
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		needHeader = true
	case err != nil:
		return fmt.Errorf("failed to stat csv: %w", err)
	case info.Size() == 0:
		needHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(CSVHeader); err != nil {
			return fmt.Errorf("failed to write csv header: %w", err)
		}
	}
	if err := w.Write(CSVRow(r)); err != nil {
		return fmt.Errorf("failed to write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// ReadCSV loads the rows of a results file as minimal score reports. Rows
// with an unparseable final score are skipped.
func ReadCSV(path string) ([]*types.ScoreReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	var out []*types.ScoreReport
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == CSVHeader[0] {
			continue
		}
		if len(row) != len(CSVHeader) {
			continue
		}
		final, err := strconv.ParseFloat(row[8], 64)
		if err != nil {
			continue
		}
		r := &types.ScoreReport{ResumeID: row[0], CandidateName: row[1], FinalScore: final}
		if ts, err := time.Parse(time.RFC3339, row[9]); err == nil {
			r.EvaluatedAt = ts
		}
		out = append(out, r)
	}
	return out, nil
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
