package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/evaluation"
	"github.com/jonathan/resume-scorer/internal/report"
	"github.com/jonathan/resume-scorer/internal/types"
)

var (
	rankFromDB bool
	rankLimit  int
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank scored candidates by final score",
	Long: `Reads previously scored candidates from the CSV file (--csv or CSV_PATH) or,
with --db, from the evaluations table, and prints them best first.`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().BoolVar(&rankFromDB, "db", false, "Read evaluations from the database instead of the CSV file")
	rankCmd.Flags().IntVar(&rankLimit, "limit", db.DefaultListLimit, "Maximum rows read from the database")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var reports []*types.ScoreReport
	if rankFromDB {
		store, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		if store == nil {
			return errors.New("--db requires DATABASE_URL or database.url")
		}
		rows, err := store.ListEvaluations(ctx, rankLimit)
		if err != nil {
			return err
		}
		reports = db.Reports(rows)
	} else {
		if a.cfg.Output.CSVPath == "" {
			return errors.New("no CSV file: set --csv or CSV_PATH")
		}
		reports, err = report.ReadCSV(a.cfg.Output.CSVPath)
		if err != nil {
			return err
		}
	}

	if len(reports) == 0 {
		return fmt.Errorf("no scored candidates found")
	}
	rankings := evaluation.RankCandidates(reports)
	if a.cfg.Output.Format == report.FormatJSON {
		return report.WriteJSON(cmd.OutOrStdout(), rankings)
	}
	report.NewPrinter(cmd.OutOrStdout()).PrintRankings(rankings)
	return nil
}
