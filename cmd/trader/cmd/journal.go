package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/candletrader/store"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query past script-back-test runs",
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded script-back-test runs",
	RunE:  runJournalRuns,
}

var journalStorePath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalRunsCmd.Flags().StringVarP(&journalStorePath, "store", "s", "./candletrader.db", "path to the SQLite store")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	s, err := store.Open(journalStorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(context.Background())
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%s  %s/%d  %s  started=%s", r.RunID, r.Symbol, r.Minutes, r.ScriptPath, r.StartedAt.Format(timeLayout))
		if r.EndedAt.Valid {
			fmt.Printf(" ended=%s flows=%d", r.EndedAt.Time.Format(timeLayout), r.FlowCount)
			if r.StartRealBalanceFiat.Valid && r.EndRealBalanceFiat.Valid {
				fmt.Printf(" pnl=%.2f", r.EndRealBalanceFiat.Float64-r.StartRealBalanceFiat.Float64)
			}
		} else {
			fmt.Print(" (in progress)")
		}
		fmt.Println()
	}
	return nil
}

func sqlNullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: true}
}
