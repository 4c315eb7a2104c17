package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunRecord is one row of the backtest_runs bookkeeping table: metadata
// about a single `script-back-test` invocation, not part of the core
// ledger itself.
type RunRecord struct {
	RunID                string
	Symbol               string
	Minutes              int32
	ScriptPath           string
	StartedAt            time.Time
	EndedAt              sql.NullTime
	StartRealBalanceFiat sql.NullFloat64
	EndRealBalanceFiat   sql.NullFloat64
	FlowCount            int
}

// InsertRun records the start of a backtest run.
func (s *SQLite) InsertRun(ctx context.Context, r RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO backtest_runs (run_id, symbol, minutes, script_path, started_at, start_real_balance_fiat)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Symbol, r.Minutes, r.ScriptPath, r.StartedAt, r.StartRealBalanceFiat)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

// FinishRun stamps a run with its end time, ending balance and flow count.
func (s *SQLite) FinishRun(ctx context.Context, runID string, endedAt time.Time, endBalance float64, flowCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		UPDATE backtest_runs SET ended_at = ?, end_real_balance_fiat = ?, flow_count = ? WHERE run_id = ?`,
		endedAt, endBalance, flowCount, runID)
	if err != nil {
		return fmt.Errorf("store: finish run: %w", err)
	}
	return nil
}

// ListRuns returns all backtest runs, most recent first.
func (s *SQLite) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, symbol, minutes, script_path, started_at, ended_at, start_real_balance_fiat, end_real_balance_fiat, flow_count
		FROM backtest_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.RunID, &r.Symbol, &r.Minutes, &r.ScriptPath, &r.StartedAt,
			&r.EndedAt, &r.StartRealBalanceFiat, &r.EndRealBalanceFiat, &r.FlowCount); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
