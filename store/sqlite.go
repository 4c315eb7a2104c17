package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/candletrader/market"
)

// SQLite is the persistence tier backing the candle, flow and
// backtest_runs tables: a bare *sql.DB, schema applied once on open,
// hand-written SQL for every operation.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or attaches to a SQLite database at path and ensures the
// schema exists.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// InsertCandles inserts batch, assigning dense ids via SQLite's
// last_insert_rowid() under the store's own mutex. A row already present
// at (symbol, minutes, open_time) is a conflict: ErrStoreIntegrity.
func (s *SQLite) InsertCandles(ctx context.Context, batch []market.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO candle (symbol, minutes, open_time, close_time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare insert candle: %w", err)
	}
	defer stmt.Close()

	for _, c := range batch {
		if _, err := stmt.ExecContext(ctx, c.Symbol, c.Minutes, c.OpenTime, c.CloseTime,
			c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			if isUniqueConflict(err) {
				return fmt.Errorf("%w: candle %s/%d@%s", ErrStoreIntegrity, c.Symbol, c.Minutes, c.OpenTime)
			}
			return fmt.Errorf("store: insert candle: %w", err)
		}
	}
	return tx.Commit()
}

// CandlesByTime returns the persisted bars for (symbol, minutes) with
// open_time in [start, end], ordered ascending.
func (s *SQLite) CandlesByTime(ctx context.Context, symbol string, minutes int32, start, end time.Time) ([]market.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, minutes, open_time, close_time, open, high, low, close, volume
		FROM candle
		WHERE symbol = ? AND minutes = ? AND open_time >= ? AND open_time <= ?
		ORDER BY open_time ASC`, symbol, minutes, start, end)
	if err != nil {
		return nil, fmt.Errorf("store: query candles: %w", err)
	}
	defer rows.Close()

	var out []market.Candle
	for rows.Next() {
		var c market.Candle
		if err := rows.Scan(&c.ID, &c.Symbol, &c.Minutes, &c.OpenTime, &c.CloseTime,
			&c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("store: scan candle: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCandlesInRange deletes bars for (symbol, minutes) with open_time in
// [start, end], used by `candle fix`.
func (s *SQLite) DeleteCandlesInRange(ctx context.Context, symbol string, minutes int32, start, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM candle WHERE symbol = ? AND minutes = ? AND open_time >= ? AND open_time <= ?`,
		symbol, minutes, start, end)
	if err != nil {
		return fmt.Errorf("store: delete candles: %w", err)
	}
	return nil
}

// DeleteAllCandles truncates the candle table.
func (s *SQLite) DeleteAllCandles(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM candle`)
	return err
}

func isUniqueConflict(err error) bool {
	return err != nil && strings.Contains(strings.ToUpper(err.Error()), "UNIQUE CONSTRAINT")
}
