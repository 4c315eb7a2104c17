package store

import (
	"context"
	"fmt"
	"time"
)

// FlowRecord is the persisted shape of one ledger Flow row. It is a plain
// data-transfer type: the ledger package owns the domain Flow type and
// converts to this when persisting, keeping store free of a dependency
// on ledger.
type FlowRecord struct {
	ID                 int64
	Position           string
	IsBuyerMaker       bool
	Time               time.Time
	Price              float64
	Quantity           float64
	Total              float64
	RealBalanceFiatOld float64
	RealBalanceFiatNew float64
	GainPerc           float64
	Log                string
}

// InsertFlow inserts rec and returns the assigned id, which SQLite hands
// out as last_id + 1 under AUTOINCREMENT, matching the strict append-only
// ordering the ledger requires.
func (s *SQLite) InsertFlow(ctx context.Context, rec FlowRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO flow
		(position, is_buyer_maker, time, price, quantity, total, real_balance_fiat_old, real_balance_fiat_new, gain_perc, log)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Position, rec.IsBuyerMaker, rec.Time, rec.Price, rec.Quantity, rec.Total,
		rec.RealBalanceFiatOld, rec.RealBalanceFiatNew, rec.GainPerc, rec.Log)
	if err != nil {
		return 0, fmt.Errorf("store: insert flow: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: flow last insert id: %w", err)
	}
	return id, nil
}

// FlowsByPosition returns all flow rows for a position, ordered by
// insertion (id) ascending.
func (s *SQLite) FlowsByPosition(ctx context.Context, position string) ([]FlowRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, position, is_buyer_maker, time, price, quantity, total, real_balance_fiat_old, real_balance_fiat_new, gain_perc, log
		FROM flow WHERE position = ? ORDER BY id ASC`, position)
	if err != nil {
		return nil, fmt.Errorf("store: query flows: %w", err)
	}
	defer rows.Close()

	var out []FlowRecord
	for rows.Next() {
		var r FlowRecord
		if err := rows.Scan(&r.ID, &r.Position, &r.IsBuyerMaker, &r.Time, &r.Price, &r.Quantity,
			&r.Total, &r.RealBalanceFiatOld, &r.RealBalanceFiatNew, &r.GainPerc, &r.Log); err != nil {
			return nil, fmt.Errorf("store: scan flow: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
