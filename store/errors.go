// Package store is the SQLite-backed persistence tier: candle rows, flow
// rows, and backtest run bookkeeping, all reached through database/sql.
package store

import "errors"

// ErrStoreIntegrity is returned when an insert conflicts with an existing
// row identity.
var ErrStoreIntegrity = errors.New("store: integrity conflict")
