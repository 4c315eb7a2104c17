// Package strategy drives the per-bar strategy loop: it asks a
// TrendProvider (backed by a script) for a verdict each bar and routes
// any resulting operation into the ledger.
package strategy

import (
	"context"

	"github.com/rustyeddy/candletrader/ledger"
	"github.com/rustyeddy/candletrader/market"
	"github.com/rustyeddy/candletrader/tradectx"
)

// TrendProvider evaluates one bar and returns the verdict: the trend
// direction it read and, if the bar produced one, the trade operation the
// driver should register.
type TrendProvider interface {
	Trend(ctx context.Context, position ledger.Position, tc *tradectx.TradeContext) (market.TrendState, error)
}
