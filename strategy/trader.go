package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/candletrader/ledger"
	"github.com/rustyeddy/candletrader/market"
	"github.com/rustyeddy/candletrader/tradectx"
)

// Trader runs one bar at a time: it reads a verdict from its
// TrendProvider, feeds the trend direction back into the TradeContext's
// hysteresis buffer, and registers any resulting operation against the
// ledger. Bars MUST be presented in strict open_time order; Trader makes
// no attempt to reorder or to use wall-clock time.
type Trader struct {
	Context  *tradectx.TradeContext
	Register *ledger.Register
	Provider TrendProvider

	lastOpenTime time.Time
	hasLast      bool
}

// NewTrader builds a Trader over a TradeContext, a ledger Register, and a
// TrendProvider (ordinarily a script adapter).
func NewTrader(ctx *tradectx.TradeContext, register *ledger.Register, provider TrendProvider) *Trader {
	return &Trader{Context: ctx, Register: register, Provider: provider}
}

// Check evaluates one bar: it sets the context's (now, price), asks the
// provider for a verdict, folds the verdict's direction into the trend
// hysteresis buffer, and registers any non-null operation against the
// ledger.
func (t *Trader) Check(ctx context.Context, now time.Time, price float64) error {
	if t.hasLast && !now.After(t.lastOpenTime) {
		return fmt.Errorf("strategy: bar at %s does not strictly follow previous bar at %s", now, t.lastOpenTime)
	}
	t.lastOpenTime = now
	t.hasLast = true

	t.Context.SetNow(now)
	t.Context.SetPrice(price)

	state, err := t.Provider.Trend(ctx, t.Register.Position(), t.Context)
	if err != nil {
		return fmt.Errorf("strategy: trend provider: %w", err)
	}

	t.Context.SetTrendDirection(state.TrendDirection)

	if state.TradeOperationOp == nil {
		return nil
	}
	flow, err := t.Register.Register(ctx, *state.TradeOperationOp)
	if err != nil {
		return fmt.Errorf("strategy: register operation: %w", err)
	}
	t.Context.SetLastGainPerc(flow.GainPerc)
	return nil
}

// TradeLog returns the operations registered so far, in bar order.
func (t *Trader) TradeLog() []market.TradeOperation { return t.Register.Log() }
