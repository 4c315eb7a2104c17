package exchange

import (
	"context"
	"sort"
	"time"

	"github.com/rustyeddy/candletrader/market"
)

// Fixed is an in-memory Exchange over a frozen dataset, used by tests and
// by script-back-test runs that must not touch the network.
type Fixed struct {
	bars []market.Candle
}

// NewFixed returns a Fixed exchange serving bars, which need not be sorted.
func NewFixed(bars []market.Candle) *Fixed {
	sorted := make([]market.Candle, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].OpenTime.Before(sorted[j].OpenTime) })
	return &Fixed{bars: sorted}
}

// Candles returns the subset of bars matching symbol/minutes with
// open_time in [start,end], truncated to limit.
func (f *Fixed) Candles(ctx context.Context, symbol string, minutes int32, start, end time.Time, limit int) ([]market.Candle, error) {
	start, end = NormalizeRange(start, end)
	var out []market.Candle
	for _, c := range f.bars {
		if c.Symbol != symbol || c.Minutes != minutes {
			continue
		}
		if c.OpenTime.Before(start) || c.OpenTime.After(end) {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
