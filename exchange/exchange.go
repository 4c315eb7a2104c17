// Package exchange is the outermost tier of candle provisioning: the
// remote source consulted only once the buffer and the store have both
// missed.
package exchange

import (
	"context"
	"time"

	"github.com/rustyeddy/candletrader/market"
)

// Exchange is the shape the provisioner requires of a remote candle
// source: bars for (symbol, minutes) ordered by open_time, bounded to
// limit. Implementations must bump end by one second when start == end so
// a single-bar request does not come back empty.
type Exchange interface {
	Candles(ctx context.Context, symbol string, minutes int32, start, end time.Time, limit int) ([]market.Candle, error)
}

// NormalizeRange applies the start==end bump rule from the external
// interface contract; every Exchange implementation in this package calls
// it before issuing its request.
func NormalizeRange(start, end time.Time) (time.Time, time.Time) {
	if start.Equal(end) {
		end = end.Add(time.Second)
	}
	return start, end
}
