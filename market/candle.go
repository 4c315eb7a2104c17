// Package market holds the domain types shared by every layer of the
// candle pipeline: the bar itself and the symbol table it is keyed on.
package market

import "time"

// Candle is an immutable OHLCV bar for one (Symbol, Minutes) series.
//
// ID is the dense key assigned by the store on insert; a zero-valued ID
// means the candle has not yet been persisted. CloseTime is always
// OpenTime + Minutes*60s - 1s, enforced by the constructors in this
// package rather than by callers.
type Candle struct {
	ID      int64
	Symbol  string
	Minutes int32

	OpenTime  time.Time
	CloseTime time.Time

	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// NewCandle builds a Candle from an open time, deriving CloseTime from
// Minutes so every candle in the system satisfies the close_time invariant
// by construction.
func NewCandle(symbol string, minutes int32, openTime time.Time, o, h, l, c, v float64) Candle {
	return Candle{
		Symbol:    symbol,
		Minutes:   minutes,
		OpenTime:  openTime,
		CloseTime: openTime.Add(time.Duration(minutes)*time.Minute - time.Second),
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    v,
	}
}

// Dense reports whether b is exactly one bar after prev on the same
// (symbol, minutes) grid.
func Dense(prev, b Candle) bool {
	return b.OpenTime.Sub(prev.OpenTime) == time.Duration(prev.Minutes)*time.Minute
}
