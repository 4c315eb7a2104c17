// Package indicator computes technical indicators over a slice of
// candles and memoizes them per bar through Provider.
package indicator

import "github.com/rustyeddy/candletrader/market"

// SMA returns the simple moving average of every close in bars. bars must
// already be the exact window the caller wants averaged.
func SMA(bars []market.Candle) float64 {
	if len(bars) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range bars {
		sum += c.Close
	}
	return sum / float64(len(bars))
}

// EMA returns the exponential moving average over bars, seeded with the
// first bar's close and folding the rest in with the standard
// 2/(period+1) multiplier.
func EMA(bars []market.Candle, period int) float64 {
	if len(bars) == 0 {
		return 0
	}
	if period <= 0 {
		period = len(bars)
	}
	multiplier := 2.0 / float64(period+1)
	ema := bars[0].Close
	for _, c := range bars[1:] {
		ema = (c.Close-ema)*multiplier + ema
	}
	return ema
}
