package indicator

import "github.com/rustyeddy/candletrader/market"

// MACD is the {macd, signal, divergence} triple the script adapter's
// macd()/macd_signal()/macd_divergence() host functions expose.
type MACD struct {
	Value      float64
	Signal     float64
	Divergence float64
}

// ComputeMACD derives the MACD triple over bars using fast/slow/signal
// EMA periods. The signal line is the EMA of the macd series itself, so
// this walks bars to build the fast and slow EMA series, then walks the
// resulting macd series for the signal EMA.
func ComputeMACD(bars []market.Candle, fast, slow, signal int) MACD {
	if len(bars) == 0 {
		return MACD{}
	}

	fastSeries := emaSeries(bars, fast)
	slowSeries := emaSeries(bars, slow)

	macdSeries := make([]float64, len(bars))
	for i := range bars {
		macdSeries[i] = fastSeries[i] - slowSeries[i]
	}

	signalSeries := emaOfSeries(macdSeries, signal)

	last := len(bars) - 1
	m := macdSeries[last]
	s := signalSeries[last]
	return MACD{Value: m, Signal: s, Divergence: m - s}
}

// emaSeries returns the running EMA of bars' closes, one value per bar.
func emaSeries(bars []market.Candle, period int) []float64 {
	out := make([]float64, len(bars))
	if len(bars) == 0 {
		return out
	}
	if period <= 0 {
		period = len(bars)
	}
	multiplier := 2.0 / float64(period+1)
	out[0] = bars[0].Close
	for i := 1; i < len(bars); i++ {
		out[i] = (bars[i].Close-out[i-1])*multiplier + out[i-1]
	}
	return out
}

// emaOfSeries is emaSeries generalized to operate on a raw float series
// rather than candle closes, used to fold the signal EMA over the macd
// series.
func emaOfSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if period <= 0 {
		period = len(values)
	}
	multiplier := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = (values[i]-out[i-1])*multiplier + out[i-1]
	}
	return out
}
