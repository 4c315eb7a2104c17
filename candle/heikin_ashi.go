package candle

import "github.com/rustyeddy/candletrader/market"

// HeikinAshi derives the heikin-ashi series for batch, which must be a
// contiguous, ascending-by-open_time run. The transform is computed on
// read only: the store always keeps the raw series, and this is applied
// to a batch right before it is pushed into the buffer when a Selection
// asks for heikin-ashi mode.
func HeikinAshi(batch []market.Candle) []market.Candle {
	out := make([]market.Candle, len(batch))
	for i, c := range batch {
		haClose := (c.Open + c.High + c.Low + c.Close) / 4
		var haOpen float64
		if i == 0 {
			haOpen = (c.Open + c.Close) / 2
		} else {
			haOpen = (out[i-1].Open + out[i-1].Close) / 2
		}
		haHigh := max3(c.High, haOpen, haClose)
		haLow := min3(c.Low, haOpen, haClose)
		out[i] = market.NewCandle(c.Symbol, c.Minutes, c.OpenTime, haOpen, haHigh, haLow, haClose, c.Volume)
		out[i].ID = c.ID
	}
	return out
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
