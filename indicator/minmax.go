package indicator

import "github.com/rustyeddy/candletrader/market"

// MinMax is the value-indicator variant of the polymorphic Indicator
// contract: a scalar pair rather than a series.
type MinMax struct {
	Min float64
	Max float64
}

// ComputeMinMax returns the low/high extremes of bars.
func ComputeMinMax(bars []market.Candle) MinMax {
	if len(bars) == 0 {
		return MinMax{}
	}
	mm := MinMax{Min: bars[0].Low, Max: bars[0].High}
	for _, c := range bars[1:] {
		if c.Low < mm.Min {
			mm.Min = c.Low
		}
		if c.High > mm.Max {
			mm.Max = c.High
		}
	}
	return mm
}
