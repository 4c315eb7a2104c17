package indicator

import "github.com/rustyeddy/candletrader/market"

// RSI computes Wilder's relative strength index over bars using
// period-sized averaging, returning 100 when there are no losses at all
// (the standard convention that avoids a division by zero).
func RSI(bars []market.Candle, period int) float64 {
	if len(bars) < 2 {
		return 0
	}
	if period <= 0 || period > len(bars)-1 {
		period = len(bars) - 1
	}

	var gainSum, lossSum float64
	for i := 1; i <= period; i++ {
		delta := bars[i].Close - bars[i-1].Close
		if delta >= 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	for i := period + 1; i < len(bars); i++ {
		delta := bars[i].Close - bars[i-1].Close
		gain, loss := 0.0, 0.0
		if delta >= 0 {
			gain = delta
		} else {
			loss = -delta
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
