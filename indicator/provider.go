package indicator

import (
	"sync"
	"time"

	"github.com/rustyeddy/candletrader/market"
)

// genericKey identifies the single cached EMA/SMA/RSI/MinMax result: a
// request at a different (now, minutes, name, period) than the one
// currently cached drops and recomputes rather than growing the cache,
// since a single bar advance invalidates everything anyway.
type genericKey struct {
	now     time.Time
	minutes int32
	name    string
	period  int
}

type macdKey struct {
	now    time.Time
	fast   int
	slow   int
	signal int
}

// Provider is a single-generation memo: one slot for
// whichever EMA/SMA/RSI/MinMax request was last made, and a separate slot
// for the MACD triple, since a script commonly asks macd(), macd_signal()
// and macd_divergence() in the same bar and those three should share one
// computation.
type Provider struct {
	mu sync.Mutex

	genericValid bool
	generic      genericKey
	scalar       float64
	minmax       MinMax

	macdValid bool
	macd      macdKey
	macdValue MACD
}

// NewProvider returns an empty Provider.
func NewProvider() *Provider { return &Provider{} }

func (p *Provider) generic_(key genericKey, compute func() (float64, MinMax)) (float64, MinMax) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.genericValid && p.generic == key {
		return p.scalar, p.minmax
	}
	s, mm := compute()
	p.generic = key
	p.genericValid = true
	p.scalar = s
	p.minmax = mm
	return s, mm
}

// EMA returns the memoized EMA for (now, minutes, period) over bars.
func (p *Provider) EMA(now time.Time, minutes int32, period int, bars []market.Candle) float64 {
	v, _ := p.generic_(genericKey{now, minutes, "ema", period}, func() (float64, MinMax) {
		return EMA(bars, period), MinMax{}
	})
	return v
}

// SMA returns the memoized SMA for (now, minutes, period) over bars.
func (p *Provider) SMA(now time.Time, minutes int32, period int, bars []market.Candle) float64 {
	v, _ := p.generic_(genericKey{now, minutes, "sma", period}, func() (float64, MinMax) {
		return SMA(bars), MinMax{}
	})
	return v
}

// RSI returns the memoized RSI for (now, minutes, period) over bars.
func (p *Provider) RSI(now time.Time, minutes int32, period int, bars []market.Candle) float64 {
	v, _ := p.generic_(genericKey{now, minutes, "rsi", period}, func() (float64, MinMax) {
		return RSI(bars, period), MinMax{}
	})
	return v
}

// MinMax returns the memoized min/max for (now, minutes, period) over bars.
func (p *Provider) MinMax(now time.Time, minutes int32, period int, bars []market.Candle) MinMax {
	_, mm := p.generic_(genericKey{now, minutes, "minmax", period}, func() (float64, MinMax) {
		return 0, ComputeMinMax(bars)
	})
	return mm
}

// MACDTriple returns the memoized {macd, signal, divergence} for
// (now, fast, slow, signal) over bars.
func (p *Provider) MACDTriple(now time.Time, fast, slow, signal int, bars []market.Candle) MACD {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := macdKey{now, fast, slow, signal}
	if p.macdValid && p.macd == key {
		return p.macdValue
	}
	v := ComputeMACD(bars, fast, slow, signal)
	p.macd = key
	p.macdValid = true
	p.macdValue = v
	return v
}
