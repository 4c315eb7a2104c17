// Package tradectx implements the per-strategy context a script reads
// indicators and trend history through: one TradeContext per running
// strategy, owning its own indicator memo and trend hysteresis buffer.
package tradectx

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/candletrader/candle"
	"github.com/rustyeddy/candletrader/indicator"
	"github.com/rustyeddy/candletrader/market"
)

// trendHistoryLen is the 3-bar majority window changed_trend() requires.
// This is a tuning constant inherited from the reference implementation,
// not a semantic minimum.
const trendHistoryLen = 3

// windowKey identifies the last bar window TradeContext fetched through
// the provisioner, so a repeated (minutes, period) request in the same
// bar is served from cache instead of re-querying.
type windowKey struct {
	now     time.Time
	minutes int32
	period  int
}

// TradeContext is the single hub a running strategy's script reads
// through: the symbol it trades, the indicator memo, the provisioner
// handle, and the trend hysteresis buffer.
type TradeContext struct {
	Symbol string

	provisioner *candle.Provisioner
	indicators  *indicator.Provider

	now   time.Time
	price float64

	windowValid bool
	window      windowKey
	windowBars  []market.Candle

	history     []market.TrendDirection
	stableTrend market.TrendDirection
	stableIsSet bool

	lastGainPerc float64
}

// New returns a TradeContext for symbol backed by provisioner.
func New(symbol string, provisioner *candle.Provisioner) *TradeContext {
	return &TradeContext{
		Symbol:      symbol,
		provisioner: provisioner,
		indicators:  indicator.NewProvider(),
	}
}

// SetNow advances the bar the context evaluates indicators against.
func (c *TradeContext) SetNow(now time.Time) { c.now = now }

// SetPrice records the fill price scripts read through balance/gain
// calculations for this bar.
func (c *TradeContext) SetPrice(price float64) { c.price = price }

// Now returns the current bar's time.
func (c *TradeContext) Now() time.Time { return c.now }

// Price returns the current bar's fill price.
func (c *TradeContext) Price() float64 { return c.price }

// window returns the bars in [now-period, now] for minutes, aligned,
// fetched through the provisioner and cached for the rest of this bar.
func (c *TradeContext) window(ctx context.Context, minutes int32, period int) ([]market.Candle, error) {
	key := windowKey{c.now, minutes, period}
	if c.windowValid && c.window == key {
		return c.windowBars, nil
	}

	start := c.now.Add(-time.Duration(period) * time.Duration(minutes) * time.Minute)
	sel := market.Selection{Symbol: c.Symbol, Minutes: minutes, StartTime: start, EndTime: c.now}
	bars, err := c.provisioner.Provide(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("tradectx: window fetch: %w", err)
	}

	c.window = key
	c.windowValid = true
	c.windowBars = bars
	return bars, nil
}

// EMA returns the EMA over [now-period, now] at the given minutes.
func (c *TradeContext) EMA(ctx context.Context, minutes int32, period int) (float64, error) {
	bars, err := c.window(ctx, minutes, period)
	if err != nil {
		return 0, err
	}
	return c.indicators.EMA(c.now, minutes, period, bars), nil
}

// SMA returns the SMA over [now-period, now] at the given minutes.
func (c *TradeContext) SMA(ctx context.Context, minutes int32, period int) (float64, error) {
	bars, err := c.window(ctx, minutes, period)
	if err != nil {
		return 0, err
	}
	return c.indicators.SMA(c.now, minutes, period, bars), nil
}

// RSI returns the RSI over [now-period, now] at the given minutes.
func (c *TradeContext) RSI(ctx context.Context, minutes int32, period int) (float64, error) {
	bars, err := c.window(ctx, minutes, period)
	if err != nil {
		return 0, err
	}
	return c.indicators.RSI(c.now, minutes, period, bars), nil
}

// MACD returns the {macd, signal, divergence} triple over
// [now-slow, now] at the given minutes.
func (c *TradeContext) MACD(ctx context.Context, minutes int32, fast, slow, signal int) (indicator.MACD, error) {
	bars, err := c.window(ctx, minutes, slow)
	if err != nil {
		return indicator.MACD{}, err
	}
	return c.indicators.MACDTriple(c.now, fast, slow, signal, bars), nil
}

// MinMax returns the low/high extremes over [now-period, now] at the
// given minutes.
func (c *TradeContext) MinMax(ctx context.Context, minutes int32, period int) (indicator.MinMax, error) {
	bars, err := c.window(ctx, minutes, period)
	if err != nil {
		return indicator.MinMax{}, err
	}
	return c.indicators.MinMax(c.now, minutes, period, bars), nil
}

// SetLastGainPerc records the gain_perc of the most recently registered
// Flow, which the script's gain_perc() host function reads.
func (c *TradeContext) SetLastGainPerc(v float64) { c.lastGainPerc = v }

// LastGainPerc returns the gain_perc of the most recently registered Flow,
// or 0 before any trade has registered.
func (c *TradeContext) LastGainPerc() float64 { return c.lastGainPerc }

// SetTrendDirection records d as this bar's verdict.
func (c *TradeContext) SetTrendDirection(d market.TrendDirection) {
	c.history = append(c.history, d)
	if len(c.history) > trendHistoryLen {
		c.history = c.history[len(c.history)-trendHistoryLen:]
	}
}

// ChangedTrend returns the new stable direction and true exactly when the
// three most recent verdicts agree on a value different from the
// previously-reported stable direction. The signal is consumed: calling
// it again immediately afterward returns (None, false) until three more
// matching verdicts accumulate.
func (c *TradeContext) ChangedTrend() (market.TrendDirection, bool) {
	if len(c.history) < trendHistoryLen {
		return market.TrendNone, false
	}
	candidate := c.history[len(c.history)-1]
	for _, d := range c.history[len(c.history)-trendHistoryLen:] {
		if d != candidate {
			return market.TrendNone, false
		}
	}
	if c.stableIsSet && c.stableTrend == candidate {
		return market.TrendNone, false
	}
	c.stableTrend = candidate
	c.stableIsSet = true
	c.history = nil
	return candidate, true
}
