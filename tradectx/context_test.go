package tradectx

import (
	"testing"

	"github.com/rustyeddy/candletrader/market"
)

func TestChangedTrendRequiresThreeAgreeingVerdicts(t *testing.T) {
	c := New("BTCUSDT", nil)

	c.SetTrendDirection(market.TrendBuy)
	if _, ok := c.ChangedTrend(); ok {
		t.Fatal("expected no change after a single verdict")
	}
	c.SetTrendDirection(market.TrendBuy)
	if _, ok := c.ChangedTrend(); ok {
		t.Fatal("expected no change after two verdicts")
	}
	c.SetTrendDirection(market.TrendBuy)
	d, ok := c.ChangedTrend()
	if !ok || d != market.TrendBuy {
		t.Fatalf("expected change to buy after three agreeing verdicts, got %v,%v", d, ok)
	}
}

func TestChangedTrendIsConsumed(t *testing.T) {
	c := New("BTCUSDT", nil)
	for i := 0; i < 3; i++ {
		c.SetTrendDirection(market.TrendSell)
	}
	if _, ok := c.ChangedTrend(); !ok {
		t.Fatal("expected first read to report the change")
	}
	if _, ok := c.ChangedTrend(); ok {
		t.Fatal("expected the signal to be consumed on the second read")
	}
}

func TestChangedTrendIgnoresRepeatOfStableDirection(t *testing.T) {
	c := New("BTCUSDT", nil)
	for i := 0; i < 3; i++ {
		c.SetTrendDirection(market.TrendBuy)
	}
	c.ChangedTrend()

	for i := 0; i < 3; i++ {
		c.SetTrendDirection(market.TrendBuy)
	}
	if _, ok := c.ChangedTrend(); ok {
		t.Fatal("re-confirming the already-stable direction must not report a change")
	}
}

func TestChangedTrendRequiresUnanimity(t *testing.T) {
	c := New("BTCUSDT", nil)
	c.SetTrendDirection(market.TrendBuy)
	c.SetTrendDirection(market.TrendSell)
	c.SetTrendDirection(market.TrendSell)
	if _, ok := c.ChangedTrend(); ok {
		t.Fatal("mixed verdicts in the trailing window must not report a change")
	}
}
