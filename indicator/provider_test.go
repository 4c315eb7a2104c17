package indicator

import (
	"testing"
	"time"

	"github.com/rustyeddy/candletrader/market"
)

func closes(vals ...float64) []market.Candle {
	out := make([]market.Candle, len(vals))
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range vals {
		out[i] = market.NewCandle("BTCUSDT", 15, base.Add(time.Duration(i)*15*time.Minute), v, v, v, v, 1)
	}
	return out
}

func TestSMAAveragesCloses(t *testing.T) {
	bars := closes(1, 2, 3)
	if got := SMA(bars); got != 2 {
		t.Fatalf("SMA = %v, want 2", got)
	}
}

func TestEMAConvergesTowardLatestValue(t *testing.T) {
	bars := closes(10, 10, 10, 10, 100)
	got := EMA(bars, 3)
	if got <= 10 || got >= 100 {
		t.Fatalf("EMA = %v, want strictly between 10 and 100 after a jump", got)
	}
}

func TestMinMaxTracksExtremes(t *testing.T) {
	bars := []market.Candle{
		market.NewCandle("BTCUSDT", 15, time.Now().UTC(), 5, 10, 1, 7, 1),
		market.NewCandle("BTCUSDT", 15, time.Now().UTC().Add(time.Minute), 7, 12, 2, 8, 1),
	}
	mm := ComputeMinMax(bars)
	if mm.Min != 1 || mm.Max != 12 {
		t.Fatalf("MinMax = %+v, want {Min:1 Max:12}", mm)
	}
}

func TestProviderMemoReusesSameKey(t *testing.T) {
	p := NewProvider()
	now := time.Now().UTC()
	bars := closes(1, 2, 3, 4)

	first := p.EMA(now, 15, 3, bars)
	second := p.EMA(now, 15, 3, closes(999, 999)) // different bars, same key: must hit the memo
	if first != second {
		t.Fatalf("provider did not reuse memoized value for identical key: %v != %v", first, second)
	}
}

func TestProviderMemoDropsOnKeyMismatch(t *testing.T) {
	p := NewProvider()
	now := time.Now().UTC()
	bars := closes(1, 2, 3)

	p.EMA(now, 15, 3, bars)
	got := p.SMA(now, 15, 3, bars)
	want := SMA(bars)
	if got != want {
		t.Fatalf("SMA after a differently-named request = %v, want freshly computed %v", got, want)
	}
}

func TestMACDTripleConsistency(t *testing.T) {
	bars := closes(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	m := ComputeMACD(bars, 3, 6, 2)
	if m.Divergence != m.Value-m.Signal {
		t.Fatalf("divergence = %v, want value-signal = %v", m.Divergence, m.Value-m.Signal)
	}
}
