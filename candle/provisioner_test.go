package candle

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/candletrader/exchange"
	"github.com/rustyeddy/candletrader/market"
	"github.com/rustyeddy/candletrader/store"
)

type countingExchange struct {
	inner exchange.Exchange
	calls int
}

func (c *countingExchange) Candles(ctx context.Context, symbol string, minutes int32, start, end time.Time, limit int) ([]market.Candle, error) {
	c.calls++
	return c.inner.Candles(ctx, symbol, minutes, start, end, limit)
}

func mustStore(t *testing.T) *store.SQLite {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProvisionerFillsSmallHole(t *testing.T) {
	loc := time.UTC
	day := time.Date(2020, 11, 11, 0, 0, 0, 0, loc)
	ctx := context.Background()

	s := mustStore(t)
	pre := []market.Candle{
		market.NewCandle("BTCUSDT", 15, day.Add(10*time.Hour), 1, 1, 1, 1, 1),
		market.NewCandle("BTCUSDT", 15, day.Add(10*time.Hour+15*time.Minute), 1, 1, 1, 1, 1),
		market.NewCandle("BTCUSDT", 15, day.Add(10*time.Hour+45*time.Minute), 1, 1, 1, 1, 1),
	}
	if err := s.InsertCandles(ctx, pre); err != nil {
		t.Fatal(err)
	}

	missingBar := market.NewCandle("BTCUSDT", 15, day.Add(10*time.Hour+30*time.Minute), 1, 1, 1, 1, 1)
	ex := &countingExchange{inner: exchange.NewFixed([]market.Candle{missingBar})}
	p := NewProvisioner(s, ex)

	sel := market.Selection{Symbol: "BTCUSDT", Minutes: 15, StartTime: day.Add(10 * time.Hour), EndTime: day.Add(10*time.Hour + 45*time.Minute)}
	got, err := p.Provide(ctx, sel)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d candles, want 4", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].OpenTime.Sub(got[i-1].OpenTime) != 15*time.Minute {
			t.Fatalf("candle %d not strictly 15m after previous", i)
		}
	}
	if ex.calls != 1 {
		t.Fatalf("exchange calls = %d, want exactly 1", ex.calls)
	}

	ex.calls = 0
	got2, err := p.Provide(ctx, sel)
	if err != nil {
		t.Fatal(err)
	}
	if ex.calls != 0 {
		t.Fatalf("second provide made %d exchange calls, want 0", ex.calls)
	}
	if len(got2) != len(got) {
		t.Fatalf("second provide returned %d candles, want %d", len(got2), len(got))
	}
}

func TestProvisionerEmptyStoreBootstrap(t *testing.T) {
	loc := time.UTC
	day := time.Date(2020, 11, 11, 0, 0, 0, 0, loc)
	ctx := context.Background()

	s := mustStore(t)
	bars := []market.Candle{
		market.NewCandle("BTCUSDT", 15, day.Add(10*time.Hour), 1, 1, 1, 1, 1),
		market.NewCandle("BTCUSDT", 15, day.Add(10*time.Hour+15*time.Minute), 1, 1, 1, 1, 1),
		market.NewCandle("BTCUSDT", 15, day.Add(10*time.Hour+30*time.Minute), 1, 1, 1, 1, 1),
	}
	ex := &countingExchange{inner: exchange.NewFixed(bars)}
	p := NewProvisioner(s, ex)

	sel := market.Selection{Symbol: "BTCUSDT", Minutes: 15, StartTime: day.Add(10 * time.Hour), EndTime: day.Add(10*time.Hour + 30*time.Minute)}
	got, err := p.Provide(ctx, sel)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d candles, want 3", len(got))
	}
	if ex.calls != 1 {
		t.Fatalf("exchange calls = %d, want exactly 1", ex.calls)
	}

	stored, err := s.CandlesByTime(ctx, "BTCUSDT", 15, day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 3 {
		t.Fatalf("store has %d candles, want 3", len(stored))
	}
	for i, c := range stored {
		if c.ID != int64(i+1) {
			t.Errorf("stored candle %d has id %d, want dense id %d", i, c.ID, i+1)
		}
	}
}
