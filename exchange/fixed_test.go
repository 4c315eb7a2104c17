package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/candletrader/market"
)

func TestFixedCandlesFiltersAndOrders(t *testing.T) {
	loc := time.UTC
	bars := []market.Candle{
		market.NewCandle("BTCUSDT", 15, time.Date(2020, 1, 1, 0, 15, 0, 0, loc), 1, 1, 1, 1, 1),
		market.NewCandle("BTCUSDT", 15, time.Date(2020, 1, 1, 0, 0, 0, 0, loc), 1, 1, 1, 1, 1),
		market.NewCandle("ETHUSDT", 15, time.Date(2020, 1, 1, 0, 0, 0, 0, loc), 1, 1, 1, 1, 1),
	}
	ex := NewFixed(bars)
	got, err := ex.Candles(context.Background(), "BTCUSDT", 15,
		time.Date(2020, 1, 1, 0, 0, 0, 0, loc), time.Date(2020, 1, 1, 0, 15, 0, 0, loc), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candles, want 2", len(got))
	}
	if !got[0].OpenTime.Before(got[1].OpenTime) {
		t.Fatal("candles not ordered ascending")
	}
}

func TestFixedCandlesBumpsEqualRange(t *testing.T) {
	loc := time.UTC
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, loc)
	bars := []market.Candle{market.NewCandle("BTCUSDT", 15, at, 1, 1, 1, 1, 1)}
	ex := NewFixed(bars)
	got, err := ex.Candles(context.Background(), "BTCUSDT", 15, at, at, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candles, want 1 (start==end must bump)", len(got))
	}
}
