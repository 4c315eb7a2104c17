package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/candletrader/ledger"
	"github.com/rustyeddy/candletrader/market"
	"github.com/rustyeddy/candletrader/store"
	"github.com/rustyeddy/candletrader/tradectx"
)

type fakeProvider struct {
	states []market.TrendState
	i      int
}

func (f *fakeProvider) Trend(ctx context.Context, position ledger.Position, tc *tradectx.TradeContext) (market.TrendState, error) {
	s := f.states[f.i]
	if f.i < len(f.states)-1 {
		f.i++
	}
	return s, nil
}

func newTestTrader(t *testing.T, states []market.TrendState) *Trader {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	pos := ledger.NewPosition("p1", "test", 1000, 100)
	reg := ledger.NewRegister(pos, s)
	tc := tradectx.New("BTCUSDT", nil)
	return NewTrader(tc, reg, &fakeProvider{states: states})
}

func TestTraderRoutesOperationToLedger(t *testing.T) {
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	op := market.TradeOperation{Kind: market.Buy, Qty: 1, Now: now, Price: 100}
	tr := newTestTrader(t, []market.TrendState{{TrendDirection: market.TrendBuy, TradeOperationOp: &op}})

	if err := tr.Check(context.Background(), now, 100); err != nil {
		t.Fatal(err)
	}
	if len(tr.TradeLog()) != 1 {
		t.Fatalf("trade log has %d entries, want 1", len(tr.TradeLog()))
	}
	if tr.Register.Position().BalanceAsset != 1 {
		t.Fatalf("balance_asset = %v, want 1", tr.Register.Position().BalanceAsset)
	}
}

func TestTraderRejectsOutOfOrderBars(t *testing.T) {
	tr := newTestTrader(t, []market.TrendState{{}})
	first := time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC)
	second := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := tr.Check(context.Background(), first, 100); err != nil {
		t.Fatal(err)
	}
	if err := tr.Check(context.Background(), second, 100); err == nil {
		t.Fatal("expected error for a bar that does not strictly follow the previous one")
	}
}

func TestTraderSkipsRegisterOnNilOperation(t *testing.T) {
	tr := newTestTrader(t, []market.TrendState{{TrendDirection: market.TrendNone}})
	now := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := tr.Check(context.Background(), now, 100); err != nil {
		t.Fatal(err)
	}
	if len(tr.TradeLog()) != 0 {
		t.Fatalf("trade log has %d entries, want 0", len(tr.TradeLog()))
	}
}
