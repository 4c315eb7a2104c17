package ledger

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/rustyeddy/candletrader/market"
	"github.com/rustyeddy/candletrader/store"
)

// FlowStore is the persistence the Register writes through. store.SQLite
// satisfies this.
type FlowStore interface {
	InsertFlow(ctx context.Context, rec store.FlowRecord) (int64, error)
}

// Register owns one Position exclusively and is the only component
// allowed to mutate it: a script observes the position through a
// read-only snapshot, never through the Register itself.
type Register struct {
	position Position
	store    FlowStore
	log      []market.TradeOperation
}

// NewRegister opens a Register for position, persisting flows through s.
func NewRegister(position Position, s FlowStore) *Register {
	return &Register{position: position, store: s}
}

// Position returns a read-only snapshot of the current balances.
func (r *Register) Position() Position { return r.position }

// Log returns the trade operations registered so far, in order.
func (r *Register) Log() []market.TradeOperation {
	out := make([]market.TradeOperation, len(r.log))
	copy(out, r.log)
	return out
}

// Register clamps op against the current balances, applies it to the
// position, persists a Flow row, and appends op to the trade log. Per the
// scheduling model, this call must complete (including its Flow write)
// before the next bar's Register call begins; a failed Flow write is a
// bug, not something this call retries.
func (r *Register) Register(ctx context.Context, op market.TradeOperation) (Flow, error) {
	qty := op.Qty
	switch op.Kind {
	case market.Buy:
		if cost := qty * op.Price; cost > r.position.BalanceFiat {
			clamped := r.position.BalanceFiat / op.Price
			log.Printf("ledger: clamping buy qty %.8f to %.8f (insufficient fiat balance)", qty, clamped)
			qty = clamped
		}
	case market.Sell:
		if qty > r.position.BalanceAsset {
			log.Printf("ledger: clamping sell qty %.8f to %.8f (insufficient asset balance)", qty, r.position.BalanceAsset)
			qty = r.position.BalanceAsset
		}
	default:
		return Flow{}, fmt.Errorf("ledger: unknown operation kind %v", op.Kind)
	}

	old := r.position.RealBalanceFiat

	switch op.Kind {
	case market.Buy:
		r.position.BalanceFiat -= qty * op.Price
		r.position.BalanceAsset += qty
	case market.Sell:
		r.position.BalanceAsset -= qty
		r.position.BalanceFiat += qty * op.Price
	}
	r.position.Price = op.Price
	r.position.RealBalanceFiat = r.position.BalanceAsset*r.position.Price + r.position.BalanceFiat

	if r.position.BalanceAsset < 0 {
		r.position.BalanceAsset = 0
	}
	if r.position.BalanceFiat < 0 {
		r.position.BalanceFiat = 0
	}

	gainPerc := 0.0
	if old != 0 {
		gainPerc = truncate2(((r.position.RealBalanceFiat/old)-1) * 100)
	}

	flow := Flow{
		PositionID:         r.position.ID,
		IsBuyerMaker:       op.Kind == market.Buy,
		Time:               op.Now,
		Price:              op.Price,
		Quantity:           qty,
		Total:              qty * op.Price,
		RealBalanceFiatOld: old,
		RealBalanceFiatNew: r.position.RealBalanceFiat,
		GainPerc:           gainPerc,
		Log:                op.Description,
	}

	id, err := r.store.InsertFlow(ctx, store.FlowRecord{
		Position:           flow.PositionID,
		IsBuyerMaker:       flow.IsBuyerMaker,
		Time:               flow.Time,
		Price:              flow.Price,
		Quantity:           flow.Quantity,
		Total:              flow.Total,
		RealBalanceFiatOld: flow.RealBalanceFiatOld,
		RealBalanceFiatNew: flow.RealBalanceFiatNew,
		GainPerc:           flow.GainPerc,
		Log:                flow.Log,
	})
	if err != nil {
		return Flow{}, fmt.Errorf("ledger: persist flow: %w", err)
	}
	flow.ID = id

	r.log = append(r.log, op)
	log.Printf("ledger: %s %.8f %s @ %.2f, gain %.2f%%", op.Kind, qty, r.position.ID, op.Price, gainPerc)

	return flow, nil
}

// truncate2 rounds v to 2 decimal places toward zero.
func truncate2(v float64) float64 {
	return math.Trunc(v*100) / 100
}
