package market

import "time"

// OperationKind distinguishes a TradeOperation's side.
type OperationKind int

const (
	Buy OperationKind = iota
	Sell
)

func (k OperationKind) String() string {
	if k == Sell {
		return "sell"
	}
	return "buy"
}

// TradeOperation is the verdict a script can emit for one bar: a side and
// a quantity, stamped with the bar's time and price.
type TradeOperation struct {
	Kind        OperationKind
	Qty         float64
	Now         time.Time
	Price       float64
	Description string
}
