package ledger

import "time"

// Flow is a durable ledger row recording a single fill's effect on a
// position: the balances before and after, the realized gain, and an
// optional human-readable note.
type Flow struct {
	ID                 int64
	PositionID         string
	IsBuyerMaker       bool
	Time               time.Time
	Price              float64
	Quantity           float64
	Total              float64
	RealBalanceFiatOld float64
	RealBalanceFiatNew float64
	GainPerc           float64
	Log                string
}
