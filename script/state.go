package script

import (
	"context"
	"sync"

	"github.com/rustyeddy/candletrader/ledger"
	"github.com/rustyeddy/candletrader/market"
	"github.com/rustyeddy/candletrader/tradectx"
)

// ScriptState is the mutable per-bar slot run() writes its verdict into.
type ScriptState struct {
	Log            []string
	OperationOpt   *market.TradeOperation
	ChangedTrend   bool
	TrendDirection market.TrendDirection
}

// slot is the process-wide, single-threaded-cooperative binding the host
// functions read: the current TradeContext, the current read-only
// Position snapshot, and the ScriptState run() is filling in. It is held
// for the duration of exactly one run() dispatch, guarded by mu so only
// one strategy thread evaluates a bar at a time.
type slot struct {
	mu       sync.Mutex
	ctx      context.Context
	tc       *tradectx.TradeContext
	position ledger.Position
	state    *ScriptState
}

var current slot

// acquire locks the slot for one run() dispatch and populates it with a
// fresh ScriptState, returning the unlock function.
func acquire(ctx context.Context, tc *tradectx.TradeContext, position ledger.Position) (*ScriptState, func()) {
	current.mu.Lock()
	state := &ScriptState{}
	current.ctx = ctx
	current.tc = tc
	current.position = position
	current.state = state
	return state, current.mu.Unlock
}
