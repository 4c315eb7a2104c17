package script

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/rustyeddy/candletrader/ledger"
	"github.com/rustyeddy/candletrader/market"
	"github.com/rustyeddy/candletrader/tradectx"
)

const entryPoint = "run"

// Adapter loads a strategy script once and evaluates it bar by bar
// through a single persistent *lua.LState. A script is expected to
// define a global run() function with no arguments and no return value;
// it communicates its verdict by calling the host functions registered
// in host_funcs.go.
type Adapter struct {
	mu sync.Mutex
	L  *lua.LState
}

// NewAdapter loads the Lua file at path and registers the host function
// table. The script's top level runs once, at load time, exactly as a
// require'd Lua module would; run() is expected to be defined by then.
func NewAdapter(path string) (*Adapter, error) {
	L := lua.NewState()
	registerHostFuncs(L)
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	if L.GetGlobal(entryPoint) == lua.LNil {
		L.Close()
		return nil, fmt.Errorf("script: %s: no run() function defined", path)
	}
	return &Adapter{L: L}, nil
}

// Close releases the underlying Lua state.
func (a *Adapter) Close() { a.L.Close() }

// Trend evaluates run() for one bar, translating the resulting
// ScriptState into a market.TrendState. It implements
// strategy.TrendProvider.
func (a *Adapter) Trend(ctx context.Context, position ledger.Position, tc *tradectx.TradeContext) (market.TrendState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, unlock := acquire(ctx, tc, position)
	defer unlock()

	err := a.L.CallByParam(lua.P{
		Fn:      a.L.GetGlobal(entryPoint),
		NRet:    0,
		Protect: true,
	})
	if err != nil {
		return market.TrendState{}, fmt.Errorf("%w: %v", ErrScriptRuntime, err)
	}

	result := market.TrendState{TradeOperationOp: state.OperationOpt}
	if state.ChangedTrend {
		result.TrendDirection = state.TrendDirection
	} else {
		result.TrendDirection = market.TrendNone
	}
	return result, nil
}
