package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/rustyeddy/candletrader/indicator"
	"github.com/rustyeddy/candletrader/market"
)

// registerHostFuncs binds every host function a strategy script can call
// onto L as a Lua closure. Each closure reads the current slot rather
// than capturing per-call state, since the same LState is reused across
// every bar.
func registerHostFuncs(L *lua.LState) {
	L.SetGlobal("price", L.NewFunction(hostPrice))
	L.SetGlobal("ema", L.NewFunction(hostEMA))
	L.SetGlobal("sma", L.NewFunction(hostSMA))
	L.SetGlobal("rsi", L.NewFunction(hostRSI))
	L.SetGlobal("macd", L.NewFunction(hostMACD))
	L.SetGlobal("macd_signal", L.NewFunction(hostMACDSignal))
	L.SetGlobal("macd_divergence", L.NewFunction(hostMACDDivergence))

	L.SetGlobal("balance_fiat", L.NewFunction(hostBalanceFiat))
	L.SetGlobal("balance_asset", L.NewFunction(hostBalanceAsset))
	L.SetGlobal("is_bought", L.NewFunction(hostIsBought))
	L.SetGlobal("is_sold", L.NewFunction(hostIsSold))
	L.SetGlobal("gain_perc", L.NewFunction(hostGainPerc))

	L.SetGlobal("fiat_to_asset", L.NewFunction(hostFiatToAsset))
	L.SetGlobal("asset_to_fiat", L.NewFunction(hostAssetToFiat))

	L.SetGlobal("buy", L.NewFunction(hostBuy))
	L.SetGlobal("sell", L.NewFunction(hostSell))
	L.SetGlobal("log", L.NewFunction(hostLog))
	L.SetGlobal("set_change_trend_buy", L.NewFunction(hostSetChangeTrendBuy))
	L.SetGlobal("set_change_trend_sell", L.NewFunction(hostSetChangeTrendSell))
}

func hostPrice(L *lua.LState) int {
	L.Push(lua.LNumber(current.tc.Price()))
	return 1
}

func hostEMA(L *lua.LState) int {
	minutes := int32(L.CheckInt(1))
	period := L.CheckInt(2)
	v, err := current.tc.EMA(current.ctx, minutes, period)
	if err != nil {
		L.RaiseError("ema: %v", err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func hostSMA(L *lua.LState) int {
	minutes := int32(L.CheckInt(1))
	period := L.CheckInt(2)
	v, err := current.tc.SMA(current.ctx, minutes, period)
	if err != nil {
		L.RaiseError("sma: %v", err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func hostRSI(L *lua.LState) int {
	minutes := int32(L.CheckInt(1))
	period := L.CheckInt(2)
	v, err := current.tc.RSI(current.ctx, minutes, period)
	if err != nil {
		L.RaiseError("rsi: %v", err)
	}
	L.Push(lua.LNumber(v))
	return 1
}

func hostMACD(L *lua.LState) int {
	m, err := macdFromArgs(L)
	if err != nil {
		L.RaiseError("macd: %v", err)
	}
	L.Push(lua.LNumber(m.Value))
	return 1
}

func hostMACDSignal(L *lua.LState) int {
	m, err := macdFromArgs(L)
	if err != nil {
		L.RaiseError("macd_signal: %v", err)
	}
	L.Push(lua.LNumber(m.Signal))
	return 1
}

func hostMACDDivergence(L *lua.LState) int {
	m, err := macdFromArgs(L)
	if err != nil {
		L.RaiseError("macd_divergence: %v", err)
	}
	L.Push(lua.LNumber(m.Divergence))
	return 1
}

// macdFromArgs reads the (minutes, fast, slow, signal) argument quartet
// the three macd_* host functions share and fetches the triple through
// the current TradeContext.
func macdFromArgs(L *lua.LState) (indicator.MACD, error) {
	minutes := int32(L.CheckInt(1))
	fast := L.CheckInt(2)
	slow := L.CheckInt(3)
	signal := L.CheckInt(4)
	return current.tc.MACD(current.ctx, minutes, fast, slow, signal)
}

func hostBalanceFiat(L *lua.LState) int {
	L.Push(lua.LNumber(current.position.BalanceFiat))
	return 1
}

func hostBalanceAsset(L *lua.LState) int {
	L.Push(lua.LNumber(current.position.BalanceAsset))
	return 1
}

func hostIsBought(L *lua.LState) int {
	L.Push(lua.LBool(current.position.IsBought()))
	return 1
}

func hostIsSold(L *lua.LState) int {
	L.Push(lua.LBool(current.position.IsSold()))
	return 1
}

func hostGainPerc(L *lua.LState) int {
	L.Push(lua.LNumber(current.tc.LastGainPerc()))
	return 1
}

func hostFiatToAsset(L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	L.Push(lua.LNumber(current.position.FiatToAsset(x)))
	return 1
}

func hostAssetToFiat(L *lua.LState) int {
	x := float64(L.CheckNumber(1))
	L.Push(lua.LNumber(current.position.AssetToFiat(x)))
	return 1
}

func hostBuy(L *lua.LState) int {
	qty := float64(L.CheckNumber(1))
	current.state.OperationOpt = &market.TradeOperation{
		Kind:  market.Buy,
		Qty:   qty,
		Now:   current.tc.Now(),
		Price: current.tc.Price(),
	}
	return 0
}

func hostSell(L *lua.LState) int {
	qty := float64(L.CheckNumber(1))
	current.state.OperationOpt = &market.TradeOperation{
		Kind:  market.Sell,
		Qty:   qty,
		Now:   current.tc.Now(),
		Price: current.tc.Price(),
	}
	return 0
}

func hostLog(L *lua.LState) int {
	current.state.Log = append(current.state.Log, L.CheckString(1))
	return 0
}

func hostSetChangeTrendBuy(L *lua.LState) int {
	if L.CheckBool(1) {
		current.state.ChangedTrend = true
		current.state.TrendDirection = market.TrendBuy
	}
	return 0
}

func hostSetChangeTrendSell(L *lua.LState) int {
	if L.CheckBool(1) {
		current.state.ChangedTrend = true
		current.state.TrendDirection = market.TrendSell
	}
	return 0
}
