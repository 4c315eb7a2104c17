// Package script is the opaque strategy evaluator: a gopher-lua program
// with a single entry point, run(), that reads indicators and position
// state through host functions and writes its verdict into a scoped
// ScriptState.
package script

import "errors"

// ErrScriptRuntime wraps any error the Lua runtime raised while
// executing run(); strategy.Trader.Check returns it for the bar, and
// script-back-test stops the run on it.
var ErrScriptRuntime = errors.New("script: runtime error")

// ErrNotConfigured names the condition of a host function that needs a
// TradeContext being called outside of a run() dispatch. The host
// functions in host_funcs.go do not check for that condition and do not
// return this error: they read the slot as it stands.
var ErrNotConfigured = errors.New("script: not configured")
