// Package candle implements the gap analyzer and in-memory candle buffer:
// the pieces that sit directly on top of market's bar-aligned time types
// and feed the provisioner.
package candle

import "errors"

// Sentinel errors matching the fatal error kinds the gap analyzer and
// buffer can raise. Callers use errors.Is against these. Invalid-range
// rejection is tagged by market.ErrInvalidRange instead, at the point
// ranges are constructed.
var (
	ErrInconsistentPeriod = errors.New("candle: inconsistent period")
	ErrUnsortedInput      = errors.New("candle: unsorted input")
)
