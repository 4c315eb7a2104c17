package market

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange tags an inverted (start > end) range. Callers use
// errors.Is against this to distinguish it from other construction
// failures.
var ErrInvalidRange = errors.New("market: invalid range")

// OpenCloseTime is a tagged bar-aligned timestamp: it may carry an open
// time, a close time, or both. Two values with only an open side and only
// a close side are never equal and never ordered against each other.
// Mixing the variants is a programming error the type refuses to paper
// over.
type OpenCloseTime struct {
	open    time.Time
	close   time.Time
	hasOpen bool
	hasClose bool
}

// Open builds an OpenCloseTime carrying only an open time.
func Open(t time.Time) OpenCloseTime {
	return OpenCloseTime{open: t, hasOpen: true}
}

// Close builds an OpenCloseTime carrying only a close time.
func Close(t time.Time) OpenCloseTime {
	return OpenCloseTime{close: t, hasClose: true}
}

// OpenClose builds an OpenCloseTime carrying both sides. Callers are
// responsible for c == o + minutes - 1s; use FromDate to get that for
// free.
func OpenClose(o, c time.Time) OpenCloseTime {
	return OpenCloseTime{open: o, hasOpen: true, close: c, hasClose: true}
}

// FromDate snaps t down to the start of its minutes-aligned bar and
// returns the OpenClose pair for that bar.
func FromDate(t time.Time, minutes int32) OpenCloseTime {
	o := snapOpen(t, minutes)
	c := o.Add(time.Duration(minutes)*time.Minute - time.Second)
	return OpenClose(o, c)
}

// FromDateClose snaps a close timestamp to its bar and returns the
// OpenClose pair for that bar.
func FromDateClose(t time.Time, minutes int32) OpenCloseTime {
	// A close time is always open + minutes - 1s, so stepping back by
	// minutes-1s and re-snapping recovers the open.
	approxOpen := t.Add(-time.Duration(minutes)*time.Minute + time.Second)
	return FromDate(approxOpen, minutes)
}

func snapOpen(t time.Time, minutes int32) time.Time {
	t = t.UTC().Truncate(time.Second)
	m := int32(t.Minute()) % minutes
	truncated := t.Add(-time.Duration(m) * time.Minute)
	return time.Date(truncated.Year(), truncated.Month(), truncated.Day(),
		truncated.Hour(), truncated.Minute(), 0, 0, time.UTC)
}

// HasOpen reports whether the open side is populated.
func (t OpenCloseTime) HasOpen() bool { return t.hasOpen }

// HasClose reports whether the close side is populated.
func (t OpenCloseTime) HasClose() bool { return t.hasClose }

// OpenTime returns the open-side time. Panics if !HasOpen(); callers should
// check HasOpen first or use FromDate-constructed values, which always
// carry both sides.
func (t OpenCloseTime) OpenTime() time.Time {
	if !t.hasOpen {
		panic("market: OpenCloseTime has no open side")
	}
	return t.open
}

// CloseTime returns the close-side time. Panics if !HasClose().
func (t OpenCloseTime) CloseTime() time.Time {
	if !t.hasClose {
		panic("market: OpenCloseTime has no close side")
	}
	return t.close
}

// Add returns t shifted forward by d on whichever side(s) it carries.
func (t OpenCloseTime) Add(d time.Duration) OpenCloseTime {
	out := t
	if t.hasOpen {
		out.open = t.open.Add(d)
	}
	if t.hasClose {
		out.close = t.close.Add(d)
	}
	return out
}

// Sub returns t shifted backward by d.
func (t OpenCloseTime) Sub(d time.Duration) OpenCloseTime {
	return t.Add(-d)
}

// compareKind reports which side two OpenCloseTime values can be legally
// compared on: "open", "close", or "" if they are incomparable.
func compareKind(a, b OpenCloseTime) string {
	if a.hasOpen && b.hasOpen {
		return "open"
	}
	if a.hasClose && b.hasClose {
		return "close"
	}
	return ""
}

// Equal compares on the open side if both carry one, else on the close
// side. Comparing a pure-Open value against a pure-Close value always
// returns false: the two are not equatable, not merely "equal by
// coincidence of zero value".
func (t OpenCloseTime) Equal(o OpenCloseTime) bool {
	switch compareKind(t, o) {
	case "open":
		return t.open.Equal(o.open)
	case "close":
		return t.close.Equal(o.close)
	default:
		return false
	}
}

// Before reports whether t sorts strictly before o on their shared side.
// Panics if the two values carry no comparable side.
func (t OpenCloseTime) Before(o OpenCloseTime) bool {
	switch compareKind(t, o) {
	case "open":
		return t.open.Before(o.open)
	case "close":
		return t.close.Before(o.close)
	default:
		panic(fmt.Sprintf("market: cannot order incomparable OpenCloseTime values %v, %v", t, o))
	}
}

// After reports whether t sorts strictly after o.
func (t OpenCloseTime) After(o OpenCloseTime) bool {
	return o.Before(t)
}

func (t OpenCloseTime) String() string {
	switch {
	case t.hasOpen && t.hasClose:
		return fmt.Sprintf("[%s, %s]", t.open.Format(time.RFC3339), t.close.Format(time.RFC3339))
	case t.hasOpen:
		return "open:" + t.open.Format(time.RFC3339)
	case t.hasClose:
		return "close:" + t.close.Format(time.RFC3339)
	default:
		return "<empty>"
	}
}

// OpenCloseRange is a closed [Start, End] interval of OpenCloseTime with
// Start <= End enforced at construction.
type OpenCloseRange struct {
	Start OpenCloseTime
	End   OpenCloseTime
}

// NewOpenCloseRange rejects inversions (start > end) at the type layer so
// every downstream consumer can assume the invariant holds.
func NewOpenCloseRange(start, end OpenCloseTime) (OpenCloseRange, error) {
	if start.After(end) {
		return OpenCloseRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, start, end)
	}
	return OpenCloseRange{Start: start, End: end}, nil
}

// RangeFromDates builds an OpenCloseRange from two timestamps snapped to
// the minutes grid, failing with InvalidRange if start > end.
func RangeFromDates(start, end time.Time, minutes int32) (OpenCloseRange, error) {
	return NewOpenCloseRange(FromDate(start, minutes), FromDate(end, minutes))
}
