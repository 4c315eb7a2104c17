package candle

import (
	"time"

	"github.com/rustyeddy/candletrader/market"
)

// run is a maximal stretch of present bars with no internal gap: min and
// max are the full open/close pair of the run's first and last bar.
type run struct {
	min market.OpenCloseTime
	max market.OpenCloseTime
}

// Gaps partitions r into the maximal bar-aligned sub-ranges not covered by
// present, which must be sorted ascending by open_time. present is allowed
// to span a wider window than r; only the overlap matters to the caller,
// though the scan itself runs over the whole slice.
func Gaps(r market.OpenCloseRange, minutes int32, present []market.Candle) ([]market.OpenCloseRange, error) {
	duration := time.Duration(minutes) * time.Minute

	for i := 1; i < len(present); i++ {
		if !present[i-1].OpenTime.Before(present[i].OpenTime) {
			return nil, ErrUnsortedInput
		}
	}

	if len(present) == 0 {
		return []market.OpenCloseRange{r}, nil
	}

	runs := buildRuns(present, duration)

	var out []market.OpenCloseRange

	if before, ok := boundaryGap(r.Start, runs[0].min.Sub(duration), false); ok {
		out = append(out, before)
	}

	for i := 1; i < len(runs); i++ {
		lo := runs[i-1].max.Add(duration)
		hi := runs[i].min.Sub(duration)
		if mid, ok := boundaryGap(lo, hi, false); ok {
			out = append(out, mid)
		}
	}

	if after, ok := boundaryGap(runs[len(runs)-1].max.Add(duration), r.End, false); ok {
		out = append(out, after)
	}

	return out, nil
}

// buildRuns scans present, which is assumed sorted, cutting a new run
// wherever two adjacent bars are not exactly one bar-width apart.
func buildRuns(present []market.Candle, duration time.Duration) []run {
	runs := make([]run, 0, 4)
	cur := run{
		min: market.OpenClose(present[0].OpenTime, present[0].CloseTime),
		max: market.OpenClose(present[0].OpenTime, present[0].CloseTime),
	}
	for i := 1; i < len(present); i++ {
		if present[i].OpenTime.Sub(present[i-1].OpenTime) != duration {
			runs = append(runs, cur)
			cur = run{
				min: market.OpenClose(present[i].OpenTime, present[i].CloseTime),
				max: market.OpenClose(present[i].OpenTime, present[i].CloseTime),
			}
			continue
		}
		cur.max = market.OpenClose(present[i].OpenTime, present[i].CloseTime)
	}
	runs = append(runs, cur)
	return runs
}

// boundaryGap emits the range [lo,hi] if it is non-inverted. With strict
// set, the degenerate lo==hi range is suppressed as well. Gaps passes
// strict=false on the leading edge, between runs and on the trailing edge,
// so a single missing bar in any of those places still produces the
// degenerate range (t,t); when the scan boundary meets a present bar
// exactly, hi is before lo and no range is emitted.
func boundaryGap(lo, hi market.OpenCloseTime, strict bool) (market.OpenCloseRange, bool) {
	if strict {
		if !lo.Before(hi) {
			return market.OpenCloseRange{}, false
		}
	} else {
		if hi.Before(lo) {
			return market.OpenCloseRange{}, false
		}
	}
	r, err := market.NewOpenCloseRange(lo, hi)
	if err != nil {
		return market.OpenCloseRange{}, false
	}
	return r, true
}
