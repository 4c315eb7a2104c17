package candle

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/candletrader/market"
)

// Buffer is an ordered, in-memory open_time -> Candle mapping scoped to one
// (symbol, minutes) series: keep it sorted, scan for gaps, using a sorted
// slice rather than a real tree since Go has no ordered-map type in the
// standard library.
type Buffer struct {
	Symbol  string
	Minutes int32

	bars  []market.Candle // kept sorted by OpenTime, unique keys
	start time.Time
	end   time.Time
	has   bool
}

// NewBuffer returns an empty buffer for one (symbol, minutes) series.
func NewBuffer(symbol string, minutes int32) *Buffer {
	return &Buffer{Symbol: symbol, Minutes: minutes}
}

// PushCandles validates batch's periodicity against the buffer and the
// buffer's declared symbol/minutes, inserts it in sorted order, and
// updates the tracked start/end extrema. A batch need not itself be
// contiguous: InconsistentPeriod only fires on an outright minutes or
// symbol mismatch, not on a batch that itself contains a hole.
func (b *Buffer) PushCandles(batch []market.Candle) error {
	for _, c := range batch {
		if c.Minutes != b.Minutes || c.Symbol != b.Symbol {
			return fmt.Errorf("%w: candle %s/%d does not match buffer %s/%d",
				ErrInconsistentPeriod, c.Symbol, c.Minutes, b.Symbol, b.Minutes)
		}
	}
	for _, c := range batch {
		b.insert(c)
	}
	return nil
}

func (b *Buffer) insert(c market.Candle) {
	i := sort.Search(len(b.bars), func(i int) bool { return !b.bars[i].OpenTime.Before(c.OpenTime) })
	if i < len(b.bars) && b.bars[i].OpenTime.Equal(c.OpenTime) {
		b.bars[i] = c
	} else {
		b.bars = append(b.bars, market.Candle{})
		copy(b.bars[i+1:], b.bars[i:])
		b.bars[i] = c
	}
	if !b.has || c.OpenTime.Before(b.start) {
		b.start = c.OpenTime
	}
	if !b.has || c.OpenTime.After(b.end) {
		b.end = c.OpenTime
	}
	b.has = true
}

// CandlesFromRange returns the bars with open_time in [s,e], in key order.
func (b *Buffer) CandlesFromRange(s, e time.Time) []market.Candle {
	lo := sort.Search(len(b.bars), func(i int) bool { return !b.bars[i].OpenTime.Before(s) })
	hi := sort.Search(len(b.bars), func(i int) bool { return b.bars[i].OpenTime.After(e) })
	if lo >= hi {
		return nil
	}
	out := make([]market.Candle, hi-lo)
	copy(out, b.bars[lo:hi])
	return out
}

// MissingRanges delegates to the gap analyzer over the buffer's contents
// restricted to [s,e].
func (b *Buffer) MissingRanges(s, e time.Time) ([]market.OpenCloseRange, error) {
	r, err := market.RangeFromDates(s, e, b.Minutes)
	if err != nil {
		return nil, err
	}
	present := b.CandlesFromRange(s, e)
	return Gaps(r, b.Minutes, present)
}

// Len returns the number of bars currently held.
func (b *Buffer) Len() int { return len(b.bars) }

// Bounds reports the tracked start/end extrema and whether the buffer has
// ever held a bar.
func (b *Buffer) Bounds() (start, end time.Time, ok bool) { return b.start, b.end, b.has }
