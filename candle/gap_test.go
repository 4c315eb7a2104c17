package candle

import (
	"testing"
	"time"

	"github.com/rustyeddy/candletrader/market"
)

func mustRange(t *testing.T, start, end time.Time, minutes int32) market.OpenCloseRange {
	t.Helper()
	r, err := market.RangeFromDates(start, end, minutes)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func bar(at time.Time, minutes int32) market.Candle {
	return market.NewCandle("BTCUSDT", minutes, at, 1, 1, 1, 1, 1)
}

func TestGapsExactBounds(t *testing.T) {
	const minutes = 15
	loc := time.UTC
	start := time.Date(2020, 11, 12, 12, 0, 0, 0, loc)
	end := time.Date(2020, 11, 20, 11, 15, 0, 0, loc)
	r := mustRange(t, start, end, minutes)

	present := []market.Candle{
		bar(time.Date(2020, 11, 12, 12, 0, 0, 0, loc), minutes),
		bar(time.Date(2020, 11, 12, 12, 15, 0, 0, loc), minutes),
		bar(time.Date(2020, 11, 16, 1, 15, 0, 0, loc), minutes),
		bar(time.Date(2020, 11, 20, 11, 15, 0, 0, loc), minutes),
	}

	got, err := Gaps(r, minutes, present)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d gaps, want 2: %+v", len(got), got)
	}

	wantFirstStart := time.Date(2020, 11, 12, 12, 30, 0, 0, loc)
	wantFirstEnd := time.Date(2020, 11, 16, 1, 0, 0, 0, loc)
	if !got[0].Start.OpenTime().Equal(wantFirstStart) || !got[0].End.OpenTime().Equal(wantFirstEnd) {
		t.Errorf("first gap = [%s, %s], want [%s, %s]", got[0].Start, got[0].End, wantFirstStart, wantFirstEnd)
	}

	wantSecondStart := time.Date(2020, 11, 16, 1, 30, 0, 0, loc)
	wantSecondEnd := time.Date(2020, 11, 20, 11, 0, 0, 0, loc)
	if !got[1].Start.OpenTime().Equal(wantSecondStart) || !got[1].End.OpenTime().Equal(wantSecondEnd) {
		t.Errorf("second gap = [%s, %s], want [%s, %s]", got[1].Start, got[1].End, wantSecondStart, wantSecondEnd)
	}
}

func TestGapsEmptyPresentReturnsWholeRange(t *testing.T) {
	r := mustRange(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2020, 1, 1, 1, 0, 0, 0, time.UTC), 15)
	got, err := Gaps(r, 15, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || !got[0].Start.Equal(r.Start) || !got[0].End.Equal(r.End) {
		t.Fatalf("got %+v, want single range %v", got, r)
	}
}

func TestGapsDegenerateSingleBar(t *testing.T) {
	loc := time.UTC
	minutes := int32(15)
	start := time.Date(2020, 1, 1, 10, 0, 0, 0, loc)
	end := time.Date(2020, 1, 1, 11, 0, 0, 0, loc)
	r := mustRange(t, start, end, minutes)

	present := []market.Candle{
		bar(time.Date(2020, 1, 1, 10, 0, 0, 0, loc), minutes),
		bar(time.Date(2020, 1, 1, 10, 15, 0, 0, loc), minutes),
		bar(time.Date(2020, 1, 1, 10, 45, 0, 0, loc), minutes),
		bar(time.Date(2020, 1, 1, 11, 0, 0, 0, loc), minutes),
	}

	got, err := Gaps(r, minutes, present)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d gaps, want exactly one degenerate gap: %+v", len(got), got)
	}
	want := time.Date(2020, 1, 1, 10, 30, 0, 0, loc)
	if !got[0].Start.OpenTime().Equal(want) || !got[0].End.OpenTime().Equal(want) {
		t.Errorf("degenerate gap = [%s, %s], want (%s,%s)", got[0].Start, got[0].End, want, want)
	}
}

func TestGapsUnsortedInput(t *testing.T) {
	loc := time.UTC
	r := mustRange(t, time.Date(2020, 1, 1, 0, 0, 0, 0, loc), time.Date(2020, 1, 1, 1, 0, 0, 0, loc), 15)
	present := []market.Candle{
		bar(time.Date(2020, 1, 1, 0, 15, 0, 0, loc), 15),
		bar(time.Date(2020, 1, 1, 0, 0, 0, 0, loc), 15),
	}
	if _, err := Gaps(r, 15, present); err != ErrUnsortedInput {
		t.Fatalf("err = %v, want ErrUnsortedInput", err)
	}
}
