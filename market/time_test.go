package market

import (
	"testing"
	"time"
)

func TestFromDateGridSnap(t *testing.T) {
	cases := []struct {
		in      string
		minutes int32
		wantO   string
	}{
		{"2020-11-11T10:07:33Z", 15, "2020-11-11T10:00:00Z"},
		{"2020-11-11T10:15:00Z", 15, "2020-11-11T10:15:00Z"},
		{"2020-11-11T10:44:59Z", 15, "2020-11-11T10:30:00Z"},
	}
	for _, c := range cases {
		ts, err := time.Parse(time.RFC3339, c.in)
		if err != nil {
			t.Fatal(err)
		}
		oc := FromDate(ts, c.minutes)
		wantO, _ := time.Parse(time.RFC3339, c.wantO)
		if !oc.OpenTime().Equal(wantO) {
			t.Errorf("FromDate(%s,%d).OpenTime() = %s, want %s", c.in, c.minutes, oc.OpenTime(), wantO)
		}
		if oc.OpenTime().Minute()%int(c.minutes) != 0 || oc.OpenTime().Second() != 0 {
			t.Errorf("open time %s is not grid-aligned to %d minutes", oc.OpenTime(), c.minutes)
		}
		wantClose := oc.OpenTime().Add(time.Duration(c.minutes)*time.Minute - time.Second)
		if !oc.CloseTime().Equal(wantClose) {
			t.Errorf("close time = %s, want %s", oc.CloseTime(), wantClose)
		}
	}
}

func TestOpenCloseTimeEqualRefusesMismatch(t *testing.T) {
	o := Open(time.Unix(0, 0))
	c := Close(time.Unix(0, 0))
	if o.Equal(c) {
		t.Fatal("pure Open and pure Close must never compare equal")
	}
}

func TestOpenCloseTimeBeforePanicsOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic ordering a pure Open against a pure Close")
		}
	}()
	o := Open(time.Unix(0, 0))
	c := Close(time.Unix(100, 0))
	_ = o.Before(c)
}

func TestRangeFromDatesRejectsInversion(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2020-01-02T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2020-01-01T00:00:00Z")
	if _, err := RangeFromDates(start, end, 15); err == nil {
		t.Fatal("expected InvalidRange error for start > end")
	}
}

func TestRangeFromDatesAccepts(t *testing.T) {
	start, _ := time.Parse(time.RFC3339, "2020-01-01T00:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2020-01-02T00:00:00Z")
	r, err := RangeFromDates(start, end, 15)
	if err != nil {
		t.Fatal(err)
	}
	if r.Start.After(r.End) {
		t.Fatal("start must not be after end")
	}
}
