package interaction

import (
	"testing"

	"candlechart/internal/model"
	"candlechart/internal/series"
)

func snapSeries() *series.Series {
	return series.FromCandles([]model.Candle{
		{TS: 1000, Open: 1, High: 2, Low: 0, Close: 1},
		{TS: 2000, Open: 1, High: 2, Low: 0, Close: 1},
		{TS: 3000, Open: 1, High: 2, Low: 0, Close: 1},
		{TS: 4000, Open: 1, High: 2, Low: 0, Close: 1},
		{TS: 5000, Open: 1, High: 2, Low: 0, Close: 1},
	})
}

func TestCrosshair_SnapsToNearestCandle(t *testing.T) {
	vp := testVP()
	vp.Time = model.TimeRange{Start: 0, End: 5000}
	ser := snapSeries()
	c := NewCrosshair(vp, func() *series.Series { return ser })

	// x=400 of 800 -> t=2500, equidistant from 2000 and 3000; either
	// neighbor is an acceptable tie winner.
	c.HandleEvent(move(400, 300))
	st := c.State()

	if !st.Visible {
		t.Fatalf("expected visible crosshair")
	}
	if st.Time != 2500 {
		t.Errorf("expected cursor time 2500, got %d", st.Time)
	}
	if st.Candle == nil {
		t.Fatalf("expected snapped candle")
	}
	if st.Candle.TS != 2000 && st.Candle.TS != 3000 {
		t.Errorf("expected snap to 2000 or 3000, got %d", st.Candle.TS)
	}

	// Slightly right of the midpoint: unambiguous nearest.
	c.HandleEvent(move(500, 300))
	st = c.State()
	if st.Candle == nil || st.Candle.TS != 3000 {
		t.Errorf("expected snap to 3000, got %+v", st.Candle)
	}
	if st.CandleIndex != 2 {
		t.Errorf("expected candle index 2, got %d", st.CandleIndex)
	}
}

func TestCrosshair_OnlySnapsVisibleCandles(t *testing.T) {
	vp := testVP()
	// Window covers no candles at all.
	vp.Time = model.TimeRange{Start: 10000, End: 11000}
	ser := snapSeries()
	c := NewCrosshair(vp, func() *series.Series { return ser })

	c.HandleEvent(move(400, 300))
	st := c.State()

	if !st.Visible {
		t.Errorf("crosshair should stay visible without a snap target")
	}
	if st.Candle != nil {
		t.Errorf("snapped to an off-screen candle: %+v", st.Candle)
	}
	if st.Time == 0 {
		t.Errorf("domain time not computed")
	}
}

func TestCrosshair_PartiallyVisibleRange(t *testing.T) {
	vp := testVP()
	// Only candles 3000..5000 are visible.
	vp.Time = model.TimeRange{Start: 2500, End: 5500}
	ser := snapSeries()
	c := NewCrosshair(vp, func() *series.Series { return ser })

	// Cursor at the left edge: nearest visible is 3000, never 2000.
	c.HandleEvent(move(10, 300))
	st := c.State()
	if st.Candle == nil || st.Candle.TS != 3000 {
		t.Errorf("expected snap to first visible candle 3000, got %+v", st.Candle)
	}
}

func TestCrosshair_HiddenOnLeave(t *testing.T) {
	vp := testVP()
	vp.Time = model.TimeRange{Start: 0, End: 5000}
	ser := snapSeries()
	c := NewCrosshair(vp, func() *series.Series { return ser })

	c.HandleEvent(move(400, 300))
	if !c.State().Visible {
		t.Fatalf("expected visible after move")
	}

	c.HandleEvent(model.Event{Type: model.EventMouseLeave})
	if c.State().Visible {
		t.Errorf("expected hidden after mouse leave")
	}
}

func TestCrosshair_EmptySeries(t *testing.T) {
	vp := testVP()
	ser := series.New()
	c := NewCrosshair(vp, func() *series.Series { return ser })

	c.HandleEvent(move(400, 300))
	st := c.State()
	if st.Candle != nil {
		t.Errorf("snap on empty series: %+v", st.Candle)
	}
	if !st.Visible {
		t.Errorf("crosshair should be visible over an empty chart")
	}
}
