package interaction

import (
	"candlechart/internal/model"
	"candlechart/internal/series"
	"candlechart/internal/viewport"
)

// SeriesProvider returns the series the crosshair snaps against, or nil.
type SeriesProvider func() *series.Series

// Crosshair tracks the pointer, converts it to domain coordinates, and
// snaps to the nearest candle inside the currently visible index range.
type Crosshair struct {
	vp       *viewport.Viewport
	provider SeriesProvider
	state    model.CrosshairState
}

// NewCrosshair creates a crosshair handler over the shared viewport.
func NewCrosshair(vp *viewport.Viewport, provider SeriesProvider) *Crosshair {
	return &Crosshair{vp: vp, provider: provider}
}

// State returns the current crosshair state.
func (c *Crosshair) State() model.CrosshairState { return c.state }

// HandleEvent recomputes the crosshair on pointer moves and hides it on
// pointer leave. Returns true if the event was consumed.
func (c *Crosshair) HandleEvent(ev model.Event) bool {
	switch ev.Type {
	case model.EventPointerMove:
		c.update(ev.ChartX, ev.ChartY)
		return true
	case model.EventMouseLeave, model.EventPointerCancel:
		c.state.Visible = false
		return true
	}
	return false
}

func (c *Crosshair) update(x, y float64) {
	c.state = model.CrosshairState{
		X:       x,
		Y:       y,
		Time:    c.vp.InvX(x),
		Price:   c.vp.InvY(y),
		Visible: true,
	}

	var ser *series.Series
	if c.provider != nil {
		ser = c.provider()
	}
	if ser == nil || ser.Len() == 0 {
		return
	}

	// Snapping only considers candles inside the visible window.
	lo := ser.FirstIndexAtOrAfter(c.vp.Time.Start)
	hi := ser.LastIndexAtOrBefore(c.vp.Time.End)
	if lo > hi {
		return // no visible candle; pixel/domain fields stay valid
	}

	// Binary-search the candle at-or-after the cursor time, then compare
	// it with its immediate neighbors and keep the closest in time.
	at := ser.FirstIndexAtOrAfter(c.state.Time)
	best := -1
	var bestDist int64
	for _, i := range []int{at - 1, at, at + 1} {
		if i < lo || i > hi {
			continue
		}
		d := c.state.Time - ser.CandleAt(i).TS
		if d < 0 {
			d = -d
		}
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best == -1 {
		return
	}

	candle := ser.CandleAt(best)
	c.state.Candle = &candle
	c.state.CandleIndex = best
}
