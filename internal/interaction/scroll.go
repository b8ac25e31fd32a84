package interaction

import (
	"math"

	"candlechart/internal/model"
	"candlechart/internal/viewport"
)

// scrollFraction is the time shift per wheel unit: 1% of the current span.
const scrollFraction = 0.01

// Scroll routes wheel events according to the configured wheel mode:
// zoomX hands the event to the Zoom handler, scrollX pans the time axis,
// and blend picks one based on which wheel axis dominates.
type Scroll struct {
	vp   *viewport.Viewport
	zoom *Zoom
	Mode model.WheelMode
}

// NewScroll creates a scroll handler delegating zooming to zoom.
func NewScroll(vp *viewport.Viewport, zoom *Zoom, mode model.WheelMode) *Scroll {
	if mode == "" {
		mode = model.WheelZoomX
	}
	return &Scroll{vp: vp, zoom: zoom, Mode: mode}
}

// HandleWheel applies one wheel event. Returns true if consumed.
func (s *Scroll) HandleWheel(ev model.Event) bool {
	if ev.Type != model.EventWheel {
		return false
	}
	switch s.Mode {
	case model.WheelZoomX:
		return s.zoom.HandleWheel(ev)

	case model.WheelScrollX:
		return s.scrollBy(ev.DeltaY)

	case model.WheelBlend:
		if math.Abs(ev.DeltaX) > math.Abs(ev.DeltaY) {
			return s.scrollBy(ev.DeltaX)
		}
		return s.zoom.HandleWheel(ev)
	}
	return false
}

// ScrollBy pans the time axis by the given number of wheel units.
func (s *Scroll) ScrollBy(units float64) {
	s.scrollBy(units)
}

func (s *Scroll) scrollBy(units float64) bool {
	if units == 0 {
		return false
	}
	delta := int64(units * scrollFraction * float64(s.vp.Time.Span()))
	if delta == 0 {
		// Preserve at least one ms of motion for tiny spans.
		if units > 0 {
			delta = 1
		} else {
			delta = -1
		}
	}
	s.vp.Pan(delta, 0)
	return true
}
