// Package interaction implements the chart's input state machines: drag
// panning, wheel zoom and scroll, and crosshair snapping.
//
// Handlers are constructed once per chart and share the chart's single
// Viewport by pointer; they mutate it in place during their own gesture
// and never re-register or swap it.
package interaction

import (
	"candlechart/internal/model"
	"candlechart/internal/viewport"
)

type panState int

const (
	panIdle panState = iota
	panningTime
	panningPrice
)

// Pan is the drag-pan state machine: Idle -> PanningTime|PanningPrice ->
// Idle. A primary-button pointer-down starts a drag; holding shift pans
// price instead of time. Pointer-cancel restores the exact viewport
// snapshot captured at drag start.
type Pan struct {
	vp    *viewport.Viewport
	state panState

	lastX, lastY float64

	// Snapshot taken at drag start, restored on cancel.
	snapTime  model.TimeRange
	snapPrice model.ViewportPriceConfig
}

// NewPan creates a pan handler over the shared viewport.
func NewPan(vp *viewport.Viewport) *Pan {
	return &Pan{vp: vp}
}

// Active reports whether a drag is in progress.
func (p *Pan) Active() bool { return p.state != panIdle }

// HandleEvent advances the state machine. Returns true if the event was
// consumed.
func (p *Pan) HandleEvent(ev model.Event) bool {
	switch ev.Type {
	case model.EventPointerDown:
		if ev.Button != model.ButtonPrimary {
			return false
		}
		if ev.ShiftKey {
			p.state = panningPrice
		} else {
			p.state = panningTime
		}
		p.lastX, p.lastY = ev.ChartX, ev.ChartY
		p.snapTime = p.vp.Time
		p.snapPrice = p.vp.Price
		return true

	case model.EventPointerMove:
		if p.state == panIdle {
			return false
		}
		p.move(ev.ChartX, ev.ChartY)
		return true

	case model.EventPointerUp:
		if p.state == panIdle {
			return false
		}
		p.state = panIdle
		return true

	case model.EventPointerCancel:
		if p.state == panIdle {
			return false
		}
		// Revert the whole gesture, not just the last step.
		p.vp.Time = p.snapTime
		p.vp.Price = p.snapPrice
		p.state = panIdle
		return true
	}
	return false
}

// move converts the pixel delta since the last event into a domain delta
// using the viewport's current scale, then pans.
func (p *Pan) move(x, y float64) {
	dx := x - p.lastX
	dy := y - p.lastY
	p.lastX, p.lastY = x, y

	switch p.state {
	case panningTime:
		if p.vp.Width == 0 {
			return
		}
		// Dragging right moves the window left.
		delta := int64(-dx / p.vp.Width * float64(p.vp.Time.Span()))
		p.vp.Pan(delta, 0)

	case panningPrice:
		inner := p.vp.Height - 2*p.vp.Price.PaddingPx
		if inner == 0 {
			return
		}
		// Dragging down reveals higher prices (y axis is inverted).
		delta := dy / inner * p.vp.Price.Span()
		p.vp.Pan(0, delta)
	}
}
