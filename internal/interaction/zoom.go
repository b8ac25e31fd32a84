package interaction

import (
	"math"

	"candlechart/internal/model"
	"candlechart/internal/viewport"
)

// programmaticZoomStep is the fixed factor used by ZoomIn/ZoomOut.
const programmaticZoomStep = 1.2

// DataBounds supplies the stored data extent needed to clamp zooming:
// the full time domain and the average candle duration in milliseconds.
// ok is false when the chart holds no data.
type DataBounds func() (dom model.TimeRange, avgCandleDur int64, ok bool)

// Zoom handles wheel zooming. It is stateless per event: the wheel delta
// sign picks in vs out, the magnitude is scaled by the configured speed,
// and the zoom always centers on the pointer's x position. After each
// zoom the visible span is clamped to
// [minVisibleBars, maxVisibleBars] x averageCandleDuration within the
// data's time bounds.
type Zoom struct {
	vp     *viewport.Viewport
	bounds DataBounds

	Speed          float64 // zoom speed per wheel unit, e.g. 0.1
	MinVisibleBars int
	MaxVisibleBars int
}

// NewZoom creates a zoom handler over the shared viewport.
func NewZoom(vp *viewport.Viewport, bounds DataBounds, speed float64, minBars, maxBars int) *Zoom {
	if speed <= 0 {
		speed = 0.1
	}
	return &Zoom{vp: vp, bounds: bounds, Speed: speed, MinVisibleBars: minBars, MaxVisibleBars: maxBars}
}

// HandleWheel applies one wheel event. Returns true if consumed.
func (z *Zoom) HandleWheel(ev model.Event) bool {
	if ev.Type != model.EventWheel || ev.DeltaY == 0 {
		return false
	}
	factor := 1 + z.Speed*math.Abs(ev.DeltaY)/100
	if ev.DeltaY > 0 {
		factor = 1 / factor // wheel down zooms out
	}
	z.vp.Zoom(factor, ev.ChartX)
	z.clamp()
	return true
}

// ZoomIn zooms by the fixed programmatic step, centered on the viewport.
func (z *Zoom) ZoomIn() {
	z.vp.Zoom(programmaticZoomStep, z.vp.Width/2)
	z.clamp()
}

// ZoomOut zooms out by the fixed programmatic step, centered.
func (z *Zoom) ZoomOut() {
	z.vp.Zoom(1/programmaticZoomStep, z.vp.Width/2)
	z.clamp()
}

// Reset restores the viewport to the full data domain.
func (z *Zoom) Reset() {
	if z.bounds == nil {
		return
	}
	dom, _, ok := z.bounds()
	if !ok {
		return
	}
	z.vp.Time = dom
}

// clamp bounds the visible span by bar count and the window by the data
// extent.
func (z *Zoom) clamp() {
	if z.bounds == nil {
		return
	}
	dom, avgDur, ok := z.bounds()
	if !ok || avgDur <= 0 {
		return
	}
	minSpan := int64(z.MinVisibleBars) * avgDur
	maxSpan := int64(z.MaxVisibleBars) * avgDur
	z.vp.ClampTimeRange(dom.Start, dom.End, minSpan, maxSpan)
}
