package render

import (
	"candlechart/internal/layout"
	"candlechart/internal/model"
	"candlechart/internal/series"
	"candlechart/internal/viewport"
)

// SeriesFrame is one series' contribution to a frame: a fresh view over
// its visible rows plus its draw opacity.
type SeriesFrame struct {
	View    series.DataView
	Opacity float64 // 0 or 1 means opaque
}

// Frame is everything the pipeline needs to draw once. The orchestrator
// builds a new Frame per draw; views inside it must be cut after the last
// store mutation (they are borrowed, not copied).
type Frame struct {
	Viewport  *viewport.Viewport
	Series    []SeriesFrame
	Crosshair *model.CrosshairState

	// Recompute, when set, runs after the surface is cleared and before
	// the grid is drawn. The orchestrator uses it to size the viewport to
	// the plot rect and refresh per-series domains while preserving the
	// user's current time window.
	Recompute func(l layout.Layout)
}

// Pipeline draws frames onto a Surface and dispatches plugin hooks at the
// five fixed phases.
type Pipeline struct {
	Surface    Surface
	Theme      Theme
	LayoutOpts layout.Options
	Plugins    *PluginRegistry
}

// NewPipeline creates a pipeline with the default theme and an empty
// plugin registry.
func NewPipeline(s Surface, opts layout.Options) *Pipeline {
	return &Pipeline{
		Surface:    s,
		Theme:      DefaultTheme(),
		LayoutOpts: opts,
		Plugins:    NewPluginRegistry(),
	}
}

// Render executes one frame: layout, BeforeRender, clear, domain
// recompute, grid (AfterGrid), axes (AfterAxes), candles and volume
// (AfterCandles), crosshair overlay, AfterRender. Every phase hook fires
// exactly once per frame in this order no matter what is installed.
func (p *Pipeline) Render(f *Frame) {
	l := layout.Compute(p.Surface.Width(), p.Surface.Height(), p.LayoutOpts)

	p.phase(BeforeRender, l, f.Viewport)

	p.Surface.Clear()
	p.Surface.SetFillColor(p.Theme.Background)
	p.Surface.FillRect(0, 0, p.Surface.Width(), p.Surface.Height())

	if f.Recompute != nil {
		f.Recompute(l)
	}

	drawGrid(p.Surface, l, f.Viewport, p.Theme)
	p.phase(AfterGrid, l, f.Viewport)

	drawAxes(p.Surface, l, f.Viewport, p.Theme)
	p.phase(AfterAxes, l, f.Viewport)

	for i := range f.Series {
		sf := &f.Series[i]
		drawCandles(p.Surface, l, f.Viewport, &sf.View, p.Theme, sf.Opacity)
		drawVolume(p.Surface, l, f.Viewport, &sf.View, p.Theme, sf.Opacity)
	}
	p.phase(AfterCandles, l, f.Viewport)

	drawCrosshair(p.Surface, l, f.Crosshair, p.Theme)

	p.phase(AfterRender, l, f.Viewport)
}

func (p *Pipeline) phase(ph Phase, l layout.Layout, vp *viewport.Viewport) {
	p.Plugins.DispatchRender(&Context{
		Phase:    ph,
		Surface:  p.Surface,
		Layout:   l,
		Viewport: vp,
		Theme:    p.Theme,
	})
}
