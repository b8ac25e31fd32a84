// Package chart is the orchestrator: it owns the candle series, the
// shared viewport, the interaction handlers and the render pipeline,
// and coalesces every change into at most one frame per flush.
package chart

import (
	"log"
	"time"

	"candlechart/internal/interaction"
	"candlechart/internal/layout"
	"candlechart/internal/metrics"
	"candlechart/internal/model"
	"candlechart/internal/render"
	"candlechart/internal/series"
	"candlechart/internal/source"
	"candlechart/internal/viewport"
)

type namedSeries struct {
	name    string
	ser     *series.Series
	opacity float64
	unsub   func()
}

// Chart wires series, viewport, interactions and rendering together.
// All methods must be called from a single goroutine. Sources connected
// via ConnectSource emit on their own goroutines; their candles are
// queued and applied on the chart goroutine at the start of the next
// draw, never from the source goroutine.
type Chart struct {
	opts     Options
	surface  render.Surface
	pipeline *render.Pipeline
	vp       *viewport.Viewport

	series []*namedSeries

	pan       *interaction.Pan
	zoom      *interaction.Zoom
	scroll    *interaction.Scroll
	crosshair *interaction.Crosshair

	scheduler *renderScheduler

	// userAdjusted is set once the user pans or zooms; after that the
	// time window is preserved across data updates instead of following
	// the full domain.
	userAdjusted bool

	sources map[string]func() // active source subscriptions by series name

	// live carries candles from source goroutines onto the chart
	// goroutine; draw drains it before cutting views.
	live     chan liveCandle
	draining bool

	m *metrics.Metrics
}

// liveCandle is one queued source emission.
type liveCandle struct {
	symbol string
	candle model.Candle
}

// liveQueueCap bounds the per-chart source queue. Emissions beyond it
// between two draws are dropped with a log line.
const liveQueueCap = 1024

// New creates a chart drawing onto surface. Handlers are constructed
// once here and share the single viewport for the chart's lifetime.
func New(surface render.Surface, opts Options) *Chart {
	opts.fillDefaults()

	vp := viewport.New(
		model.TimeRange{},
		model.ViewportPriceConfig{PaddingPx: 8},
		opts.Width, opts.Height,
	)

	c := &Chart{
		opts:     opts,
		surface:  surface,
		pipeline: render.NewPipeline(surface, opts.Layout),
		vp:       vp,
		sources:  make(map[string]func()),
		live:     make(chan liveCandle, liveQueueCap),
	}

	c.pan = interaction.NewPan(vp)
	c.zoom = interaction.NewZoom(vp, c.dataBounds, opts.ZoomSpeed, opts.MinVisibleBars, opts.MaxVisibleBars)
	c.scroll = interaction.NewScroll(vp, c.zoom, opts.WheelMode)
	c.crosshair = interaction.NewCrosshair(vp, c.mainSeries)

	c.scheduler = newRenderScheduler(c.draw)
	return c
}

// SetMetrics attaches Prometheus instrumentation. Optional.
func (c *Chart) SetMetrics(m *metrics.Metrics) {
	c.m = m
	c.scheduler.coalesced = func() {
		if c.m != nil {
			c.m.RendersCoalesced.Inc()
		}
	}
}

// SetRenderDefer injects the host's deferral primitive (e.g. a frame
// timer). The callback must not run synchronously inside Schedule.
func (c *Chart) SetRenderDefer(deferFn func(run func())) {
	c.scheduler.deferFn = deferFn
}

// Viewport exposes the shared viewport for plugins and tests.
func (c *Chart) Viewport() *viewport.Viewport { return c.vp }

// CrosshairState returns the current crosshair snapshot.
func (c *Chart) CrosshairState() model.CrosshairState { return c.crosshair.State() }

// AddSeries registers a named series and returns it. The first series
// added becomes the main series used for crosshair snapping and zoom
// bounds. Adding a duplicate name logs and returns the existing series.
func (c *Chart) AddSeries(name string, rows []model.Candle) *series.Series {
	for _, ns := range c.series {
		if ns.name == name {
			log.Printf("[chart] series %q already exists, ignoring add", name)
			return ns.ser
		}
	}
	ser := series.FromCandles(rows)
	ns := &namedSeries{name: name, ser: ser, opacity: 1}
	ns.unsub = ser.OnChange(c.onDataChanged)
	c.series = append(c.series, ns)

	c.onDataChanged()
	return ser
}

// Series returns the series registered under name, or nil.
func (c *Chart) Series(name string) *series.Series {
	if ns := c.find(name); ns != nil {
		return ns.ser
	}
	return nil
}

// RemoveSeries drops a series and disconnects any source bound to it.
func (c *Chart) RemoveSeries(name string) {
	for i, ns := range c.series {
		if ns.name != name {
			continue
		}
		c.DisconnectSource(name)
		ns.unsub()
		c.series = append(c.series[:i], c.series[i+1:]...)
		c.requestRender()
		return
	}
	log.Printf("[chart] remove unknown series %q, ignoring", name)
}

// SetData replaces the named series' contents.
func (c *Chart) SetData(name string, rows []model.Candle) {
	if ns := c.find(name); ns != nil {
		ns.ser.SetData(rows)
	}
}

// ApplyCandle routes one live candle into the named series, updating
// the forming bar or appending a new one.
func (c *Chart) ApplyCandle(name string, candle model.Candle) {
	ns := c.find(name)
	if ns == nil {
		return
	}
	last, ok := ns.ser.LastTS()
	ns.ser.UpdateOrAppend(candle)
	if c.m == nil {
		return
	}
	switch {
	case !ok || candle.TS > last:
		c.m.CandlesAppended.Inc()
	case candle.TS == last:
		c.m.CandlesUpdated.Inc()
	default:
		c.m.OutOfOrderRejected.Inc()
	}
}

// SetSeriesOpacity sets a series' draw opacity in [0, 1].
func (c *Chart) SetSeriesOpacity(name string, opacity float64) {
	ns := c.find(name)
	if ns == nil {
		return
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	ns.opacity = opacity
	c.requestRender()
}

// HandleEvent dispatches one input event through pan, wheel and
// crosshair handlers, then fans it out to plugins.
func (c *Chart) HandleEvent(ev model.Event) {
	handled := false

	if c.opts.EnablePan && c.pan.HandleEvent(ev) {
		handled = true
		c.userAdjusted = true
	}
	if ev.Type == model.EventWheel && c.opts.EnableZoom {
		if c.scroll.HandleWheel(ev) {
			handled = true
			c.userAdjusted = true
		}
	}
	if c.opts.EnableCrosshair && c.crosshair.HandleEvent(ev) {
		handled = true
	}

	c.pipeline.Plugins.DispatchEvent(ev)

	if handled {
		c.requestRender()
	}
}

// ZoomIn zooms one programmatic step around the viewport center.
func (c *Chart) ZoomIn() {
	c.zoom.ZoomIn()
	c.userAdjusted = true
	c.requestRender()
}

// ZoomOut zooms out one programmatic step around the viewport center.
func (c *Chart) ZoomOut() {
	c.zoom.ZoomOut()
	c.userAdjusted = true
	c.requestRender()
}

// ResetZoom restores the full data domain.
func (c *Chart) ResetZoom() {
	c.zoom.Reset()
	c.userAdjusted = false
	c.requestRender()
}

// ScrollLeft shifts the window left by one scroll step.
func (c *Chart) ScrollLeft() {
	c.scroll.ScrollBy(-1)
	c.userAdjusted = true
	c.requestRender()
}

// ScrollRight shifts the window right by one scroll step.
func (c *Chart) ScrollRight() {
	c.scroll.ScrollBy(1)
	c.userAdjusted = true
	c.requestRender()
}

// SetWheelMode switches how wheel input is interpreted.
func (c *Chart) SetWheelMode(mode model.WheelMode) {
	c.scroll.Mode = mode
}

// SetTheme replaces the render theme.
func (c *Chart) SetTheme(t render.Theme) {
	c.pipeline.Theme = t
	c.requestRender()
}

// InstallPlugin adds a plugin to the render pipeline.
func (c *Chart) InstallPlugin(p render.Plugin) {
	c.pipeline.Plugins.Install(p)
	c.requestRender()
}

// UninstallPlugin removes a plugin by name.
func (c *Chart) UninstallPlugin(name string) {
	c.pipeline.Plugins.Uninstall(name)
	c.requestRender()
}

// ConnectSource subscribes the named series to a live source. Any
// previous source on that series is disconnected first. Emitted candles
// are queued and applied on the chart goroutine by the next draw; the
// subscription callback itself never touches the series.
func (c *Chart) ConnectSource(name string, src source.Source) {
	c.DisconnectSource(name)
	symbol := name
	c.sources[name] = src.Subscribe(func(candle model.Candle) {
		if c.m != nil {
			c.m.SourceEmits.WithLabelValues(symbol).Inc()
		}
		select {
		case c.live <- liveCandle{symbol: symbol, candle: candle}:
			c.scheduler.Schedule()
		default:
			log.Printf("[chart] live queue full, dropping candle ts=%d for %q", candle.TS, symbol)
		}
	})
	c.updateSubscriberGauge()
}

// DisconnectSource drops the named series' source subscription, if any.
func (c *Chart) DisconnectSource(name string) {
	if unsub, ok := c.sources[name]; ok {
		unsub()
		delete(c.sources, name)
		c.updateSubscriberGauge()
	}
}

func (c *Chart) updateSubscriberGauge() {
	if c.m != nil {
		c.m.ActiveSubscribers.Set(float64(len(c.sources)))
	}
}

// Resize updates the logical surface size and schedules a redraw.
func (c *Chart) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		log.Printf("[chart] ignoring resize to %vx%v", w, h)
		return
	}
	c.opts.Width = w
	c.opts.Height = h
	c.surface.Resize(w, h)
	c.vp.Width = w
	c.vp.Height = h
	c.requestRender()
}

// ResetViewport restores the full domain and resumes following data.
func (c *Chart) ResetViewport() {
	c.userAdjusted = false
	if dom, ok := c.fullDomain(); ok {
		c.vp.Time = dom
	}
	c.requestRender()
}

// Flush draws the pending frame, if any. Hosts without a render defer
// call this on their frame cadence.
func (c *Chart) Flush() {
	c.scheduler.Flush()
}

// Close disconnects all sources and series listeners.
func (c *Chart) Close() {
	for name := range c.sources {
		c.DisconnectSource(name)
	}
	for _, ns := range c.series {
		ns.unsub()
	}
}

func (c *Chart) find(name string) *namedSeries {
	for _, ns := range c.series {
		if ns.name == name {
			return ns
		}
	}
	return nil
}

func (c *Chart) mainSeries() *series.Series {
	if len(c.series) == 0 {
		return nil
	}
	return c.series[0].ser
}

// fullDomain is the union of every series' time domain.
func (c *Chart) fullDomain() (model.TimeRange, bool) {
	var dom model.TimeRange
	found := false
	for _, ns := range c.series {
		d, ok := ns.ser.DomainX()
		if !ok {
			continue
		}
		if !found {
			dom = d
			found = true
			continue
		}
		if d.Start < dom.Start {
			dom.Start = d.Start
		}
		if d.End > dom.End {
			dom.End = d.End
		}
	}
	return dom, found
}

func (c *Chart) dataBounds() (model.TimeRange, int64, bool) {
	dom, ok := c.fullDomain()
	if !ok {
		return model.TimeRange{}, 0, false
	}
	var avg int64
	if main := c.mainSeries(); main != nil {
		avg = main.AverageCandleDuration()
	}
	return dom, avg, true
}

// onDataChanged runs after any series mutation: it keeps the time
// window in follow mode until the user takes over, then schedules a
// frame.
func (c *Chart) onDataChanged() {
	if !c.userAdjusted {
		if dom, ok := c.fullDomain(); ok {
			c.vp.Time = dom
		}
	}
	c.requestRender()
}

func (c *Chart) requestRender() {
	// Mutations made while draining the live queue are part of the
	// frame being drawn; scheduling another one would double-render.
	if c.draining {
		return
	}
	c.scheduler.Schedule()
}

// drainLive applies queued source candles on the chart goroutine.
func (c *Chart) drainLive() {
	c.draining = true
	defer func() { c.draining = false }()
	for {
		select {
		case lc := <-c.live:
			c.ApplyCandle(lc.symbol, lc.candle)
		default:
			return
		}
	}
}

// draw builds and renders one frame. Queued source candles are applied
// first and views are cut after, so they are never stale while drawing.
func (c *Chart) draw() {
	c.drainLive()

	start := time.Now()

	frames := make([]render.SeriesFrame, 0, len(c.series))
	visible := 0
	for _, ns := range c.series {
		view := ns.ser.RangeByTime(c.vp.Time.Start, c.vp.Time.End)
		visible += view.Len()
		frames = append(frames, render.SeriesFrame{View: view, Opacity: ns.opacity})
	}

	ch := c.crosshair.State()
	f := &render.Frame{
		Viewport:  c.vp,
		Series:    frames,
		Crosshair: &ch,
		Recompute: c.recompute(frames),
	}
	c.pipeline.Render(f)

	if c.m != nil {
		c.m.FramesTotal.Inc()
		c.m.FrameDur.Observe(time.Since(start).Seconds())
		c.m.VisibleCandles.Set(float64(visible))
	}
}

// recompute sizes the viewport to the plot rect and autoscales the
// price axis to the union of visible candle extents.
func (c *Chart) recompute(frames []render.SeriesFrame) func(l layout.Layout) {
	return func(l layout.Layout) {
		c.vp.Width = l.Plot.W
		c.vp.Height = l.Plot.H

		var ext model.PriceRange
		found := false
		for i := range frames {
			e, ok := frames[i].View.PriceExtent()
			if !ok {
				continue
			}
			if !found {
				ext = e
				found = true
			} else {
				ext = ext.Union(e)
			}
		}
		if found {
			c.vp.Price.PriceRange = ext
		}
	}
}
