// Package overlay ships ready-made chart plugins. They demonstrate the
// plugin hooks and give demos something visible to install and remove.
package overlay

import (
	"fmt"
	"log"

	"candlechart/internal/render"
	"candlechart/internal/series"
)

// SMA is a simple-moving-average line plugin. It draws after the
// candles so the line sits on top of the bodies. The rolling sum uses a
// preallocated circular buffer, so a frame allocates nothing beyond the
// surface calls.
type SMA struct {
	period   int
	color    string
	provider func() *series.Series

	buf []float64
	idx int
	cnt int
	sum float64
}

// NewSMA creates an SMA overlay with the given period, stroked in
// color. provider supplies the series to average; periods below 2 are
// raised to 2.
func NewSMA(period int, color string, provider func() *series.Series) *SMA {
	if period < 2 {
		log.Printf("[overlay] sma period %d too small, using 2", period)
		period = 2
	}
	return &SMA{
		period:   period,
		color:    color,
		provider: provider,
		buf:      make([]float64, period),
	}
}

// Name implements render.Plugin.
func (s *SMA) Name() string { return fmt.Sprintf("sma-%d", s.period) }

// OnInstall resets the rolling state so a reinstalled plugin starts
// clean.
func (s *SMA) OnInstall() { s.reset() }

// OnRender implements render.RenderHook. Only the AfterCandles phase
// draws; other phases are ignored.
func (s *SMA) OnRender(ctx *render.Context) {
	if ctx.Phase != render.AfterCandles {
		return
	}
	ser := s.provider()
	if ser == nil || ser.Len() < s.period {
		return
	}

	vp := ctx.Viewport
	lo := ser.FirstIndexAtOrAfter(vp.Time.Start)
	hi := ser.LastIndexAtOrBefore(vp.Time.End)
	if lo > hi {
		return
	}

	// Warm up with the candles just left of the window so the line
	// enters the plot already converged.
	s.reset()
	start := lo - s.period + 1
	if start < 0 {
		start = 0
	}
	for i := start; i < lo; i++ {
		s.push(ser.CandleAt(i).Close)
	}

	surface := ctx.Surface
	plot := ctx.Layout.Plot

	surface.Save()
	surface.SetClip(plot.X, plot.Y, plot.W, plot.H)
	surface.SetStrokeColor(s.color)
	surface.SetLineWidth(1.5)
	surface.BeginPath()

	started := false
	for i := lo; i <= hi; i++ {
		c := ser.CandleAt(i)
		s.push(c.Close)
		if s.cnt < s.period {
			continue
		}
		x := plot.X + vp.XScale(c.TS)
		y := plot.Y + vp.YScale(s.sum/float64(s.period))
		if !started {
			surface.MoveTo(x, y)
			started = true
		} else {
			surface.LineTo(x, y)
		}
	}
	if started {
		surface.Stroke()
	}
	surface.Restore()
}

func (s *SMA) push(v float64) {
	if s.cnt >= s.period {
		s.sum -= s.buf[s.idx]
	}
	s.buf[s.idx] = v
	s.sum += v
	s.idx = (s.idx + 1) % s.period
	s.cnt++
}

func (s *SMA) reset() {
	s.idx = 0
	s.cnt = 0
	s.sum = 0
	for i := range s.buf {
		s.buf[i] = 0
	}
}
