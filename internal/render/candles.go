package render

import (
	"candlechart/internal/layout"
	"candlechart/internal/series"
	"candlechart/internal/viewport"
)

// bodyWidthRatio is the candle body's share of one candle slot.
const bodyWidthRatio = 0.7

// drawCandles emits wick and body draw calls for every candle in the
// view. opacity multiplies the whole series (1 = opaque).
func drawCandles(s Surface, l layout.Layout, vp *viewport.Viewport, view *series.DataView, theme Theme, opacity float64) {
	n := view.Len()
	if n == 0 {
		return
	}

	s.Save()
	s.SetClip(l.Plot.X, l.Plot.Y, l.Plot.W, l.Plot.H)
	if opacity > 0 && opacity < 1 {
		s.SetGlobalAlpha(opacity)
	}

	bodyW := candleBodyWidth(vp, view)

	for i := 0; i < n; i++ {
		x := l.Plot.X + vp.XScale(view.TS(i))
		open, close := view.Open(i), view.Close(i)

		color := theme.UpColor
		if close < open {
			color = theme.DownColor
		}

		// Wick: a single vertical from high to low.
		s.SetStrokeColor(color)
		s.SetLineWidth(1)
		s.BeginPath()
		s.MoveTo(x, l.Plot.Y+vp.YScale(view.High(i)))
		s.LineTo(x, l.Plot.Y+vp.YScale(view.Low(i)))
		s.Stroke()

		// Body: filled rect between open and close, at least 1px tall.
		yOpen := l.Plot.Y + vp.YScale(open)
		yClose := l.Plot.Y + vp.YScale(close)
		top, h := yOpen, yClose-yOpen
		if h < 0 {
			top, h = yClose, -h
		}
		if h < 1 {
			h = 1
		}
		s.SetFillColor(color)
		s.FillRect(x-bodyW/2, top, bodyW, h)
	}
	s.Restore()
}

// drawVolume renders volume bars in the volume strip, scaled against the
// largest visible volume.
func drawVolume(s Surface, l layout.Layout, vp *viewport.Viewport, view *series.DataView, theme Theme, opacity float64) {
	if !l.HasVolume || view.Len() == 0 {
		return
	}
	maxVol := 0.0
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Volume(i); ok && v > maxVol {
			maxVol = v
		}
	}
	if maxVol == 0 {
		return
	}

	s.Save()
	s.SetClip(l.Volume.X, l.Volume.Y, l.Volume.W, l.Volume.H)
	if opacity > 0 && opacity < 1 {
		s.SetGlobalAlpha(opacity)
	}
	bodyW := candleBodyWidth(vp, view)

	for i := 0; i < view.Len(); i++ {
		v, ok := view.Volume(i)
		if !ok {
			continue
		}
		x := l.Volume.X + vp.XScale(view.TS(i))
		h := v / maxVol * l.Volume.H
		color := theme.VolumeUp
		if view.Close(i) < view.Open(i) {
			color = theme.VolumeDown
		}
		s.SetFillColor(color)
		s.FillRect(x-bodyW/2, l.Volume.Y+l.Volume.H-h, bodyW, h)
	}
	s.Restore()
}

// candleBodyWidth computes the body width from the pixel spacing between
// adjacent candles, floored at 1px.
func candleBodyWidth(vp *viewport.Viewport, view *series.DataView) float64 {
	n := view.Len()
	if n < 2 || vp.Time.Span() == 0 {
		return 4
	}
	avg := float64(view.TS(n-1)-view.TS(0)) / float64(n-1)
	slot := avg / float64(vp.Time.Span()) * vp.Width
	w := slot * bodyWidthRatio
	if w < 1 {
		w = 1
	}
	return w
}
