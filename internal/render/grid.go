package render

import (
	"candlechart/internal/axis"
	"candlechart/internal/layout"
	"candlechart/internal/viewport"
)

const (
	minTickSpacingX = 80 // px between time ticks
	minTickSpacingY = 40 // px between price ticks
)

// drawGrid strokes one vertical line per time tick and one horizontal
// line per price tick across the plot area.
func drawGrid(s Surface, l layout.Layout, vp *viewport.Viewport, theme Theme) {
	timeTicks := axis.TimeTicks(vp.Time, l.Plot.W, minTickSpacingX, vp.XScale)
	priceTicks := axis.PriceTicks(vp.Price.PriceRange, l.Plot.H, minTickSpacingY, vp.YScale)

	s.Save()
	s.SetClip(l.Plot.X, l.Plot.Y, l.Plot.W, l.Plot.H)
	s.SetStrokeColor(theme.GridLine)
	s.SetLineWidth(1)

	for _, tk := range timeTicks {
		s.BeginPath()
		s.MoveTo(l.Plot.X+tk.X, l.Plot.Y)
		s.LineTo(l.Plot.X+tk.X, l.Plot.Y+l.Plot.H)
		s.Stroke()
	}
	for _, tk := range priceTicks {
		s.BeginPath()
		s.MoveTo(l.Plot.X, l.Plot.Y+tk.Y)
		s.LineTo(l.Plot.X+l.Plot.W, l.Plot.Y+tk.Y)
		s.Stroke()
	}
	s.Restore()
}

// drawAxes renders the labeled time and price strips.
func drawAxes(s Surface, l layout.Layout, vp *viewport.Viewport, theme Theme) {
	timeTicks := axis.TimeTicks(vp.Time, l.Plot.W, minTickSpacingX, vp.XScale)
	priceTicks := axis.PriceTicks(vp.Price.PriceRange, l.Plot.H, minTickSpacingY, vp.YScale)

	s.Save()
	s.SetFont(theme.Font)

	// Axis border lines.
	s.SetStrokeColor(theme.AxisLine)
	s.SetLineWidth(1)
	s.BeginPath()
	s.MoveTo(l.TimeAxis.X, l.TimeAxis.Y)
	s.LineTo(l.TimeAxis.X+l.TimeAxis.W, l.TimeAxis.Y)
	s.Stroke()
	s.BeginPath()
	s.MoveTo(l.PriceAxis.X, l.PriceAxis.Y)
	s.LineTo(l.PriceAxis.X, l.PriceAxis.Y+l.PriceAxis.H)
	s.Stroke()

	s.SetFillColor(theme.AxisLabel)
	for _, tk := range timeTicks {
		w := s.MeasureText(tk.Label)
		s.DrawText(tk.Label, l.TimeAxis.X+tk.X-w/2, l.TimeAxis.Y+l.TimeAxis.H-6)
	}
	for _, tk := range priceTicks {
		s.DrawText(tk.Label, l.PriceAxis.X+6, l.PriceAxis.Y+tk.Y+4)
	}
	s.Restore()
}
