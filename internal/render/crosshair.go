package render

import (
	"strconv"
	"time"

	"candlechart/internal/layout"
	"candlechart/internal/model"
)

// drawCrosshair overlays dashed guide lines at the crosshair position
// plus small time/price readouts on the axis strips.
func drawCrosshair(s Surface, l layout.Layout, cs *model.CrosshairState, theme Theme) {
	if cs == nil || !cs.Visible {
		return
	}

	s.Save()
	s.SetStrokeColor(theme.CrosshairLine)
	s.SetLineWidth(1)
	s.SetLineDash([]float64{4, 4})

	s.BeginPath()
	s.MoveTo(cs.X, l.Plot.Y)
	s.LineTo(cs.X, l.Plot.Y+l.Plot.H)
	s.Stroke()

	s.BeginPath()
	s.MoveTo(l.Plot.X, cs.Y)
	s.LineTo(l.Plot.X+l.Plot.W, cs.Y)
	s.Stroke()

	s.SetLineDash(nil)
	s.SetFont(theme.Font)
	s.SetFillColor(theme.CrosshairLabel)

	timeLabel := time.UnixMilli(cs.Time).UTC().Format("Jan 02 15:04:05")
	w := s.MeasureText(timeLabel)
	s.DrawText(timeLabel, cs.X-w/2, l.TimeAxis.Y+l.TimeAxis.H-6)

	priceLabel := strconv.FormatFloat(cs.Price, 'f', 2, 64)
	s.DrawText(priceLabel, l.PriceAxis.X+6, cs.Y+4)

	s.Restore()
}
