package overlay

import (
	"testing"

	"candlechart/internal/chart"
	"candlechart/internal/model"
	"candlechart/internal/render"
	"candlechart/internal/series"
)

const smaColor = "#ffaa00"

func rampCandles(n int) []model.Candle {
	rows := make([]model.Candle, n)
	for i := range rows {
		p := 100 + float64(i)
		rows[i] = model.Candle{TS: int64(1000 * (i + 1)), Open: p, High: p + 1, Low: p - 1, Close: p}
	}
	return rows
}

func hasStrokeColor(surf *render.RecordSurface, color string) bool {
	for _, op := range surf.Ops {
		if op.Name == "setStrokeColor" && op.Text == color {
			return true
		}
	}
	return false
}

func TestSMA_DrawsLineOverVisibleCandles(t *testing.T) {
	surf := render.NewRecordSurface(800, 600)
	c := chart.New(surf, chart.Options{Width: 800, Height: 600})
	ser := c.AddSeries("main", rampCandles(30))

	c.InstallPlugin(NewSMA(5, smaColor, func() *series.Series { return ser }))
	c.Flush()

	if !hasStrokeColor(surf, smaColor) {
		t.Fatal("sma line color never set")
	}
	// 30 candles, period 5: the line has 26 points, 25 of them lineTo.
	// The grid also emits moveTo/lineTo, so only check a lower bound on
	// segments drawn after our color was set.
	if got := surf.CountOp("lineTo"); got < 25 {
		t.Errorf("lineTo ops = %d, want at least 25", got)
	}
}

func TestSMA_SkipsWhenTooFewCandles(t *testing.T) {
	surf := render.NewRecordSurface(800, 600)
	c := chart.New(surf, chart.Options{Width: 800, Height: 600})
	ser := c.AddSeries("main", rampCandles(3))

	c.InstallPlugin(NewSMA(10, smaColor, func() *series.Series { return ser }))
	c.Flush()

	if hasStrokeColor(surf, smaColor) {
		t.Error("sma drew with fewer candles than its period")
	}
}

func TestSMA_NameIncludesPeriod(t *testing.T) {
	sma := NewSMA(20, smaColor, func() *series.Series { return nil })
	if got := sma.Name(); got != "sma-20" {
		t.Errorf("Name() = %q, want sma-20", got)
	}
}

func TestSMA_RollingAverageIsCorrect(t *testing.T) {
	sma := NewSMA(3, smaColor, func() *series.Series { return nil })
	for _, v := range []float64{1, 2, 3} {
		sma.push(v)
	}
	if got := sma.sum / 3; got != 2 {
		t.Errorf("sma after 1,2,3 = %v, want 2", got)
	}
	sma.push(10)
	if got := sma.sum / 3; got != 5 {
		t.Errorf("sma after window slid to 2,3,10 = %v, want 5", got)
	}
}
