package render

import (
	"testing"

	"candlechart/internal/layout"
	"candlechart/internal/model"
	"candlechart/internal/series"
	"candlechart/internal/viewport"
)

func testFrame() (*Frame, *series.Series) {
	s := series.FromCandles([]model.Candle{
		{TS: 1000, Open: 10, High: 12, Low: 9, Close: 11},
		{TS: 2000, Open: 11, High: 13, Low: 10, Close: 12},
		{TS: 3000, Open: 12, High: 14, Low: 11, Close: 10},
	})
	vp := viewport.New(
		model.TimeRange{Start: 0, End: 4000},
		model.ViewportPriceConfig{PriceRange: model.PriceRange{Min: 8, Max: 15}},
		740, 580,
	)
	return &Frame{
		Viewport: vp,
		Series:   []SeriesFrame{{View: s.RangeByIndex(0, s.Len()), Opacity: 1}},
	}, s
}

func TestRender_PhaseOrderExactlyOncePerFrame(t *testing.T) {
	surf := NewRecordSurface(800, 600)
	p := NewPipeline(surf, layout.Options{})
	probe := &probePlugin{name: "probe"}
	p.Plugins.Install(probe)

	f, _ := testFrame()
	p.Render(f)

	want := []Phase{BeforeRender, AfterGrid, AfterAxes, AfterCandles, AfterRender}
	if len(probe.phases) != len(want) {
		t.Fatalf("expected %d phase callbacks, got %d (%v)", len(want), len(probe.phases), probe.phases)
	}
	for i, ph := range want {
		if probe.phases[i] != ph {
			t.Errorf("phase %d: expected %v, got %v", i, ph, probe.phases[i])
		}
	}
}

func TestRender_PhasesFireWithNoPlugins(t *testing.T) {
	surf := NewRecordSurface(800, 600)
	p := NewPipeline(surf, layout.Options{})

	f, _ := testFrame()
	p.Render(f) // must not panic and must draw

	if surf.CountOp("clear") != 1 {
		t.Errorf("expected exactly one clear, got %d", surf.CountOp("clear"))
	}
}

func TestRender_DrawsCandleBodiesAndWicks(t *testing.T) {
	surf := NewRecordSurface(800, 600)
	p := NewPipeline(surf, layout.Options{})

	f, _ := testFrame()
	p.Render(f)

	// 3 candles -> 3 body fillRects beyond the background fill.
	fills := surf.CountOp("fillRect")
	if fills < 4 {
		t.Errorf("expected background + 3 candle bodies, got %d fillRects", fills)
	}
	// Each candle wick plus grid/axis lines stroke paths.
	if surf.CountOp("stroke") < 3 {
		t.Errorf("expected at least 3 strokes for wicks, got %d", surf.CountOp("stroke"))
	}
}

func TestRender_OpacityAppliedPerSeries(t *testing.T) {
	surf := NewRecordSurface(800, 600)
	p := NewPipeline(surf, layout.Options{})

	f, _ := testFrame()
	f.Series[0].Opacity = 0.5
	p.Render(f)

	if surf.CountOp("setGlobalAlpha") == 0 {
		t.Errorf("expected setGlobalAlpha for translucent series")
	}
}

func TestRender_RecomputeRunsBetweenClearAndGrid(t *testing.T) {
	surf := NewRecordSurface(800, 600)
	p := NewPipeline(surf, layout.Options{})

	f, _ := testFrame()
	recomputed := false
	f.Recompute = func(l layout.Layout) {
		recomputed = true
		if surf.CountOp("clear") != 1 {
			t.Errorf("recompute ran before clear")
		}
		if l.Plot.W <= 0 {
			t.Errorf("recompute given empty plot rect: %+v", l.Plot)
		}
	}
	p.Render(f)

	if !recomputed {
		t.Errorf("recompute hook never ran")
	}
}

func TestRender_CrosshairOverlayOnlyWhenVisible(t *testing.T) {
	surf := NewRecordSurface(800, 600)
	p := NewPipeline(surf, layout.Options{})

	f, _ := testFrame()
	p.Render(f)
	dashless := surf.CountOp("setLineDash")

	surf.Reset()
	f.Crosshair = &model.CrosshairState{X: 100, Y: 100, Visible: true}
	p.Render(f)

	if surf.CountOp("setLineDash") <= dashless {
		t.Errorf("expected dashed crosshair lines when visible")
	}
}

func TestRender_VolumeStrip(t *testing.T) {
	surf := NewRecordSurface(800, 600)
	p := NewPipeline(surf, layout.Options{ShowVolume: true})

	s := series.FromCandles([]model.Candle{
		model.Candle{TS: 1000, Open: 10, High: 12, Low: 9, Close: 11}.WithVolume(100),
		model.Candle{TS: 2000, Open: 11, High: 13, Low: 10, Close: 9}.WithVolume(250),
	})
	vp := viewport.New(
		model.TimeRange{Start: 0, End: 3000},
		model.ViewportPriceConfig{PriceRange: model.PriceRange{Min: 8, Max: 15}},
		740, 580,
	)
	f := &Frame{
		Viewport: vp,
		Series:   []SeriesFrame{{View: s.RangeByIndex(0, s.Len()), Opacity: 1}},
	}

	p.Render(f)

	// Background + 2 bodies + 2 volume bars.
	if got := surf.CountOp("fillRect"); got < 5 {
		t.Errorf("expected volume bars drawn, got %d fillRects", got)
	}
}
