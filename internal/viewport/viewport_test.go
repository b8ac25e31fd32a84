package viewport

import (
	"math"
	"testing"

	"candlechart/internal/model"
)

func testViewport() *Viewport {
	return New(
		model.TimeRange{Start: 0, End: 1000},
		model.ViewportPriceConfig{PriceRange: model.PriceRange{Min: 0, Max: 100}},
		800, 600,
	)
}

func TestXScale_SpecExample(t *testing.T) {
	v := testViewport()

	if got := v.XScale(0); got != 0 {
		t.Errorf("xScale(0): expected 0, got %v", got)
	}
	if got := v.XScale(1000); got != 800 {
		t.Errorf("xScale(1000): expected 800, got %v", got)
	}
	if got := v.XScale(500); got != 400 {
		t.Errorf("xScale(500): expected 400, got %v", got)
	}
}

func TestYScale_SpecExample(t *testing.T) {
	v := testViewport()

	if got := v.YScale(100); got != 0 {
		t.Errorf("yScale(100): expected 0, got %v", got)
	}
	if got := v.YScale(0); got != 600 {
		t.Errorf("yScale(0): expected 600, got %v", got)
	}
}

func TestYScale_Padding(t *testing.T) {
	v := testViewport()
	v.Price.PaddingPx = 50

	if got := v.YScale(100); got != 50 {
		t.Errorf("yScale(max) with padding: expected 50, got %v", got)
	}
	if got := v.YScale(0); got != 550 {
		t.Errorf("yScale(min) with padding: expected 550, got %v", got)
	}
}

func TestScale_RoundTrip(t *testing.T) {
	v := testViewport()
	v.Price.PaddingPx = 20

	for ts := int64(0); ts <= 1000; ts += 37 {
		if got := v.InvX(v.XScale(ts)); absI64(got-ts) > 1 {
			t.Errorf("invX(xScale(%d)) = %d, want within 1ms", ts, got)
		}
	}
	for p := 0.0; p <= 100; p += 3.7 {
		if got := v.InvY(v.YScale(p)); math.Abs(got-p) > 1e-9 {
			t.Errorf("invY(yScale(%v)) = %v, want round-trip", p, got)
		}
	}
}

func TestDegenerateFallbacks(t *testing.T) {
	v := testViewport()

	v.Time = model.TimeRange{Start: 500, End: 500}
	if got := v.XScale(500); got != 0 {
		t.Errorf("zero time span: expected xScale=0, got %v", got)
	}

	v = testViewport()
	v.Price.Min, v.Price.Max = 50, 50
	if got := v.YScale(50); got != 300 {
		t.Errorf("zero price span: expected yScale=height/2=300, got %v", got)
	}

	v = testViewport()
	v.Width = 0
	if got := v.InvX(400); got != v.Time.Start {
		t.Errorf("zero width: expected invX=start, got %v", got)
	}

	v = testViewport()
	v.Height = 40
	v.Price.PaddingPx = 20 // inner height collapses to zero
	if got := v.InvY(10); got != 50 {
		t.Errorf("zero inner height: expected invY=(min+max)/2=50, got %v", got)
	}
}

func TestPan_IsTranslation(t *testing.T) {
	v := testViewport()
	v.Pan(250, 10)

	if v.Time.Start != 250 || v.Time.End != 1250 {
		t.Errorf("expected time {250,1250}, got %+v", v.Time)
	}
	if v.Time.Span() != 1000 {
		t.Errorf("pan changed span: %d", v.Time.Span())
	}
	if v.Price.Min != 10 || v.Price.Max != 110 {
		t.Errorf("expected price {10,110}, got %+v", v.Price.PriceRange)
	}
}

func TestZoom_SpecExample(t *testing.T) {
	v := testViewport()
	before := v.InvX(400)

	v.Zoom(2, 400)

	if got := v.Time.Span(); got != 500 {
		t.Errorf("zoom factor=2: expected span 500, got %d", got)
	}
	after := v.InvX(400)
	if absI64(after-before) > 2 {
		t.Errorf("zoom moved center: invX(400) was %d, now %d", before, after)
	}
	if before != 500 {
		t.Errorf("expected invX(400)=500 before zoom, got %d", before)
	}
}

func TestZoom_CenterPreservedOffCenter(t *testing.T) {
	v := testViewport()

	for _, centerX := range []float64{0, 123, 400, 655, 800} {
		for _, factor := range []float64{0.5, 1.2, 2, 3.75} {
			vv := *v
			before := vv.InvX(centerX)
			vv.Zoom(factor, centerX)
			after := vv.InvX(centerX)
			if absI64(after-before) > 2 {
				t.Errorf("zoom(%v, %v): center drifted %d -> %d", factor, centerX, before, after)
			}
		}
	}
}

func TestZoom_Degenerate(t *testing.T) {
	v := testViewport()
	v.Zoom(0, 400) // ignored
	if v.Time.Span() != 1000 {
		t.Errorf("non-positive factor mutated viewport: %+v", v.Time)
	}

	v.Time = model.TimeRange{Start: 100, End: 100}
	v.Zoom(2, 400) // zero span, no-op
	if v.Time.Start != 100 || v.Time.End != 100 {
		t.Errorf("zero-span zoom mutated viewport: %+v", v.Time)
	}
}

func TestClampTimeRange_SpanClampPreservesCenter(t *testing.T) {
	v := testViewport()
	v.Time = model.TimeRange{Start: 500, End: 600}

	v.ClampTimeRange(0, 2000, 500, 1500)

	if got := v.Time.Span(); got != 500 {
		t.Errorf("expected span exactly 500, got %d", got)
	}
	if got := v.Time.Center(); got != 550 {
		t.Errorf("span clamp moved center: expected 550, got %d", got)
	}
}

func TestClampTimeRange_BoundsClamp(t *testing.T) {
	v := testViewport()
	v.Time = model.TimeRange{Start: -100, End: 900}

	v.ClampTimeRange(0, 2000, 500, 1500)

	if v.Time.Start != 0 || v.Time.End != 900 {
		t.Errorf("expected {0,900}, got %+v", v.Time)
	}
}

func TestClampTimeRange_SlidesWindowBeyondMax(t *testing.T) {
	v := testViewport()
	v.Time = model.TimeRange{Start: 2100, End: 2600}

	v.ClampTimeRange(0, 2000, 500, 1500)

	if v.Time.Start != 1500 || v.Time.End != 2000 {
		t.Errorf("expected window slid back to {1500,2000}, got %+v", v.Time)
	}
	if got := v.Time.Span(); got != 500 {
		t.Errorf("slide changed span: expected 500, got %d", got)
	}
}

func TestClampTimeRange_SlidesWindowBeforeMin(t *testing.T) {
	v := testViewport()
	v.Time = model.TimeRange{Start: -700, End: -200}

	v.ClampTimeRange(0, 2000, 500, 1500)

	if v.Time.Start != 0 || v.Time.End != 500 {
		t.Errorf("expected window slid forward to {0,500}, got %+v", v.Time)
	}
}

func TestClampTimeRange_MaxSpan(t *testing.T) {
	v := testViewport()
	v.Time = model.TimeRange{Start: 0, End: 4000}

	v.ClampTimeRange(0, 10000, 500, 1500)

	if got := v.Time.Span(); got != 1500 {
		t.Errorf("expected span clamped to 1500, got %d", got)
	}
	if got := v.Time.Center(); absI64(got-2000) > 1 {
		t.Errorf("max-span clamp moved center: expected ~2000, got %d", got)
	}
}

func absI64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
