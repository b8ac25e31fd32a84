package interaction

import (
	"testing"

	"candlechart/internal/model"
	"candlechart/internal/viewport"
)

func testVP() *viewport.Viewport {
	return viewport.New(
		model.TimeRange{Start: 0, End: 1000},
		model.ViewportPriceConfig{PriceRange: model.PriceRange{Min: 0, Max: 100}},
		800, 600,
	)
}

func down(x, y float64) model.Event {
	return model.Event{Type: model.EventPointerDown, Button: model.ButtonPrimary, ChartX: x, ChartY: y}
}

func move(x, y float64) model.Event {
	return model.Event{Type: model.EventPointerMove, ChartX: x, ChartY: y}
}

func TestPan_TimeDrag(t *testing.T) {
	vp := testVP()
	p := NewPan(vp)

	if !p.HandleEvent(down(400, 300)) {
		t.Fatalf("pointer down not consumed")
	}
	if !p.Active() {
		t.Fatalf("expected drag active after pointer down")
	}

	// Drag 80px right = 10% of width = window shifts 100ms left.
	p.HandleEvent(move(480, 300))
	if vp.Time.Start != -100 || vp.Time.End != 900 {
		t.Errorf("expected time {-100,900}, got %+v", vp.Time)
	}
	if vp.Time.Span() != 1000 {
		t.Errorf("drag changed span: %d", vp.Time.Span())
	}

	p.HandleEvent(model.Event{Type: model.EventPointerUp})
	if p.Active() {
		t.Errorf("expected idle after pointer up")
	}

	// Moves after the drag ended must not pan.
	p.HandleEvent(move(600, 300))
	if vp.Time.Start != -100 {
		t.Errorf("move without drag panned the viewport: %+v", vp.Time)
	}
}

func TestPan_PriceDragWithModifier(t *testing.T) {
	vp := testVP()
	p := NewPan(vp)

	ev := down(400, 300)
	ev.ShiftKey = true
	p.HandleEvent(ev)

	// Drag 60px down = 10% of height = price window shifts up 10.
	p.HandleEvent(move(400, 360))
	if vp.Price.Min != 10 || vp.Price.Max != 110 {
		t.Errorf("expected price {10,110}, got %+v", vp.Price.PriceRange)
	}
	if vp.Time.Start != 0 {
		t.Errorf("price drag moved time axis: %+v", vp.Time)
	}
}

func TestPan_CancelRestoresSnapshot(t *testing.T) {
	vp := testVP()
	p := NewPan(vp)

	p.HandleEvent(down(400, 300))
	p.HandleEvent(move(500, 300))
	p.HandleEvent(move(650, 300))
	if vp.Time.Start == 0 {
		t.Fatalf("drag had no effect, test is vacuous")
	}

	p.HandleEvent(model.Event{Type: model.EventPointerCancel})
	if vp.Time.Start != 0 || vp.Time.End != 1000 {
		t.Errorf("cancel did not restore drag-start snapshot: %+v", vp.Time)
	}
	if p.Active() {
		t.Errorf("expected idle after cancel")
	}
}

func TestPan_NonPrimaryButtonIgnored(t *testing.T) {
	vp := testVP()
	p := NewPan(vp)

	ev := down(400, 300)
	ev.Button = model.ButtonSecondary
	if p.HandleEvent(ev) {
		t.Errorf("secondary button started a drag")
	}
	if p.Active() {
		t.Errorf("expected idle")
	}
	_ = vp
}

func TestPan_UsesCurrentScalePerMove(t *testing.T) {
	vp := testVP()
	p := NewPan(vp)

	p.HandleEvent(down(400, 300))
	p.HandleEvent(move(480, 300))

	// Zoom mid-drag: subsequent moves convert pixels at the new scale.
	vp.Zoom(2, 400)
	span := vp.Time.Span()
	p.HandleEvent(move(560, 300))

	if vp.Time.Span() != span {
		t.Errorf("pan during drag changed span: %d -> %d", span, vp.Time.Span())
	}
}
