package source

import (
	"testing"

	"candlechart/internal/model"
)

// countingSource exposes the emitter directly so activation semantics can
// be probed without timers.
type countingSource struct {
	emitter
	starts int
	stops  int
}

func newCountingSource() *countingSource {
	s := &countingSource{}
	s.emitter.start = func() { s.starts++ }
	s.emitter.stop = func() { s.stops++ }
	return s
}

func (s *countingSource) Subscribe(h Handler) func() { return s.subscribe(h) }

func TestEmitter_RefCountedActivation(t *testing.T) {
	s := newCountingSource()

	unsub1 := s.Subscribe(func(model.Candle) {})
	if s.starts != 1 {
		t.Fatalf("expected start on 0->1, got %d", s.starts)
	}

	// Second subscriber must not re-start the source.
	unsub2 := s.Subscribe(func(model.Candle) {})
	if s.starts != 1 {
		t.Errorf("expected no second start, got %d", s.starts)
	}

	unsub1()
	if s.stops != 0 {
		t.Errorf("stopped while a subscriber remains")
	}

	unsub2()
	if s.stops != 1 {
		t.Errorf("expected stop on 1->0, got %d", s.stops)
	}

	// Re-subscription re-activates.
	s.Subscribe(func(model.Candle) {})
	if s.starts != 2 {
		t.Errorf("expected restart on next 0->1, got %d", s.starts)
	}
}

func TestEmitter_UnsubscribeIdempotent(t *testing.T) {
	s := newCountingSource()

	unsub := s.Subscribe(func(model.Candle) {})
	s.Subscribe(func(model.Candle) {})

	unsub()
	unsub() // second call must not decrement again
	if s.stops != 0 {
		t.Errorf("double unsubscribe stopped the source: %d", s.stops)
	}
}

func TestEmitter_FanOutOrder(t *testing.T) {
	s := newCountingSource()
	var got []int

	s.Subscribe(func(model.Candle) { got = append(got, 1) })
	s.Subscribe(func(model.Candle) { got = append(got, 2) })
	s.emit(model.Candle{TS: 1})

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("expected fan-out in subscription order, got %v", got)
	}
}

func TestEmitter_EmitAfterUnsubscribe(t *testing.T) {
	s := newCountingSource()
	calls := 0

	unsub := s.Subscribe(func(model.Candle) { calls++ })
	s.emit(model.Candle{TS: 1})
	unsub()
	s.emit(model.Candle{TS: 2})

	if calls != 1 {
		t.Errorf("expected 1 delivery, got %d", calls)
	}
	if s.active() {
		t.Errorf("expected inactive after last unsubscribe")
	}
}
