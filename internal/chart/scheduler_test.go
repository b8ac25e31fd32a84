package chart

import "testing"

func TestScheduler_CoalescesRequests(t *testing.T) {
	draws := 0
	s := newRenderScheduler(func() { draws++ })
	coalesced := 0
	s.coalesced = func() { coalesced++ }

	s.Schedule()
	s.Schedule()
	s.Schedule()

	if draws != 0 {
		t.Fatalf("draw ran before flush: %d", draws)
	}
	if coalesced != 2 {
		t.Errorf("coalesced = %d, want 2", coalesced)
	}

	s.Flush()
	if draws != 1 {
		t.Errorf("draws after flush = %d, want 1", draws)
	}

	s.Flush()
	if draws != 1 {
		t.Errorf("flush without pending frame drew again: %d", draws)
	}
}

func TestScheduler_RearmsAfterDraw(t *testing.T) {
	draws := 0
	s := newRenderScheduler(func() { draws++ })

	s.Schedule()
	s.Flush()
	s.Schedule()
	s.Flush()

	if draws != 2 {
		t.Errorf("draws = %d, want 2", draws)
	}
}

func TestScheduler_ScheduleDuringDrawIsNotLost(t *testing.T) {
	var s *renderScheduler
	draws := 0
	s = newRenderScheduler(func() {
		draws++
		if draws == 1 {
			s.Schedule()
		}
	})

	s.Schedule()
	s.Flush()
	if !s.Pending() {
		t.Fatal("schedule during draw should arm the next frame")
	}
	s.Flush()
	if draws != 2 {
		t.Errorf("draws = %d, want 2", draws)
	}
}

func TestScheduler_DeferFnRunsDraw(t *testing.T) {
	draws := 0
	s := newRenderScheduler(func() { draws++ })
	var queued []func()
	s.deferFn = func(run func()) { queued = append(queued, run) }

	s.Schedule()
	s.Schedule()

	if len(queued) != 1 {
		t.Fatalf("deferFn called %d times, want 1", len(queued))
	}
	queued[0]()
	if draws != 1 {
		t.Errorf("draws = %d, want 1", draws)
	}
}
