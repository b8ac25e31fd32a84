package chart

import "sync"

// renderScheduler coalesces render requests: any number of Schedule
// calls between draws produce exactly one draw. By default the draw is
// held until Flush; a deferFn can be injected to run it on a host loop
// (timer tick, event loop turn).
type renderScheduler struct {
	mu        sync.Mutex
	pending   bool
	draw      func()
	deferFn   func(run func())
	coalesced func() // invoked when a request is absorbed
}

func newRenderScheduler(draw func()) *renderScheduler {
	return &renderScheduler{draw: draw}
}

// Schedule marks a frame as needed. The first call arms the scheduler;
// subsequent calls before the draw runs are absorbed.
func (s *renderScheduler) Schedule() {
	s.mu.Lock()
	if s.pending {
		hook := s.coalesced
		s.mu.Unlock()
		if hook != nil {
			hook()
		}
		return
	}
	s.pending = true
	deferFn := s.deferFn
	s.mu.Unlock()

	if deferFn != nil {
		deferFn(s.run)
	}
}

// Flush runs the pending draw, if any. Hosts without a deferFn call
// this once per frame interval.
func (s *renderScheduler) Flush() {
	s.run()
}

// Pending reports whether a draw is armed.
func (s *renderScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *renderScheduler) run() {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return
	}
	// Clear before drawing so a mutation during the draw schedules a
	// fresh frame instead of being lost.
	s.pending = false
	s.mu.Unlock()

	s.draw()
}
