// Package source provides the push-based live data sources that feed a
// chart's series: a synthetic random walk, scheduled array playback, a
// websocket feed, and a redis pub/sub feed.
//
// Activation is reference-counted per source, not per subscription: a
// source starts producing when its subscriber count goes 0 -> 1 and stops
// when it returns to 0.
package source

import (
	"sync"

	"candlechart/internal/model"
)

// Handler receives one pushed candle. Handlers run on the source's
// goroutine; funnel into the chart's writer goroutine before mutating a
// series.
type Handler func(model.Candle)

// Source is the live data contract a chart consumes.
type Source interface {
	// Subscribe registers a handler and returns its unsubscribe func.
	// Unsubscribing twice is harmless.
	Subscribe(h Handler) (unsubscribe func())
}

// emitter implements the reference-counted subscriber set shared by all
// source implementations. start fires on the 0->1 transition, stop on
// 1->0.
type emitter struct {
	mu     sync.Mutex
	subs   map[int]Handler
	order  []int
	nextID int

	start func()
	stop  func()
}

func (e *emitter) subscribe(h Handler) func() {
	e.mu.Lock()
	if e.subs == nil {
		e.subs = make(map[int]Handler)
	}
	first := len(e.subs) == 0
	id := e.nextID
	e.nextID++
	e.subs[id] = h
	e.order = append(e.order, id)
	e.mu.Unlock()

	if first && e.start != nil {
		e.start()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs, id)
			for i, v := range e.order {
				if v == id {
					e.order = append(e.order[:i], e.order[i+1:]...)
					break
				}
			}
			last := len(e.subs) == 0
			e.mu.Unlock()

			if last && e.stop != nil {
				e.stop()
			}
		})
	}
}

// emit fans a candle out to all current subscribers in subscription order.
func (e *emitter) emit(c model.Candle) {
	e.mu.Lock()
	handlers := make([]Handler, 0, len(e.order))
	for _, id := range e.order {
		if h, ok := e.subs[id]; ok {
			handlers = append(handlers, h)
		}
	}
	e.mu.Unlock()

	for _, h := range handlers {
		h(c)
	}
}

// active reports whether the source currently has subscribers.
func (e *emitter) active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs) > 0
}
