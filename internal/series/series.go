// Package series provides the columnar time-series store backing a chart.
//
// Candles are stored column-wise (parallel ts/open/high/low/close slices,
// plus lazily allocated volume and meta columns) sorted by timestamp.
// Lookups are binary searches; range queries hand out borrowed DataViews
// over the backing columns rather than copies.
//
// The store has a single-writer contract: all mutations must come from one
// goroutine. Change listeners fire synchronously on that goroutine.
package series

import (
	"log"
	"math"
	"sort"

	"candlechart/internal/model"
)

const (
	initialCapacity = 16
	growthFactor    = 1.5
)

// Series is ordered-by-timestamp columnar storage for OHLCV candles.
// Invariant: ts[i] <= ts[i+1] for all i after any mutation.
type Series struct {
	n   int // row count
	cap int // backing capacity, cap >= n

	ts    []int64
	open  []float64
	high  []float64
	low   []float64
	close []float64

	// Optional columns, allocated the first time a row supplies them.
	// Absent volume entries hold NaN; absent meta entries hold nil.
	volume []float64
	meta   []map[string]any

	// gen increments on every mutation; DataViews remember the gen they
	// were cut at so staleness is detectable.
	gen uint64

	listeners listenerSet
}

// New creates an empty Series.
func New() *Series {
	return &Series{}
}

// FromCandles creates a Series pre-loaded with rows (sorted on construction).
func FromCandles(rows []model.Candle) *Series {
	s := New()
	s.SetData(rows)
	return s
}

// Len returns the number of stored candles.
func (s *Series) Len() int { return s.n }

// Cap returns the current backing capacity.
func (s *Series) Cap() int { return s.cap }

// SetData replaces the entire contents with a sorted copy of rows.
// The sort is stable: rows with equal timestamps keep their input order.
// Optional columns are allocated only if some row carries them.
// An empty input clears the store.
func (s *Series) SetData(rows []model.Candle) {
	if len(rows) == 0 {
		s.Clear()
		return
	}

	sorted := make([]model.Candle, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TS < sorted[j].TS
	})

	hasVolume := false
	hasMeta := false
	for i := range sorted {
		if sorted[i].Volume != nil {
			hasVolume = true
		}
		if sorted[i].Meta != nil {
			hasMeta = true
		}
	}

	// Exact-size reallocation: a full replace resets capacity to length.
	n := len(sorted)
	s.n = n
	s.cap = n
	s.ts = make([]int64, n)
	s.open = make([]float64, n)
	s.high = make([]float64, n)
	s.low = make([]float64, n)
	s.close = make([]float64, n)
	s.volume = nil
	s.meta = nil
	if hasVolume {
		s.volume = make([]float64, n)
	}
	if hasMeta {
		s.meta = make([]map[string]any, n)
	}

	for i := range sorted {
		c := &sorted[i]
		s.ts[i] = c.TS
		s.open[i] = c.Open
		s.high[i] = c.High
		s.low[i] = c.Low
		s.close[i] = c.Close
		if hasVolume {
			if c.Volume != nil {
				s.volume[i] = *c.Volume
			} else {
				s.volume[i] = math.NaN()
			}
		}
		if hasMeta {
			s.meta[i] = c.Meta
		}
	}

	s.gen++
	s.notify()
}

// FirstIndexAtOrAfter returns the smallest index i with ts[i] >= t,
// or Len() if no such index exists. Returns 0 on an empty store.
func (s *Series) FirstIndexAtOrAfter(t int64) int {
	return sort.Search(s.n, func(i int) bool { return s.ts[i] >= t })
}

// LastIndexAtOrBefore returns the largest index i with ts[i] <= t,
// or -1 if no such index exists.
func (s *Series) LastIndexAtOrBefore(t int64) int {
	return sort.Search(s.n, func(i int) bool { return s.ts[i] > t }) - 1
}

// AppendCandle appends a row, growing the backing storage 1.5x (minimum
// 16) only when full. Optional columns are allocated lazily the first time
// a row supplies them; prior rows default to absent. Amortized O(1).
func (s *Series) AppendCandle(c model.Candle) {
	if s.n == s.cap {
		s.grow()
	}
	i := s.n
	s.ts[i] = c.TS
	s.open[i] = c.Open
	s.high[i] = c.High
	s.low[i] = c.Low
	s.close[i] = c.Close
	s.setOptional(i, &c)
	s.n++
	s.gen++
	s.notify()
}

// UpdateLastCandle overwrites the row at Len()-1 in place.
// No-op with a diagnostic on an empty store.
func (s *Series) UpdateLastCandle(c model.Candle) {
	if s.n == 0 {
		log.Printf("[series] updateLastCandle on empty store, ignored")
		return
	}
	i := s.n - 1
	s.ts[i] = c.TS
	s.open[i] = c.Open
	s.high[i] = c.High
	s.low[i] = c.Low
	s.close[i] = c.Close
	s.setOptional(i, &c)
	s.gen++
	s.notify()
}

// UpdateOrAppend routes a live row: empty store or strictly newer
// timestamp appends, an equal timestamp updates the last row in place,
// and an older timestamp is rejected with a diagnostic so the sort
// invariant can never be corrupted by a late row.
func (s *Series) UpdateOrAppend(c model.Candle) {
	if s.n == 0 {
		s.AppendCandle(c)
		return
	}
	last := s.ts[s.n-1]
	switch {
	case c.TS == last:
		s.UpdateLastCandle(c)
	case c.TS > last:
		s.AppendCandle(c)
	default:
		log.Printf("[series] out-of-order candle rejected: ts=%d last=%d", c.TS, last)
	}
}

// Clear resets the store to empty and fires the change notification.
func (s *Series) Clear() {
	s.n = 0
	s.cap = 0
	s.ts = nil
	s.open = nil
	s.high = nil
	s.low = nil
	s.close = nil
	s.volume = nil
	s.meta = nil
	s.gen++
	s.notify()
}

// DomainX returns the full stored time extent, or false if empty.
func (s *Series) DomainX() (model.TimeRange, bool) {
	if s.n == 0 {
		return model.TimeRange{}, false
	}
	return model.TimeRange{Start: s.ts[0], End: s.ts[s.n-1]}, true
}

// DomainY returns min(low)/max(high) over the rows covered by the
// optional time constraint (nil means the whole series). Returns false
// when the constrained span holds no rows.
func (s *Series) DomainY(tr *model.TimeRange) (model.PriceRange, bool) {
	lo, hi := 0, s.n
	if tr != nil {
		lo = s.FirstIndexAtOrAfter(tr.Start)
		hi = s.LastIndexAtOrBefore(tr.End) + 1
	}
	if lo >= hi || s.n == 0 {
		return model.PriceRange{}, false
	}
	pr := model.PriceRange{Min: s.low[lo], Max: s.high[lo]}
	for i := lo + 1; i < hi; i++ {
		if s.low[i] < pr.Min {
			pr.Min = s.low[i]
		}
		if s.high[i] > pr.Max {
			pr.Max = s.high[i]
		}
	}
	return pr, true
}

// CandleAt reconstructs the candle value at index i.
// Panics on out-of-range i, same as a slice index.
func (s *Series) CandleAt(i int) model.Candle {
	c := model.Candle{
		TS:    s.ts[i],
		Open:  s.open[i],
		High:  s.high[i],
		Low:   s.low[i],
		Close: s.close[i],
	}
	if s.volume != nil && !math.IsNaN(s.volume[i]) {
		v := s.volume[i]
		c.Volume = &v
	}
	if s.meta != nil {
		c.Meta = s.meta[i]
	}
	return c
}

// LastTS returns the timestamp of the newest row, or false if empty.
func (s *Series) LastTS() (int64, bool) {
	if s.n == 0 {
		return 0, false
	}
	return s.ts[s.n-1], true
}

// AverageCandleDuration estimates the spacing between rows in
// milliseconds. Returns 0 with fewer than two rows.
func (s *Series) AverageCandleDuration() int64 {
	if s.n < 2 {
		return 0
	}
	return (s.ts[s.n-1] - s.ts[0]) / int64(s.n-1)
}

// OnChange registers a listener invoked synchronously, in registration
// order, after every mutation that alters visible state. The returned
// function unsubscribes in O(1) and is safe to call from inside a
// listener during dispatch.
func (s *Series) OnChange(fn func()) (unsubscribe func()) {
	return s.listeners.add(fn)
}

func (s *Series) notify() {
	s.listeners.dispatch()
}

// setOptional writes the optional columns for row i, lazily allocating
// a column the first time any row supplies it.
func (s *Series) setOptional(i int, c *model.Candle) {
	if c.Volume != nil && s.volume == nil {
		s.volume = make([]float64, s.cap)
		for j := 0; j < i; j++ {
			s.volume[j] = math.NaN()
		}
	}
	if s.volume != nil {
		if c.Volume != nil {
			s.volume[i] = *c.Volume
		} else {
			s.volume[i] = math.NaN()
		}
	}
	if c.Meta != nil && s.meta == nil {
		s.meta = make([]map[string]any, s.cap)
	}
	if s.meta != nil {
		s.meta[i] = c.Meta
	}
}

// grow reallocates all columns at 1.5x capacity (minimum 16).
func (s *Series) grow() {
	newCap := int(float64(s.cap) * growthFactor)
	if newCap < initialCapacity {
		newCap = initialCapacity
	}
	if newCap <= s.cap {
		newCap = s.cap + 1
	}

	s.ts = growInt64(s.ts, s.n, newCap)
	s.open = growFloat(s.open, s.n, newCap)
	s.high = growFloat(s.high, s.n, newCap)
	s.low = growFloat(s.low, s.n, newCap)
	s.close = growFloat(s.close, s.n, newCap)
	if s.volume != nil {
		nv := make([]float64, newCap)
		copy(nv, s.volume[:s.n])
		s.volume = nv
	}
	if s.meta != nil {
		nm := make([]map[string]any, newCap)
		copy(nm, s.meta[:s.n])
		s.meta = nm
	}
	s.cap = newCap
}

func growInt64(col []int64, n, newCap int) []int64 {
	out := make([]int64, newCap)
	copy(out, col[:n])
	return out
}

func growFloat(col []float64, n, newCap int) []float64 {
	out := make([]float64, newCap)
	copy(out, col[:n])
	return out
}
