package series

import (
	"math"

	"candlechart/internal/model"
)

// DataView is a read-only window over a contiguous index range of a
// Series's backing columns. It is a borrowed view, not a copy: it aliases
// the store's memory and becomes invalid after the next mutation of the
// owning Series (Stale reports this). Consumers must not retain a view
// across a mutation; cut a fresh one per frame instead.
type DataView struct {
	src   *Series
	gen   uint64
	first int // absolute index of row 0 in the owning series

	ts    []int64
	open  []float64
	high  []float64
	low   []float64
	close []float64
	vol   []float64
	meta  []map[string]any
}

// RangeByIndex returns a view over rows [lo, hi). Out-of-bounds indices
// are clamped; an inverted range yields a zero-length view, never an error.
func (s *Series) RangeByIndex(lo, hi int) DataView {
	if lo < 0 {
		lo = 0
	}
	if hi > s.n {
		hi = s.n
	}
	if lo > hi {
		lo, hi = 0, 0
	}
	v := DataView{
		src:   s,
		gen:   s.gen,
		first: lo,
		ts:    s.ts[lo:hi],
		open:  s.open[lo:hi],
		high:  s.high[lo:hi],
		low:   s.low[lo:hi],
		close: s.close[lo:hi],
	}
	if s.volume != nil {
		v.vol = s.volume[lo:hi]
	}
	if s.meta != nil {
		v.meta = s.meta[lo:hi]
	}
	return v
}

// RangeByTime returns a view over all rows with t0 <= ts <= t1.
func (s *Series) RangeByTime(t0, t1 int64) DataView {
	return s.RangeByIndex(s.FirstIndexAtOrAfter(t0), s.LastIndexAtOrBefore(t1)+1)
}

// Len returns the number of rows in the view.
func (v *DataView) Len() int { return len(v.ts) }

// FirstIndex returns the absolute series index of the view's row 0.
func (v *DataView) FirstIndex() int { return v.first }

// Stale reports whether the owning Series has mutated since this view
// was cut. A stale view must be discarded.
func (v *DataView) Stale() bool {
	return v.src == nil || v.src.gen != v.gen
}

// TS returns the timestamp at view-relative row i.
func (v *DataView) TS(i int) int64 { return v.ts[i] }

// Open returns the open price at row i.
func (v *DataView) Open(i int) float64 { return v.open[i] }

// High returns the high price at row i.
func (v *DataView) High(i int) float64 { return v.high[i] }

// Low returns the low price at row i.
func (v *DataView) Low(i int) float64 { return v.low[i] }

// Close returns the close price at row i.
func (v *DataView) Close(i int) float64 { return v.close[i] }

// Volume returns the volume at row i and whether one was recorded.
func (v *DataView) Volume(i int) (float64, bool) {
	if v.vol == nil || math.IsNaN(v.vol[i]) {
		return 0, false
	}
	return v.vol[i], true
}

// Meta returns the opaque metadata at row i, or nil.
func (v *DataView) Meta(i int) map[string]any {
	if v.meta == nil {
		return nil
	}
	return v.meta[i]
}

// Candle reconstructs the candle value at row i.
func (v *DataView) Candle(i int) model.Candle {
	c := model.Candle{
		TS:    v.ts[i],
		Open:  v.open[i],
		High:  v.high[i],
		Low:   v.low[i],
		Close: v.close[i],
	}
	if val, ok := v.Volume(i); ok {
		c.Volume = &val
	}
	c.Meta = v.Meta(i)
	return c
}

// PriceExtent returns min(low)/max(high) across the view, or false if
// the view is empty.
func (v *DataView) PriceExtent() (model.PriceRange, bool) {
	if len(v.ts) == 0 {
		return model.PriceRange{}, false
	}
	pr := model.PriceRange{Min: v.low[0], Max: v.high[0]}
	for i := 1; i < len(v.ts); i++ {
		if v.low[i] < pr.Min {
			pr.Min = v.low[i]
		}
		if v.high[i] > pr.Max {
			pr.Max = v.high[i]
		}
	}
	return pr, true
}
