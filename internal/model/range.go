package model

// TimeRange is a half-open-in-spirit time window [Start, End] in Unix
// milliseconds. Start <= End normally, but consumers must tolerate a
// degenerate Start == End span without dividing by zero.
type TimeRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Span returns End - Start in milliseconds.
func (r TimeRange) Span() int64 {
	return r.End - r.Start
}

// Center returns the midpoint of the range.
func (r TimeRange) Center() int64 {
	return r.Start + (r.End-r.Start)/2
}

// Contains reports whether ts falls inside the range (inclusive).
func (r TimeRange) Contains(ts int64) bool {
	return ts >= r.Start && ts <= r.End
}

// Shift returns the range translated by delta milliseconds.
func (r TimeRange) Shift(delta int64) TimeRange {
	return TimeRange{Start: r.Start + delta, End: r.End + delta}
}

// PriceRange is a vertical price window [Min, Max].
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r PriceRange) Span() float64 {
	return r.Max - r.Min
}

// Union returns the smallest range covering both r and other.
func (r PriceRange) Union(other PriceRange) PriceRange {
	out := r
	if other.Min < out.Min {
		out.Min = other.Min
	}
	if other.Max > out.Max {
		out.Max = other.Max
	}
	return out
}

// ViewportPriceConfig is a PriceRange plus reserved pixels at the top and
// bottom of the plot before the price-to-pixel mapping begins.
type ViewportPriceConfig struct {
	PriceRange
	PaddingPx float64 `json:"padding_px"`
}
