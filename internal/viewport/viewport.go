// Package viewport maps between the chart's logical (time, price) domain
// and pixel space, and carries the pan/zoom/clamp arithmetic.
//
// A Viewport is pure transform state: it knows nothing about any series.
// The chart owns one Viewport for its lifetime and mutates it in place;
// interaction handlers read and write it through that single shared
// pointer, so it is never swapped out from under them.
package viewport

import (
	"log"
	"math"

	"candlechart/internal/model"
)

// Viewport holds the currently visible time and price window plus the
// pixel dimensions it maps onto.
type Viewport struct {
	Time   model.TimeRange
	Price  model.ViewportPriceConfig
	Width  float64
	Height float64
}

// New creates a viewport over the given domain window and pixel surface.
func New(tr model.TimeRange, price model.ViewportPriceConfig, width, height float64) *Viewport {
	return &Viewport{Time: tr, Price: price, Width: width, Height: height}
}

// XScale maps a timestamp to an x pixel. A degenerate zero-span time
// window maps everything to 0.
func (v *Viewport) XScale(ts int64) float64 {
	span := v.Time.Span()
	if span == 0 {
		return 0
	}
	return float64(ts-v.Time.Start) / float64(span) * v.Width
}

// YScale maps a price to a y pixel, inverted: higher price, smaller y.
// Prices map from [Min, Max] onto [Height-PaddingPx, PaddingPx]. A
// degenerate zero-span price window maps everything to Height/2.
func (v *Viewport) YScale(price float64) float64 {
	span := v.Price.Span()
	if span == 0 {
		return v.Height / 2
	}
	inner := v.Height - 2*v.Price.PaddingPx
	return v.Height - v.Price.PaddingPx - (price-v.Price.Min)/span*inner
}

// InvX is the exact algebraic inverse of XScale. Zero width returns the
// window start.
func (v *Viewport) InvX(x float64) int64 {
	if v.Width == 0 {
		return v.Time.Start
	}
	return v.Time.Start + int64(math.Round(x/v.Width*float64(v.Time.Span())))
}

// InvY is the exact algebraic inverse of YScale. A zero inner height
// (Height - 2*PaddingPx) returns the mid price.
func (v *Viewport) InvY(y float64) float64 {
	inner := v.Height - 2*v.Price.PaddingPx
	if inner == 0 {
		return (v.Price.Min + v.Price.Max) / 2
	}
	return v.Price.Min + (v.Height-v.Price.PaddingPx-y)/inner*v.Price.Span()
}

// Pan translates the window: both time endpoints shift by timeDelta and
// both price endpoints by priceDelta. Translation only, never scaling.
func (v *Viewport) Pan(timeDelta int64, priceDelta float64) {
	v.Time = v.Time.Shift(timeDelta)
	v.Price.Min += priceDelta
	v.Price.Max += priceDelta
}

// Zoom scales the time span by 1/factor while keeping the domain time
// under the centerX pixel fixed: the span is split at the center time and
// the new span is redistributed using the same before/after ratio, so
// InvX(centerX) is identical before and after the call.
func (v *Viewport) Zoom(factor float64, centerX float64) {
	if factor <= 0 {
		log.Printf("[viewport] ignoring zoom with non-positive factor %v", factor)
		return
	}
	span := v.Time.Span()
	if span == 0 {
		return
	}
	center := v.InvX(centerX)
	before := float64(center - v.Time.Start)
	ratio := before / float64(span)

	newSpan := float64(span) / factor
	v.Time.Start = center - int64(math.Round(ratio*newSpan))
	v.Time.End = v.Time.Start + int64(math.Round(newSpan))
}

// ClampTimeRange constrains the time window in three steps: first the
// span is clamped into [minSpan, maxSpan] by growing or shrinking
// symmetrically around the current center, then a window lying wholly
// outside [minTime, maxTime] is slid back (span preserved) to abut the
// bound it overshot, and finally any endpoint still outside the domain
// is pulled back to the bound.
func (v *Viewport) ClampTimeRange(minTime, maxTime, minSpan, maxSpan int64) {
	span := v.Time.Span()
	if minSpan > 0 && span < minSpan {
		v.resizeAroundCenter(minSpan)
	} else if maxSpan > 0 && span > maxSpan {
		v.resizeAroundCenter(maxSpan)
	}

	span = v.Time.Span()
	if v.Time.Start > maxTime {
		v.Time = model.TimeRange{Start: maxTime - span, End: maxTime}
	} else if v.Time.End < minTime {
		v.Time = model.TimeRange{Start: minTime, End: minTime + span}
	}

	if v.Time.Start < minTime {
		v.Time.Start = minTime
	}
	if v.Time.End > maxTime {
		v.Time.End = maxTime
	}
	if v.Time.End < v.Time.Start {
		v.Time.End = v.Time.Start
	}
}

func (v *Viewport) resizeAroundCenter(span int64) {
	center := v.Time.Center()
	v.Time.Start = center - span/2
	v.Time.End = v.Time.Start + span
}
