// Package layout partitions the chart canvas into named rectangles: the
// main plot area, the time-axis strip along the bottom, the price-axis
// strip along the right, and an optional volume strip above the time axis.
package layout

// Rect is a pixel rectangle (origin top-left).
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Options controls the partitioning.
type Options struct {
	PriceAxisWidth float64 // right strip, pixels
	TimeAxisHeight float64 // bottom strip, pixels
	ShowVolume     bool
	VolumeRatio    float64 // fraction of the plot height given to volume
}

// Defaults used when an option is unset.
const (
	defaultPriceAxisWidth = 64
	defaultTimeAxisHeight = 24
	defaultVolumeRatio    = 0.2
)

func (o *Options) defaults() {
	if o.PriceAxisWidth == 0 {
		o.PriceAxisWidth = defaultPriceAxisWidth
	}
	if o.TimeAxisHeight == 0 {
		o.TimeAxisHeight = defaultTimeAxisHeight
	}
	if o.VolumeRatio == 0 {
		o.VolumeRatio = defaultVolumeRatio
	}
}

// Layout is the computed partition of the canvas.
type Layout struct {
	Plot      Rect
	TimeAxis  Rect
	PriceAxis Rect
	Volume    Rect // zero Rect unless HasVolume
	HasVolume bool
}

// Compute partitions a width x height canvas. Degenerate canvases (axis
// strips larger than the canvas) collapse the plot to zero size rather
// than going negative.
func Compute(width, height float64, opts Options) Layout {
	opts.defaults()

	plotW := width - opts.PriceAxisWidth
	if plotW < 0 {
		plotW = 0
	}
	plotH := height - opts.TimeAxisHeight
	if plotH < 0 {
		plotH = 0
	}

	l := Layout{
		TimeAxis:  Rect{X: 0, Y: plotH, W: plotW, H: height - plotH},
		PriceAxis: Rect{X: plotW, Y: 0, W: width - plotW, H: plotH},
	}

	if opts.ShowVolume {
		volH := plotH * opts.VolumeRatio
		l.Plot = Rect{X: 0, Y: 0, W: plotW, H: plotH - volH}
		l.Volume = Rect{X: 0, Y: plotH - volH, W: plotW, H: volH}
		l.HasVolume = true
	} else {
		l.Plot = Rect{X: 0, Y: 0, W: plotW, H: plotH}
	}
	return l
}
