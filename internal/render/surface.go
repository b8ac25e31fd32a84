// Package render orchestrates a single chart frame: layout, grid, axes,
// candle series, crosshair overlay, and plugin hooks at five fixed phases.
//
// The drawing backend is not implemented here. The engine only consumes
// the Surface contract below; any 2D immediate-mode backend satisfying it
// is substitutable.
package render

// Surface is the primitive 2D drawing contract the engine draws through.
// Coordinates are chart-local pixels with the origin at the top-left.
type Surface interface {
	// Path primitives.
	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke()

	// Rectangles and text.
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	DrawText(text string, x, y float64)
	MeasureText(text string) float64

	// Surface state.
	Clear()
	SetClip(x, y, w, h float64)
	Translate(x, y float64)
	Save()
	Restore()

	// Style state.
	SetLineDash(dash []float64)
	SetGlobalAlpha(alpha float64)
	SetStrokeColor(color string)
	SetFillColor(color string)
	SetLineWidth(width float64)
	SetFont(font string)

	// Dimensions.
	Resize(width, height float64)
	Width() float64
	Height() float64
}
