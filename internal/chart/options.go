package chart

import (
	"candlechart/internal/layout"
	"candlechart/internal/model"
)

// Options configures a Chart at construction time. Zero values fall
// back to the defaults below.
type Options struct {
	Width  float64
	Height float64

	EnablePan       bool
	EnableZoom      bool
	EnableCrosshair bool

	WheelMode      model.WheelMode
	ZoomSpeed      float64
	MinVisibleBars int
	MaxVisibleBars int

	Layout layout.Options
}

// DefaultOptions returns the interactive defaults: all handlers on,
// wheel zooming, and the standard axis layout.
func DefaultOptions() Options {
	return Options{
		Width:           1024,
		Height:          640,
		EnablePan:       true,
		EnableZoom:      true,
		EnableCrosshair: true,
		WheelMode:       model.WheelZoomX,
		ZoomSpeed:       0.25,
		MinVisibleBars:  5,
		MaxVisibleBars:  2000,
	}
}

func (o *Options) fillDefaults() {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.WheelMode == "" {
		o.WheelMode = def.WheelMode
	}
	if o.ZoomSpeed <= 0 {
		o.ZoomSpeed = def.ZoomSpeed
	}
	if o.MinVisibleBars <= 0 {
		o.MinVisibleBars = def.MinVisibleBars
	}
	if o.MaxVisibleBars <= 0 {
		o.MaxVisibleBars = def.MaxVisibleBars
	}
}
