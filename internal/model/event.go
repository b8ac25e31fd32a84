package model

// EventType identifies a normalized input event delivered to the chart.
// The host is expected to capture raw platform events and hand them over
// already normalized to chart-local pixel coordinates.
type EventType string

const (
	EventPointerDown   EventType = "pointerdown"
	EventPointerMove   EventType = "pointermove"
	EventPointerUp     EventType = "pointerup"
	EventPointerCancel EventType = "pointercancel"
	EventWheel         EventType = "wheel"
	EventMouseLeave    EventType = "mouseleave"
	EventClick         EventType = "click"
	EventDblClick      EventType = "dblclick"
)

// Buttons, matching the usual pointer-event numbering.
const (
	ButtonPrimary   = 0
	ButtonAuxiliary = 1
	ButtonSecondary = 2
)

// Event is a normalized input event in chart-local pixel coordinates.
// DeltaX/DeltaY are only meaningful for wheel events, Button for pointer
// events. Original carries the untouched host event for plugins that need
// backend specifics.
type Event struct {
	Type     EventType
	ChartX   float64
	ChartY   float64
	DeltaX   float64
	DeltaY   float64
	Button   int
	ShiftKey bool
	CtrlKey  bool
	AltKey   bool
	MetaKey  bool
	Original any
}

// WheelMode selects how wheel input steers the viewport.
type WheelMode string

const (
	// WheelZoomX zooms the time axis around the pointer.
	WheelZoomX WheelMode = "zoomX"
	// WheelScrollX pans the time axis.
	WheelScrollX WheelMode = "scrollX"
	// WheelBlend picks zoom or scroll based on the dominant wheel axis.
	WheelBlend WheelMode = "blend"
)
