package render

// Theme carries the colors and font the pipeline draws with. Colors are
// backend-native strings (CSS-style for canvas-like surfaces).
type Theme struct {
	Background string
	GridLine   string
	AxisLine   string
	AxisLabel  string
	Font       string

	UpColor   string
	DownColor string

	CrosshairLine  string
	CrosshairLabel string

	VolumeUp   string
	VolumeDown string
}

// DefaultTheme is a dark theme in the usual green-up/red-down convention.
func DefaultTheme() Theme {
	return Theme{
		Background: "#131722",
		GridLine:   "#1e222d",
		AxisLine:   "#2a2e39",
		AxisLabel:  "#787b86",
		Font:       "11px sans-serif",

		UpColor:   "#26a69a",
		DownColor: "#ef5350",

		CrosshairLine:  "#758696",
		CrosshairLabel: "#d1d4dc",

		VolumeUp:   "#26a69a80",
		VolumeDown: "#ef535080",
	}
}
