package render

// Phase is one of the five fixed points in a frame where plugins may draw
// or react. The pipeline invokes every phase exactly once per frame, in
// strictly increasing order, regardless of which plugins are installed.
type Phase int

const (
	BeforeRender Phase = iota
	AfterGrid
	AfterAxes
	AfterCandles
	AfterRender
)

// Phases lists all phases in frame order.
var Phases = []Phase{BeforeRender, AfterGrid, AfterAxes, AfterCandles, AfterRender}

func (p Phase) String() string {
	switch p {
	case BeforeRender:
		return "beforeRender"
	case AfterGrid:
		return "afterGrid"
	case AfterAxes:
		return "afterAxes"
	case AfterCandles:
		return "afterCandles"
	case AfterRender:
		return "afterRender"
	default:
		return "unknown"
	}
}
