package render

// RecordSurface is a headless Surface that records draw calls instead of
// rasterizing. It backs the demo binaries and the pipeline tests as a
// drop-in stand-in for a real canvas backend.
type RecordSurface struct {
	W, H float64
	Ops  []Op
}

// Op is one recorded draw call.
type Op struct {
	Name string
	Args []float64
	Text string
}

// NewRecordSurface creates a recording surface with the given dimensions.
func NewRecordSurface(w, h float64) *RecordSurface {
	return &RecordSurface{W: w, H: h}
}

// CountOp returns how many recorded calls match name.
func (r *RecordSurface) CountOp(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Reset drops all recorded calls.
func (r *RecordSurface) Reset() { r.Ops = r.Ops[:0] }

func (r *RecordSurface) rec(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func (r *RecordSurface) BeginPath()                  { r.rec("beginPath") }
func (r *RecordSurface) MoveTo(x, y float64)         { r.rec("moveTo", x, y) }
func (r *RecordSurface) LineTo(x, y float64)         { r.rec("lineTo", x, y) }
func (r *RecordSurface) Stroke()                     { r.rec("stroke") }
func (r *RecordSurface) FillRect(x, y, w, h float64) { r.rec("fillRect", x, y, w, h) }
func (r *RecordSurface) StrokeRect(x, y, w, h float64) {
	r.rec("strokeRect", x, y, w, h)
}

func (r *RecordSurface) DrawText(text string, x, y float64) {
	r.Ops = append(r.Ops, Op{Name: "drawText", Args: []float64{x, y}, Text: text})
}

// MeasureText approximates 6px per character, enough for layout math.
func (r *RecordSurface) MeasureText(text string) float64 { return float64(len(text)) * 6 }

func (r *RecordSurface) Clear()                      { r.rec("clear") }
func (r *RecordSurface) SetClip(x, y, w, h float64)  { r.rec("setClip", x, y, w, h) }
func (r *RecordSurface) Translate(x, y float64)      { r.rec("translate", x, y) }
func (r *RecordSurface) Save()                       { r.rec("save") }
func (r *RecordSurface) Restore()                    { r.rec("restore") }
func (r *RecordSurface) SetLineDash(dash []float64)  { r.rec("setLineDash", dash...) }
func (r *RecordSurface) SetGlobalAlpha(a float64)    { r.rec("setGlobalAlpha", a) }
func (r *RecordSurface) SetStrokeColor(color string) { r.Ops = append(r.Ops, Op{Name: "setStrokeColor", Text: color}) }
func (r *RecordSurface) SetFillColor(color string)   { r.Ops = append(r.Ops, Op{Name: "setFillColor", Text: color}) }
func (r *RecordSurface) SetLineWidth(w float64)      { r.rec("setLineWidth", w) }
func (r *RecordSurface) SetFont(font string)         { r.Ops = append(r.Ops, Op{Name: "setFont", Text: font}) }

func (r *RecordSurface) Resize(w, h float64) {
	r.W, r.H = w, h
	r.rec("resize", w, h)
}

func (r *RecordSurface) Width() float64  { return r.W }
func (r *RecordSurface) Height() float64 { return r.H }
