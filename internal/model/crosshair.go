package model

// CrosshairState is the current crosshair position in both pixel and
// domain coordinates, plus the snapped candle if one is visible.
//
// Recomputed on every pointer move while visible; hidden on pointer leave.
// Candle and CandleIndex are unset when no candle is visible under the
// cursor; the pixel and domain fields stay valid regardless.
type CrosshairState struct {
	X     float64 // chart-local pixels
	Y     float64
	Time  int64 // domain time under the cursor, Unix ms
	Price float64

	Candle      *Candle
	CandleIndex int // valid only when Candle != nil

	Visible bool
}
