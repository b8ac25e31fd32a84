package model

import "encoding/json"

// Candle represents a single OHLCV observation for one time bucket.
// TS is the bucket start time in Unix milliseconds. Prices are float64.
// Volume and Meta are optional; a nil Volume means "no volume recorded".
//
// A Candle is an immutable value: mutations of stored data always go
// through the series store, which writes a new logical row.
type Candle struct {
	TS     int64          `json:"ts"` // Unix milliseconds
	Open   float64        `json:"open"`
	High   float64        `json:"high"`
	Low    float64        `json:"low"`
	Close  float64        `json:"close"`
	Volume *float64       `json:"volume,omitempty"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// Vol returns the candle volume and whether one was recorded.
func (c *Candle) Vol() (float64, bool) {
	if c.Volume == nil {
		return 0, false
	}
	return *c.Volume, true
}

// WithVolume returns a copy of the candle carrying the given volume.
func (c Candle) WithVolume(v float64) Candle {
	c.Volume = &v
	return c
}

// JSON returns the JSON-encoded candle (ignoring errors for hot-path usage).
func (c *Candle) JSON() []byte {
	b, _ := json.Marshal(c)
	return b
}
