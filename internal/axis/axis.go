// Package axis computes "nice" tick positions and labels for the time and
// price axes. Generators take the visible span plus the pixels available
// for the axis and pick the smallest ladder interval that keeps ticks at
// least a minimum spacing apart.
package axis

// maxTicks returns how many ticks fit into availablePx at minSpacingPx
// apart. Non-positive inputs yield 0, which generators treat as "emit
// nothing" rather than an error.
func maxTicks(availablePx, minSpacingPx float64) int {
	if availablePx <= 0 || minSpacingPx <= 0 {
		return 0
	}
	return int(availablePx / minSpacingPx)
}
