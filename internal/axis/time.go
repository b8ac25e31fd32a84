package axis

import (
	"time"

	"candlechart/internal/model"
)

// TimeTick is one labeled marker on the time axis.
type TimeTick struct {
	TS    int64 // Unix milliseconds
	X     float64
	Label string
}

const (
	second = int64(1000)
	minute = 60 * second
	hour   = 60 * minute
	day    = 24 * hour
	week   = 7 * day
	month  = 30 * day
	year   = 365 * day
)

// timeLadder holds calendar-aware steps from one second up to one year.
var timeLadder = []int64{
	second, 2 * second, 5 * second, 10 * second, 15 * second, 30 * second,
	minute, 2 * minute, 5 * minute, 10 * minute, 15 * minute, 30 * minute,
	hour, 2 * hour, 3 * hour, 6 * hour, 12 * hour,
	day, 2 * day,
	week, 2 * week,
	month, 3 * month, 6 * month,
	year,
}

// TimeInterval picks the smallest ladder step >= target milliseconds.
// Beyond one year it scales the year step by an integer multiplier.
func TimeInterval(target int64) int64 {
	for _, iv := range timeLadder {
		if iv >= target {
			return iv
		}
	}
	mult := target / year
	if target%year != 0 {
		mult++
	}
	return mult * year
}

// TimeTicks enumerates ticks for the visible time range. xScale maps a
// timestamp to its pixel position. Degenerate inputs yield an empty list.
func TimeTicks(tr model.TimeRange, availablePx, minSpacingPx float64, xScale func(int64) float64) []TimeTick {
	n := maxTicks(availablePx, minSpacingPx)
	span := tr.Span()
	if n <= 0 || span <= 0 {
		return nil
	}

	target := span / int64(n)
	if span%int64(n) != 0 {
		target++
	}
	interval := TimeInterval(target)

	first := tr.Start
	if rem := mod(first, interval); rem != 0 {
		first += interval - rem
	}

	var ticks []TimeTick
	for ts := first; ts <= tr.End; ts += interval {
		ticks = append(ticks, TimeTick{
			TS:    ts,
			X:     xScale(ts),
			Label: formatTime(ts, interval),
		})
	}
	return ticks
}

// mod is a non-negative modulo for timestamps before the epoch.
func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// formatTime renders a timestamp at a granularity matching the interval:
// coarse intervals get dates, fine intervals get clock times.
func formatTime(ts, interval int64) string {
	t := time.UnixMilli(ts).UTC()
	switch {
	case interval >= year:
		return t.Format("2006")
	case interval >= month:
		return t.Format("Jan 2006")
	case interval >= day:
		return t.Format("Jan 02")
	case interval >= minute:
		return t.Format("15:04")
	default:
		return t.Format("15:04:05")
	}
}
