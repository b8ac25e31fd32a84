package axis

import (
	"math"
	"strconv"

	"candlechart/internal/model"
)

// PriceTick is one labeled marker on the price axis.
type PriceTick struct {
	Price float64
	Y     float64 // pixel position via the supplied scale
	Label string
}

// priceMantissas is the "nice" value ladder: {1, 2, 2.5, 5} x 10^k.
var priceMantissas = []float64{1, 2, 2.5, 5}

// PriceInterval picks the smallest nice interval >= target.
func PriceInterval(target float64) float64 {
	if target <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(target))
	for {
		base := math.Pow(10, exp)
		for _, m := range priceMantissas {
			if iv := m * base; iv >= target {
				return iv
			}
		}
		exp++
	}
}

// PriceTicks enumerates ticks for the visible price range. yScale maps a
// price to its pixel position. Degenerate inputs (no pixels, zero or
// inverted span) yield an empty list.
func PriceTicks(pr model.PriceRange, availablePx, minSpacingPx float64, yScale func(float64) float64) []PriceTick {
	n := maxTicks(availablePx, minSpacingPx)
	span := pr.Span()
	if n <= 0 || span <= 0 {
		return nil
	}

	interval := PriceInterval(span / float64(n))
	first := math.Ceil(pr.Min/interval) * interval

	var ticks []PriceTick
	// Guard the loop count against float accumulation on tiny intervals.
	for i := 0; ; i++ {
		p := first + float64(i)*interval
		if p > pr.Max || i > n+1 {
			break
		}
		ticks = append(ticks, PriceTick{
			Price: p,
			Y:     yScale(p),
			Label: formatPrice(p, interval),
		})
	}
	return ticks
}

// formatPrice renders a price with just enough decimals for the interval
// (2.5 needs one decimal, 0.25 needs two, 5 needs none).
func formatPrice(p, interval float64) string {
	decimals := 0
	for x := interval; x != math.Trunc(x) && decimals < 8; x *= 10 {
		decimals++
	}
	return strconv.FormatFloat(p, 'f', decimals, 64)
}
