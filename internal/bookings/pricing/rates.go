package pricing

import (
	"math"

	"expostall/pkg/model"
)

// ResolveRate returns the authoritative per-square-meter rate for a stall
// of the given type within an exhibition.
//
// Resolution order:
//  1. An exhibition-level override for the stall type wins outright; it is
//     already expressed per square meter.
//  2. Otherwise the stall type's default rate applies, adjusted by its rate
//     type: per_sqm is used as-is; per_stall is divided by the type's
//     default geometry area (falling back to the raw rate when that area is
//     zero); per_day passes through unmodified, as no day-count conversion
//     exists yet.
//
// The result is rounded to 2 decimal places.
func ResolveRate(exhibition *model.Exhibition, st *model.StallType) float64 {
	if st == nil {
		return 0
	}

	if exhibition != nil {
		if override, ok := exhibition.OverrideRateFor(st.ID); ok {
			return Round2(override)
		}
	}

	rate := st.DefaultRate
	switch st.RateType {
	case model.RatePerStall:
		area := DimensionsArea(defaultShape(st), &st.DefaultSize)
		if area > 0 {
			rate = st.DefaultRate / area
		}
	case model.RatePerDay:
		// No day-count conversion defined; the raw rate passes through.
	}

	return Round2(rate)
}

func defaultShape(st *model.StallType) string {
	if st.DefaultSize.Rect1Width > 0 || st.DefaultSize.Rect2Width > 0 {
		return model.ShapeLShape
	}
	return model.ShapeRectangle
}

// RateValid reports whether a rate stored on a stall is usable. Absent,
// NaN, and non-positive values all require re-resolution.
func RateValid(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate > 0
}
