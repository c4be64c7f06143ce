// Package pricing computes authoritative booking charges: stall areas,
// per-area rates, discounts, amenity quantities, and taxes. Everything here
// is a pure function over the models; persistence and orchestration live in
// the service layer.
package pricing

import (
	"math"

	"expostall/pkg/model"
)

// PixelsPerMeter converts layout-editor pixel geometry to real-world
// meters. Stalls drawn on the canvas store pixel sizes; the same constant
// must be applied anywhere area or rate-per-area is derived.
const PixelsPerMeter = 50.0

// Round2 rounds to 2 decimal places. Applied at every derived monetary
// value, never only at the end.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// StallArea returns the stall's area in square meters. The explicit
// real-world dimensions override wins; otherwise the pixel footprint is
// converted. A stall with no usable geometry has area 0.
func StallArea(st *model.Stall) float64 {
	if st == nil {
		return 0
	}
	if st.Dimensions != nil {
		return dimensionsArea(st.Shape, st.Dimensions)
	}
	return pixelArea(st.Shape, st.Size)
}

// DimensionsArea returns the area of a real-world geometry descriptor in
// square meters. A nil descriptor has area 0.
func DimensionsArea(shape string, d *model.Dimensions) float64 {
	if d == nil {
		return 0
	}
	return dimensionsArea(shape, d)
}

func dimensionsArea(shape string, d *model.Dimensions) float64 {
	if shape == model.ShapeLShape {
		return d.Rect1Width*d.Rect1Height + d.Rect2Width*d.Rect2Height
	}
	return d.Width * d.Height
}

func pixelArea(shape string, s model.PixelSize) float64 {
	if shape == model.ShapeLShape {
		return s.Rect1Width/PixelsPerMeter*(s.Rect1Height/PixelsPerMeter) +
			s.Rect2Width/PixelsPerMeter*(s.Rect2Height/PixelsPerMeter)
	}
	return s.Width / PixelsPerMeter * (s.Height / PixelsPerMeter)
}
