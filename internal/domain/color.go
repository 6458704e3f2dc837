package domain

import (
	"fmt"
	"math"
)

// RGB is an 8-bit color triple used for the gradient heat fill.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color in #rrggbb form.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FillOpacity is the constant per-cell opacity of the gradient heat fill.
const FillOpacity = 0.35

// bandWidth is the width of each of the five probability bands.
const bandWidth = 20.0

// CategoricalColor returns the isoline stroke color for a probability.
// Five fixed bands: green, yellow, orange, red, dark red.
func CategoricalColor(p float64) string {
	switch {
	case p < 20:
		return "#00ff00"
	case p < 40:
		return "#ffff00"
	case p < 60:
		return "#ffa500"
	case p < 80:
		return "#ff0000"
	default:
		return "#8b0000"
	}
}

// StrokeOpacity returns the isoline stroke opacity for a level: the level
// as a fraction, held within [0.4, 0.9] so faint lines stay visible and
// dense ones never fully occlude the fill.
func StrokeOpacity(level float64) float64 {
	return clamp(level/100, 0.4, 0.9)
}

// GradientColor maps a probability to the continuous heat-fill color,
// interpolating linearly within each band:
//
//	  0 → (0,255,0)    green
//	 20 → (255,255,0)  yellow
//	 40 → (255,0,0)    red
//	 60 → (255,0,0)    red (plateau)
//	 80 → (139,0,0)    dark red
//	100 → (255,0,0)    back toward red (139 + 116·ratio)
//
// Out-of-range inputs clamp to the nearest band edge; NaN yields the zero
// color, callers skip NaN samples when rendering.
func GradientColor(p float64) RGB {
	if math.IsNaN(p) {
		return RGB{}
	}
	p = clamp(p, 0, 100)

	switch {
	case p < 20:
		ratio := p / bandWidth
		return RGB{R: uint8(255 * ratio), G: 255, B: 0}
	case p < 40:
		ratio := (p - 20) / bandWidth
		return RGB{R: 255, G: uint8(255 * (1 - ratio)), B: 0}
	case p < 60:
		return RGB{R: 255, G: 0, B: 0}
	case p < 80:
		ratio := (p - 60) / bandWidth
		return RGB{R: uint8(255 - 116*ratio), G: 0, B: 0}
	default:
		ratio := (p - 80) / bandWidth
		return RGB{R: uint8(139 + 116*ratio), G: 0, B: 0}
	}
}
