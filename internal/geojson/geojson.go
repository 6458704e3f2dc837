// Package geojson renders extracted contours as GeoJSON for map overlays.
package geojson

import (
	"github.com/couchcryptid/turf-risk/internal/domain"
)

// FeatureCollection is the top-level GeoJSON document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature pairs a geometry with display properties.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds a MultiLineString in GeoJSON [lng, lat] coordinate order.
type Geometry struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

// FromContours builds one MultiLineString feature per contour level. The
// stroke properties follow the simplestyle-spec keys that geojson.io and
// Mapbox render natively.
func FromContours(contours []domain.Contour) FeatureCollection {
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, len(contours)),
	}

	for _, c := range contours {
		coords := make([][][]float64, 0, len(c.Lines))
		for _, line := range c.Lines {
			lineCoords := make([][]float64, 0, len(line))
			for _, pt := range line {
				lineCoords = append(lineCoords, []float64{pt.Lng, pt.Lat})
			}
			coords = append(coords, lineCoords)
		}

		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "MultiLineString",
				Coordinates: coords,
			},
			Properties: map[string]any{
				"level":          c.Level,
				"risk_band":      domain.RiskBand(c.Level),
				"stroke":         domain.CategoricalColor(c.Level),
				"stroke-opacity": domain.StrokeOpacity(c.Level),
			},
		})
	}

	return fc
}
