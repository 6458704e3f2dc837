package domain

import "math"

// GridSize is the fixed number of cells per grid side.
const GridSize = 30

// GeoPoint is a WGS-84 latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SamplePoint is one cell of a generated probability field.
type SamplePoint struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Temperature float64 `json:"temperature"` // °C
	Humidity    float64 `json:"humidity"`    // %, clamped [0,100]
	Probability float64 `json:"probability"` // %, clamped [0,100]
}

// Grid is a GridSize×GridSize field of samples in row-major order:
// index = i·GridSize + j, where i advances latitude and j longitude.
type Grid []SamplePoint

// At returns the sample at row i, column j. Bounds are the caller's problem.
func (g Grid) At(i, j int) SamplePoint {
	return g[i*GridSize+j]
}

const (
	kmPerDegreeLat = 111.0
	// minCosLat keeps the longitude step finite at pole-adjacent latitudes.
	minCosLat = 1e-6

	temperatureSwing = 2.0 // °C at full noise amplitude
	humiditySwing    = 8.0 // % at full noise amplitude
	edgeFalloff      = 0.3 // variation attenuation at the grid corner
)

// noise is a deterministic smooth variation function over integer cell
// indices. Index-based rather than coordinate-based, so the pattern does
// not change with the requested area size.
func noise(i, j int) float64 {
	fi, fj := float64(i), float64(j)
	return 0.5*math.Sin(0.1*fi+0.1*fj) +
		0.3*math.Sin(0.05*fi+0.15*fj) +
		0.2*math.Sin(0.02*fi+0.08*fj)
}

// GenerateField synthesizes a square probability field of GridSize²
// samples centered on center, covering areaKm kilometers per side, from
// five-day mean base conditions.
//
// The function never fails: NaN base values propagate into NaN samples,
// which contour extraction and rendering treat as "no contribution".
func GenerateField(center GeoPoint, areaKm, baseTemp, baseHumidity float64, params Params) Grid {
	step := areaKm / GridSize
	latStep := step / kmPerDegreeLat

	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < minCosLat {
		cosLat = minCosLat
	}
	lngStep := step / (kmPerDegreeLat * cosLat)

	maxDistance := math.Sqrt2 * areaKm / 2

	grid := make(Grid, 0, GridSize*GridSize)
	for i := 0; i < GridSize; i++ {
		for j := 0; j < GridSize; j++ {
			di := float64(i - GridSize/2)
			dj := float64(j - GridSize/2)

			distance := math.Hypot(di*step, dj*step)
			distanceFactor := 1 - edgeFalloff*(distance/maxDistance)

			n := noise(i, j)
			temperature := baseTemp + n*temperatureSwing*distanceFactor
			humidity := clamp(baseHumidity+n*humiditySwing*distanceFactor, 0, 100)

			grid = append(grid, SamplePoint{
				Lat:         center.Lat + di*latStep,
				Lng:         center.Lng + dj*lngStep,
				Temperature: temperature,
				Humidity:    humidity,
				Probability: params.Probability(humidity, temperature),
			})
		}
	}
	return grid
}
