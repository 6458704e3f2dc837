package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"
)

// Site is a monitored turf location.
type Site struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// RiskAssessment summarizes one recomputation of a site's probability field.
type RiskAssessment struct {
	ID               string    `json:"id"`
	Site             Site      `json:"site"`
	Date             string    `json:"date"` // observation date, YYYY-MM-DD UTC
	MeanTemperatureC float64   `json:"mean_temperature_c"`
	MeanHumidityPct  float64   `json:"mean_humidity_pct"`
	MeanProbability  float64   `json:"mean_probability"`
	MaxProbability   float64   `json:"max_probability"`
	RiskBand         string    `json:"risk_band"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// AssessGrid reduces a generated grid to a site assessment. NaN samples
// contribute nothing to the statistics.
func AssessGrid(site Site, date time.Time, weather WeatherSummary, grid Grid) RiskAssessment {
	mean, max := gridStats(grid)
	day := date.UTC().Format("2006-01-02")

	return RiskAssessment{
		ID:               generateID(site, day),
		Site:             site,
		Date:             day,
		MeanTemperatureC: weather.MeanTemperatureC,
		MeanHumidityPct:  weather.MeanHumidityPct,
		MeanProbability:  mean,
		MaxProbability:   max,
		RiskBand:         RiskBand(mean),
		GeneratedAt:      clock.Now().UTC(),
	}
}

// RiskBand classifies a probability into the five-band scale shared with
// the categorical color map.
func RiskBand(p float64) string {
	switch {
	case p < 20:
		return "low"
	case p < 40:
		return "moderate"
	case p < 60:
		return "elevated"
	case p < 80:
		return "high"
	default:
		return "extreme"
	}
}

func gridStats(grid Grid) (mean, max float64) {
	var sum float64
	var n int
	for _, s := range grid {
		if math.IsNaN(s.Probability) {
			continue
		}
		sum += s.Probability
		if s.Probability > max {
			max = s.Probability
		}
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), max
}

// generateID builds a deterministic SHA-256 based ID over site|lat|lng|date
// so repeated assessments of the same site and day collapse downstream.
func generateID(site Site, day string) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s|%.4f|%.4f|%s", site.Name, site.Lat, site.Lng, day))
	return "turf-" + hex.EncodeToString(h[:8])
}
