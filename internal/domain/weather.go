package domain

import (
	"context"
	"time"
)

// WeatherSummary holds the reduced five-day mean conditions for one
// coordinate, along with the per-day observations that produced them.
// JSON field names match the map client's weather payload.
type WeatherSummary struct {
	MeanTemperatureC float64   `json:"avgTemp"`
	MeanHumidityPct  float64   `json:"avgHumidity"`
	Dates            []string  `json:"dates"`
	Temperatures     []float64 `json:"temperatures"`
	Humidities       []float64 `json:"humidities"`
	DataDays         int       `json:"dataDays"`
}

// WeatherProvider supplies recent mean weather conditions for a coordinate.
type WeatherProvider interface {
	// FiveDayMeans returns mean temperature (°C) and relative humidity (%)
	// over the five most recent days with valid observations ending at date.
	FiveDayMeans(ctx context.Context, lat, lng float64, date time.Time) (WeatherSummary, error)
}
