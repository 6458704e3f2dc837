package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/turf-risk/internal/domain"
	"github.com/couchcryptid/turf-risk/internal/geojson"
)

// riskResponse is the default JSON shape of /api/v1/risk.
type riskResponse struct {
	Weather     domain.WeatherSummary `json:"weather"`
	Grid        []gridCell            `json:"grid"`
	Contours    []contourView         `json:"contours"`
	FillOpacity float64               `json:"fill_opacity"`
}

type gridCell struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Probability float64 `json:"probability"`
	FillColor   string  `json:"fill_color"`
}

type contourView struct {
	Level   float64           `json:"level"`
	Color   string            `json:"color"`
	Opacity float64           `json:"opacity"`
	Lines   []domain.Polyline `json:"lines"`
}

// handleWeather serves the five-day weather means for a point.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	lat, lng, date, err := parsePointQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.weather.FiveDayMeans(r.Context(), lat, lng, date)
	if err != nil {
		s.logger.Error("weather fetch failed", "lat", lat, "lng", lng, "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("weather data unavailable: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleRisk serves the full probability field and its contours for a point.
// With format=geojson the contours come back as a FeatureCollection instead.
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, lng, date, err := parsePointQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	areaKm, err := parsePositiveFloat(q, "area_km", s.areaKm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	interval, err := parsePositiveFloat(q, "interval", s.interval)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if interval > 100 {
		writeError(w, http.StatusBadRequest, "interval must be at most 100")
		return
	}

	format := q.Get("format")
	if format != "" && format != "json" && format != "geojson" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown format %q", format))
		return
	}

	summary, err := s.weather.FiveDayMeans(r.Context(), lat, lng, date)
	if err != nil {
		s.logger.Error("weather fetch failed", "lat", lat, "lng", lng, "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("weather data unavailable: %v", err))
		return
	}

	genStart := time.Now()
	grid := domain.GenerateField(domain.GeoPoint{Lat: lat, Lng: lng}, areaKm, summary.MeanTemperatureC, summary.MeanHumidityPct, s.params)
	s.metrics.FieldGenerations.Inc()
	s.metrics.FieldGenerationDuration.Observe(time.Since(genStart).Seconds())

	extractStart := time.Now()
	contours := domain.ExtractContours(grid, interval)
	s.metrics.ContourExtractionDuration.Observe(time.Since(extractStart).Seconds())

	var polylines int
	for _, c := range contours {
		polylines += len(c.Lines)
	}
	s.metrics.ContourPolylines.Observe(float64(polylines))

	if format == "geojson" {
		writeJSON(w, http.StatusOK, geojson.FromContours(contours))
		return
	}

	resp := riskResponse{
		Weather:     summary,
		Grid:        make([]gridCell, 0, len(grid)),
		Contours:    make([]contourView, 0, len(contours)),
		FillOpacity: domain.FillOpacity,
	}
	for _, sample := range grid {
		resp.Grid = append(resp.Grid, gridCell{
			Lat:         sample.Lat,
			Lng:         sample.Lng,
			Temperature: sample.Temperature,
			Humidity:    sample.Humidity,
			Probability: sample.Probability,
			FillColor:   domain.GradientColor(sample.Probability).Hex(),
		})
	}
	for _, c := range contours {
		resp.Contours = append(resp.Contours, contourView{
			Level:   c.Level,
			Color:   domain.CategoricalColor(c.Level),
			Opacity: domain.StrokeOpacity(c.Level),
			Lines:   c.Lines,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// parsePointQuery reads the lat, lng, and optional date parameters shared by
// the weather and risk endpoints. The date defaults to today.
func parsePointQuery(q url.Values) (lat, lng float64, date time.Time, err error) {
	lat, err = parseRequiredFloat(q, "lat")
	if err != nil {
		return 0, 0, time.Time{}, err
	}
	if lat < -90 || lat > 90 {
		return 0, 0, time.Time{}, fmt.Errorf("lat must be in [-90, 90]")
	}

	lng, err = parseRequiredFloat(q, "lng")
	if err != nil {
		return 0, 0, time.Time{}, err
	}
	if lng < -180 || lng > 180 {
		return 0, 0, time.Time{}, fmt.Errorf("lng must be in [-180, 180]")
	}

	date = time.Now().UTC()
	if s := q.Get("date"); s != "" {
		date, err = time.Parse("2006-01-02", s)
		if err != nil {
			return 0, 0, time.Time{}, fmt.Errorf("date must be YYYY-MM-DD")
		}
	}
	return lat, lng, date, nil
}

func parseRequiredFloat(q url.Values, key string) (float64, error) {
	s := q.Get(key)
	if s == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}

func parsePositiveFloat(q url.Values, key string, def float64) (float64, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("%s must be a positive number", key)
	}
	return f, nil
}
