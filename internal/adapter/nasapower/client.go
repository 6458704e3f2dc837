// Package nasapower implements domain.WeatherProvider against the NASA
// POWER temporal daily point API.
//
// POWER serves satellite-derived daily weather with a few days of lag and
// occasional gaps, so the client requests a wider window than it needs
// (8 calendar days ending on the observation date), drops sentinel and
// out-of-range values, and averages the latest five valid days. Fewer than
// three valid days is treated as an error rather than a degraded answer.
package nasapower

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/couchcryptid/turf-risk/internal/domain"
	"github.com/couchcryptid/turf-risk/internal/observability"
)

const (
	// POWER reports missing days as large negative sentinels (-999, -6999).
	// Anything outside these bounds is treated as missing regardless of
	// whether the series is in Kelvin or Celsius.
	minPlausibleTemp = -100.0
	maxPlausibleTemp = 400.0

	// requestWindowDays is how far back from the observation date to ask
	// for data, padded so gaps still leave enough valid days.
	requestWindowDays = 7

	// minValidDays is the minimum number of usable days; below this the
	// mean would be too noisy to feed the model.
	minValidDays = 3

	// useLatestDays caps the averaging window to the most recent days.
	useLatestDays = 5
)

// Client fetches daily temperature and humidity from NASA POWER.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NASA POWER client. The API is unauthenticated.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://power.larc.nasa.gov/api/temporal/daily/point",
		metrics: metrics,
		logger:  logger,
	}
}

// FiveDayMeans returns mean temperature and humidity over the latest valid
// days of the window ending at date.
func (c *Client) FiveDayMeans(ctx context.Context, lat, lng float64, date time.Time) (domain.WeatherSummary, error) {
	end := date.UTC()
	start := end.AddDate(0, 0, -requestWindowDays)

	params := url.Values{
		"parameters": {"T2M,RH2M"},
		"community":  {"AG"},
		"longitude":  {fmt.Sprintf("%v", lng)},
		"latitude":   {fmt.Sprintf("%v", lat)},
		"start":      {start.Format("20060102")},
		"end":        {end.Format("20060102")},
		"format":     {"JSON"},
	}

	began := time.Now()
	resp, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.WeatherAPIDuration.Observe(time.Since(began).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.WeatherSummary{}, err
	}

	summary, err := summarize(resp)
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("insufficient").Inc()
		c.logger.Warn("weather data unusable", "lat", lat, "lng", lng, "date", end.Format("2006-01-02"), "error", err)
		return domain.WeatherSummary{}, err
	}

	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	c.logger.Debug("weather summary computed",
		"lat", lat, "lng", lng,
		"mean_temp_c", summary.MeanTemperatureC,
		"mean_humidity_pct", summary.MeanHumidityPct,
		"data_days", summary.DataDays,
	)
	return summary, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("power API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return response{}, fmt.Errorf("power API error: status %d: %s", resp.StatusCode, body)
	}

	var powerResp response
	if err := json.NewDecoder(resp.Body).Decode(&powerResp); err != nil {
		return response{}, fmt.Errorf("decode response: %w", err)
	}
	return powerResp, nil
}

// summarize filters the raw daily series down to valid days and averages
// the most recent ones.
func summarize(resp response) (domain.WeatherSummary, error) {
	temps := resp.Properties.Parameter.T2M
	hums := resp.Properties.Parameter.RH2M
	if len(temps) == 0 {
		return domain.WeatherSummary{}, fmt.Errorf("power response missing T2M series")
	}
	if len(hums) == 0 {
		return domain.WeatherSummary{}, fmt.Errorf("power response missing RH2M series")
	}

	days := make([]string, 0, len(temps))
	for day := range temps {
		days = append(days, day)
	}
	sort.Strings(days) // YYYYMMDD keys sort chronologically

	var valid []validDay
	for _, day := range days {
		t, ok := validTemperature(temps[day])
		if !ok {
			continue
		}
		h, ok := validHumidity(hums[day])
		if !ok {
			continue
		}
		valid = append(valid, validDay{date: day, temp: t, humidity: h})
	}

	if len(valid) < minValidDays {
		return domain.WeatherSummary{}, fmt.Errorf("only %d valid days in window, need at least %d", len(valid), minValidDays)
	}
	if len(valid) > useLatestDays {
		valid = valid[len(valid)-useLatestDays:]
	}

	var tempSum, humSum float64
	summary := domain.WeatherSummary{
		Dates:        make([]string, 0, len(valid)),
		Temperatures: make([]float64, 0, len(valid)),
		Humidities:   make([]float64, 0, len(valid)),
		DataDays:     len(valid),
	}
	for _, d := range valid {
		tempSum += d.temp
		humSum += d.humidity
		summary.Dates = append(summary.Dates, formatDay(d.date))
		summary.Temperatures = append(summary.Temperatures, d.temp)
		summary.Humidities = append(summary.Humidities, d.humidity)
	}

	meanTemp := tempSum / float64(len(valid))
	// POWER documents T2M in Celsius but some archive slices come back in
	// Kelvin; a mean above 100 cannot be Celsius air temperature.
	if meanTemp > 100 {
		meanTemp -= 273.15
	}

	summary.MeanTemperatureC = round2(meanTemp)
	summary.MeanHumidityPct = round2(humSum / float64(len(valid)))
	return summary, nil
}

type validDay struct {
	date     string
	temp     float64
	humidity float64
}

func validTemperature(v float64) (float64, bool) {
	if math.IsNaN(v) || v < minPlausibleTemp || v > maxPlausibleTemp {
		return 0, false
	}
	return v, true
}

func validHumidity(v float64) (float64, bool) {
	if math.IsNaN(v) || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatDay converts a POWER YYYYMMDD key to YYYY-MM-DD.
func formatDay(day string) string {
	if len(day) != 8 {
		return day
	}
	return day[:4] + "-" + day[4:6] + "-" + day[6:]
}

// NASA POWER API response types.

type response struct {
	Properties properties `json:"properties"`
}

type properties struct {
	Parameter parameter `json:"parameter"`
}

type parameter struct {
	T2M  map[string]float64 `json:"T2M"`
	RH2M map[string]float64 `json:"RH2M"`
}
