package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/turf-risk/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NASA POWER weather provider.
	NASAPowerTimeout time.Duration
	WeatherCacheSize int

	// Field generation and contouring defaults.
	GridAreaKm      float64
	ContourInterval float64
	ModelVariant    domain.ModelVariant

	// Site monitor.
	MonitorSites    []domain.Site
	MonitorInterval time.Duration
	AlertThreshold  float64

	// Kafka alert publishing.
	KafkaBrokers    []string
	KafkaEnabled    bool
	KafkaAlertTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	powerTimeout, err := parseDuration("NASA_POWER_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	monitorInterval, err := parseDuration("MONITOR_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}

	areaKm, err := parseFloat("GRID_AREA_KM", 2)
	if err != nil {
		return nil, err
	}

	interval, err := parseFloat("CONTOUR_INTERVAL", 10)
	if err != nil {
		return nil, err
	}

	threshold, err := parseFloat("ALERT_THRESHOLD", 60)
	if err != nil {
		return nil, err
	}

	sites, err := parseSites(os.Getenv("MONITOR_SITES"))
	if err != nil {
		return nil, err
	}

	variant := domain.ModelVariant(envOrDefault("MODEL_VARIANT", string(domain.ModelFieldCalibrated)))
	if _, err := domain.ParamsFor(variant); err != nil {
		return nil, fmt.Errorf("invalid MODEL_VARIANT: %w", err)
	}

	brokers := splitNonEmpty(os.Getenv("KAFKA_BROKERS"), ",")
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NASAPowerTimeout: powerTimeout,
		WeatherCacheSize: parseCacheSize(),

		GridAreaKm:      areaKm,
		ContourInterval: interval,
		ModelVariant:    variant,

		MonitorSites:    sites,
		MonitorInterval: monitorInterval,
		AlertThreshold:  threshold,

		KafkaBrokers:    brokers,
		KafkaEnabled:    kafkaEnabled,
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "turf-risk-alerts"),
	}

	if cfg.GridAreaKm <= 0 {
		return nil, errors.New("GRID_AREA_KM must be positive")
	}
	if cfg.ContourInterval <= 0 || cfg.ContourInterval > 100 {
		return nil, errors.New("CONTOUR_INTERVAL must be in (0, 100]")
	}
	if cfg.AlertThreshold < 0 || cfg.AlertThreshold > 100 {
		return nil, errors.New("ALERT_THRESHOLD must be in [0, 100]")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parseCacheSize() int {
	if s := os.Getenv("WEATHER_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

// parseSites parses the MONITOR_SITES format "name:lat,lng;name:lat,lng".
// An empty value means the monitor is disabled.
func parseSites(s string) ([]domain.Site, error) {
	var sites []domain.Site
	for _, part := range splitNonEmpty(s, ";") {
		name, coords, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid MONITOR_SITES entry %q: expected name:lat,lng", part)
		}
		latStr, lngStr, ok := strings.Cut(coords, ",")
		if !ok {
			return nil, fmt.Errorf("invalid MONITOR_SITES entry %q: expected name:lat,lng", part)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MONITOR_SITES latitude in %q", part)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MONITOR_SITES longitude in %q", part)
		}
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return nil, fmt.Errorf("MONITOR_SITES coordinates out of range in %q", part)
		}
		sites = append(sites, domain.Site{
			Name: strings.TrimSpace(name),
			Lat:  lat,
			Lng:  lng,
		})
	}
	return sites, nil
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
