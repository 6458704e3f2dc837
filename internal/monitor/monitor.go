// Package monitor periodically reassesses configured sites and publishes
// alerts for those crossing the risk threshold.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/turf-risk/internal/config"
	"github.com/couchcryptid/turf-risk/internal/domain"
	"github.com/couchcryptid/turf-risk/internal/observability"
)

// AlertPublisher delivers threshold-crossing assessments downstream.
type AlertPublisher interface {
	PublishBatch(ctx context.Context, assessments []domain.RiskAssessment) error
}

// Monitor drives the periodic assessment loop over the configured sites.
type Monitor struct {
	sites     []domain.Site
	weather   domain.WeatherProvider
	publisher AlertPublisher // nil when alert publishing is disabled
	params    domain.Params
	areaKm    float64
	threshold float64
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Monitor. The clock is injected so tests can drive the loop
// without real waits.
func New(cfg *config.Config, params domain.Params, weather domain.WeatherProvider, publisher AlertPublisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Monitor {
	return &Monitor{
		sites:     cfg.MonitorSites,
		weather:   weather,
		publisher: publisher,
		params:    params,
		areaKm:    cfg.GridAreaKm,
		threshold: cfg.AlertThreshold,
		interval:  cfg.MonitorInterval,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one monitoring cycle has
// produced an assessment. With no sites configured there is nothing to
// wait for.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	if len(m.sites) == 0 {
		return nil
	}
	if !m.ready.Load() {
		return errors.New("monitor has not completed an assessment cycle yet")
	}
	return nil
}

// Run executes assessment cycles until the context is cancelled. The first
// cycle starts immediately; later cycles wait the configured interval, or a
// shorter backoff after a cycle where every site failed.
func (m *Monitor) Run(ctx context.Context) error {
	if len(m.sites) == 0 {
		m.logger.Info("monitor disabled: no sites configured")
		return nil
	}

	m.logger.Info("monitor started", "sites", len(m.sites), "interval", m.interval, "alert_threshold", m.threshold)
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	// Keeps the loop responsive through transient POWER outages without
	// hammering the API.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		wait := m.interval
		if err := m.runCycle(ctx); err != nil {
			if ctx.Err() != nil {
				m.logger.Info("monitor stopping", "reason", ctx.Err())
				return nil
			}
			m.logger.Error("assessment cycle failed", "error", err)
			wait = backoff
			backoff = nextBackoff(backoff, maxBackoff)
		} else {
			backoff = 200 * time.Millisecond
		}

		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping", "reason", ctx.Err())
			return nil
		case <-m.clock.After(wait):
		}
	}
}

// runCycle assesses every site once. It fails only when no site could be
// assessed; partial failures are logged and skipped.
func (m *Monitor) runCycle(ctx context.Context) error {
	start := time.Now()
	date := m.clock.Now().UTC()

	var alerts []domain.RiskAssessment
	var assessed int
	var lastErr error

	for _, site := range m.sites {
		assessment, err := m.assessSite(ctx, site, date)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			m.logger.Warn("site assessment failed", "site", site.Name, "error", err)
			lastErr = err
			continue
		}
		assessed++

		m.logger.Info("site assessed",
			"site", site.Name,
			"mean_probability", assessment.MeanProbability,
			"max_probability", assessment.MaxProbability,
			"risk_band", assessment.RiskBand,
		)

		if assessment.MeanProbability >= m.threshold {
			alerts = append(alerts, assessment)
		}
	}

	if assessed == 0 {
		return fmt.Errorf("all %d sites failed: %w", len(m.sites), lastErr)
	}

	if err := m.publishAlerts(ctx, alerts); err != nil {
		return err
	}

	m.metrics.MonitorCycleDuration.Observe(time.Since(start).Seconds())
	m.ready.Store(true)
	return nil
}

// assessSite fetches weather, generates the probability field, and reduces
// it to an assessment.
func (m *Monitor) assessSite(ctx context.Context, site domain.Site, date time.Time) (domain.RiskAssessment, error) {
	weather, err := m.weather.FiveDayMeans(ctx, site.Lat, site.Lng, date)
	if err != nil {
		return domain.RiskAssessment{}, fmt.Errorf("fetch weather: %w", err)
	}

	genStart := time.Now()
	grid := domain.GenerateField(
		domain.GeoPoint{Lat: site.Lat, Lng: site.Lng},
		m.areaKm,
		weather.MeanTemperatureC,
		weather.MeanHumidityPct,
		m.params,
	)
	m.metrics.FieldGenerations.Inc()
	m.metrics.FieldGenerationDuration.Observe(time.Since(genStart).Seconds())

	return domain.AssessGrid(site, date, weather, grid), nil
}

func (m *Monitor) publishAlerts(ctx context.Context, alerts []domain.RiskAssessment) error {
	if len(alerts) == 0 || m.publisher == nil {
		return nil
	}
	if err := m.publisher.PublishBatch(ctx, alerts); err != nil {
		return fmt.Errorf("publish %d alerts: %w", len(alerts), err)
	}
	m.metrics.AlertsPublished.Add(float64(len(alerts)))
	m.logger.Info("alerts published", "count", len(alerts))
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}
