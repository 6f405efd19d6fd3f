package metrics

import (
	"context"
	"sync"

	"github.com/prohmpiriya/price-settings/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Price settings run
	ZonesLoaded             *telemetry.Counter
	RecommendationsProduced *telemetry.Counter
	RunDuration             *telemetry.Histogram

	// Price change worker
	PriceChangesPublished *telemetry.Counter
	PriceChangesRejected  *telemetry.Counter
	PriceChangesFailed    *telemetry.Counter

	// Reversed zones monitor
	ReversedZonesDetected *telemetry.Counter
	ReversedZoneAlerts    *telemetry.Counter

	initOnce sync.Once
	initErr  error
)

// Init initializes all pricing metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	ZonesLoaded, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "price_settings_zones_loaded_total",
		Description: "Venue zone rows loaded from the warehouse",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RecommendationsProduced, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "price_settings_recommendations_total",
		Description: "Zone price recommendations produced",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	RunDuration, err = telemetry.NewHistogram(telemetry.MetricOpts{
		Name:        "price_settings_run_duration_seconds",
		Description: "Duration of a full price settings run",
		Unit:        "s",
	})
	if err != nil {
		return err
	}

	PriceChangesPublished, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "price_change_published_total",
		Description: "Session price change events published",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	PriceChangesRejected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "price_change_rejected_total",
		Description: "Price interventions rejected by a guardrail",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	PriceChangesFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "price_change_failed_total",
		Description: "Price change events that could not be delivered",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ReversedZonesDetected, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reversed_zones_detected_total",
		Description: "Plans whose zone prices are reversed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	ReversedZoneAlerts, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reversed_zones_alerts_total",
		Description: "Reversed zone alerts sent",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordRun records a completed price settings run
func RecordRun(ctx context.Context, version string, zones, recommendations int, durationSeconds float64) {
	attrs := attribute.String("version", version)
	if ZonesLoaded != nil {
		ZonesLoaded.Add(ctx, int64(zones), attrs)
	}
	if RecommendationsProduced != nil {
		RecommendationsProduced.Add(ctx, int64(recommendations), attrs)
	}
	if RunDuration != nil {
		RunDuration.Record(ctx, durationSeconds, attrs)
	}
}

// RecordPriceChangePublished records a delivered price change event
func RecordPriceChangePublished(ctx context.Context, label string) {
	if PriceChangesPublished != nil {
		PriceChangesPublished.Inc(ctx, attribute.String("intervention_label", label))
	}
}

// RecordPriceChangeRejected records a guardrail rejection
func RecordPriceChangeRejected(ctx context.Context, label, rule string) {
	if PriceChangesRejected != nil {
		PriceChangesRejected.Inc(ctx,
			attribute.String("intervention_label", label),
			attribute.String("rule", rule),
		)
	}
}

// RecordPriceChangeFailed records an undeliverable price change event
func RecordPriceChangeFailed(ctx context.Context, label string) {
	if PriceChangesFailed != nil {
		PriceChangesFailed.Inc(ctx, attribute.String("intervention_label", label))
	}
}

// RecordReversedZones records a monitor pass
func RecordReversedZones(ctx context.Context, detected, alerted int) {
	if ReversedZonesDetected != nil {
		ReversedZonesDetected.Add(ctx, int64(detected))
	}
	if ReversedZoneAlerts != nil {
		ReversedZoneAlerts.Add(ctx, int64(alerted))
	}
}
