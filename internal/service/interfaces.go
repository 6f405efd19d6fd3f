package service

import (
	"context"

	"github.com/prohmpiriya/price-settings/internal/domain"
)

// PriceSettingsService defines the recommendation pipeline
type PriceSettingsService interface {
	// Run loads the venue zone snapshot, derives features, generates and stores recommendations
	Run(ctx context.Context) (*RunResult, error)
	// Preview runs the pipeline on the given rows without storing anything
	Preview(ctx context.Context, zones []domain.VenueZone) (*PreviewResult, error)
}

// PriceChangeService defines the price intervention worker
type PriceChangeService interface {
	// Run validates pending interventions and publishes the accepted ones
	Run(ctx context.Context) (*PriceChangeResult, error)
	// Validate checks a proposed change against the guardrails
	Validate(params domain.PriceUpdateParams) (domain.PriceUpdate, error)
}

// ReversedZoneMonitor defines the reversed zone alerting job
type ReversedZoneMonitor interface {
	// Run alerts on plans whose zone prices are reversed
	Run(ctx context.Context) (*MonitorResult, error)
}

// EventPublisher delivers price change events
type EventPublisher interface {
	Publish(ctx context.Context, evt domain.SessionChannelPriceChangeEvent) error
}

// AlertSink delivers reversed zone alerts to reviewers
type AlertSink interface {
	Send(ctx context.Context, alert domain.ReversedZoneAlert) error
}

// SelectorWarmer preloads treatment assignments for a set of venues
type SelectorWarmer interface {
	Warm(ctx context.Context, venueIDs []int64) error
}
