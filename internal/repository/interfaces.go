package repository

import (
	"context"
	"time"

	"github.com/prohmpiriya/price-settings/internal/domain"
)

// VenueZoneRepository reads the venue zone snapshot from the warehouse
type VenueZoneRepository interface {
	// ListVenueZones returns every zone row, ordered by venue and zone price order
	ListVenueZones(ctx context.Context) ([]domain.VenueZone, error)
}

// RecommendationRepository persists price recommendations
type RecommendationRepository interface {
	// BulkInsert writes all recommendations in a single statement
	BulkInsert(ctx context.Context, recs domain.VenuePriceRecommendations) (int64, error)
}

// InterventionStatus is the processing outcome recorded for an intervention
type InterventionStatus string

const (
	InterventionPublished InterventionStatus = "PUBLISHED"
	InterventionRejected  InterventionStatus = "REJECTED"
	InterventionFailed    InterventionStatus = "FAILED"
)

// InterventionRepository reads and settles session price interventions
type InterventionRepository interface {
	// ListPending returns up to limit interventions not processed yet
	ListPending(ctx context.Context, limit int) ([]domain.SessionPriceIntervention, error)
	// MarkProcessed records the outcome for the given plan sessions
	MarkProcessed(ctx context.Context, status InterventionStatus, keys []PlanSession) error
}

// PlanSession identifies one intervention row
type PlanSession struct {
	PlanID    int64
	SessionID int64
}

// ReversedZoneRepository tracks plans with reversed zone prices
type ReversedZoneRepository interface {
	// EnsureSchema creates the alerting table when missing
	EnsureSchema(ctx context.Context) error
	// Refresh merges the latest zone prices into the alerting table
	Refresh(ctx context.Context) error
	// ListCandidates returns upcoming plans with their zone prices and last warning
	ListCandidates(ctx context.Context) ([]domain.ReversedZone, error)
	// MarkWarned stamps the last warning time of the given plans
	MarkWarned(ctx context.Context, zones []domain.ReversedZone, at time.Time) error
}
