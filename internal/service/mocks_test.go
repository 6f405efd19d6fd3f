package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/internal/repository"
)

// MockVenueZoneRepository is a mock implementation of VenueZoneRepository
type MockVenueZoneRepository struct {
	zones []domain.VenueZone
	err   error
}

func (m *MockVenueZoneRepository) ListVenueZones(ctx context.Context) ([]domain.VenueZone, error) {
	return m.zones, m.err
}

// MockRecommendationRepository is a mock implementation of RecommendationRepository
type MockRecommendationRepository struct {
	stored []domain.VenuePriceRecommendations
	err    error
}

func (m *MockRecommendationRepository) BulkInsert(ctx context.Context, recs domain.VenuePriceRecommendations) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	if _, err := recs.InsertQuery(); err != nil {
		return 0, err
	}
	m.stored = append(m.stored, recs)
	return int64(len(recs.Recommendations)), nil
}

// MockInterventionRepository is a mock implementation of InterventionRepository
type MockInterventionRepository struct {
	pending   []domain.SessionPriceIntervention
	listErr   error
	markErr   error
	processed map[repository.InterventionStatus][]repository.PlanSession
}

func NewMockInterventionRepository(pending ...domain.SessionPriceIntervention) *MockInterventionRepository {
	return &MockInterventionRepository{
		pending:   pending,
		processed: make(map[repository.InterventionStatus][]repository.PlanSession),
	}
}

func (m *MockInterventionRepository) ListPending(ctx context.Context, limit int) ([]domain.SessionPriceIntervention, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if limit < len(m.pending) {
		return m.pending[:limit], nil
	}
	return m.pending, nil
}

func (m *MockInterventionRepository) MarkProcessed(ctx context.Context, status repository.InterventionStatus, keys []repository.PlanSession) error {
	if m.markErr != nil {
		return m.markErr
	}
	if len(keys) > 0 {
		m.processed[status] = append(m.processed[status], keys...)
	}
	return nil
}

// MockEventPublisher records published events and fails for selected sessions
type MockEventPublisher struct {
	events    []domain.SessionChannelPriceChangeEvent
	failFor   map[int64]bool
	onPublish func()
}

func (m *MockEventPublisher) Publish(ctx context.Context, evt domain.SessionChannelPriceChangeEvent) error {
	if m.onPublish != nil {
		m.onPublish()
	}
	if m.failFor[evt.SessionID] {
		return fmt.Errorf("publish session %d: %w", evt.SessionID, errors.New("broker unavailable"))
	}
	m.events = append(m.events, evt)
	return nil
}

// MockReversedZoneRepository is a mock implementation of ReversedZoneRepository
type MockReversedZoneRepository struct {
	candidates []domain.ReversedZone
	refreshErr error
	listErr    error
	warned     []int64
	warnedAt   time.Time
	calls      []string
}

func (m *MockReversedZoneRepository) EnsureSchema(ctx context.Context) error {
	m.calls = append(m.calls, "ensure")
	return nil
}

func (m *MockReversedZoneRepository) Refresh(ctx context.Context) error {
	m.calls = append(m.calls, "refresh")
	return m.refreshErr
}

func (m *MockReversedZoneRepository) ListCandidates(ctx context.Context) ([]domain.ReversedZone, error) {
	m.calls = append(m.calls, "list")
	return m.candidates, m.listErr
}

func (m *MockReversedZoneRepository) MarkWarned(ctx context.Context, zones []domain.ReversedZone, at time.Time) error {
	m.calls = append(m.calls, "mark")
	for _, z := range zones {
		m.warned = append(m.warned, z.PlanID)
	}
	m.warnedAt = at
	return nil
}

// MockAlertSink records alerts and fails for selected plans
type MockAlertSink struct {
	mu      sync.Mutex
	alerts  []domain.ReversedZoneAlert
	failFor map[int64]bool
}

func (m *MockAlertSink) Send(ctx context.Context, alert domain.ReversedZoneAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[alert.Zone.PlanID] {
		return errors.New("webhook returned 500")
	}
	m.alerts = append(m.alerts, alert)
	return nil
}

// MockSelectorWarmer records warmed venues
type MockSelectorWarmer struct {
	warmed []int64
	err    error
}

func (m *MockSelectorWarmer) Warm(ctx context.Context, venueIDs []int64) error {
	m.warmed = append(m.warmed, venueIDs...)
	return m.err
}
