package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/internal/metrics"
	"github.com/prohmpiriya/price-settings/internal/pricing"
	"github.com/prohmpiriya/price-settings/internal/repository"
	"github.com/prohmpiriya/price-settings/pkg/logger"
	"github.com/prohmpiriya/price-settings/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RunResult summarises one price settings run
type RunResult struct {
	RunID           string        `json:"run_id"`
	Version         string        `json:"version"`
	Zones           int           `json:"zones"`
	Venues          int           `json:"venues"`
	Recommendations int           `json:"recommendations"`
	Treatment       int           `json:"treatment"`
	Inserted        int64         `json:"inserted"`
	Duration        time.Duration `json:"duration"`
}

// PreviewResult is the output of a dry run
type PreviewResult struct {
	Recommendations domain.VenuePriceRecommendations `json:"recommendations"`
	InsertStatement string                           `json:"insert_statement"`
}

type priceSettingsService struct {
	zoneRepo repository.VenueZoneRepository
	recRepo  repository.RecommendationRepository
	deriver  *pricing.FeatureDeriver
	model    *pricing.Model
	warmer   SelectorWarmer
	log      *logger.Logger
}

// NewPriceSettingsService creates a new PriceSettingsService. warmer may be nil.
func NewPriceSettingsService(
	zoneRepo repository.VenueZoneRepository,
	recRepo repository.RecommendationRepository,
	deriver *pricing.FeatureDeriver,
	model *pricing.Model,
	warmer SelectorWarmer,
	log *logger.Logger,
) PriceSettingsService {
	if log == nil {
		log = logger.Nop()
	}
	return &priceSettingsService{
		zoneRepo: zoneRepo,
		recRepo:  recRepo,
		deriver:  deriver,
		model:    model,
		warmer:   warmer,
		log:      log.Named("price_settings"),
	}
}

// Run executes the full pipeline and stores the recommendations
func (s *priceSettingsService) Run(ctx context.Context) (*RunResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "price_settings.run")
	defer span.End()

	start := time.Now()
	result := &RunResult{RunID: uuid.New().String(), Version: s.model.Version()}
	log := s.log.WithContext(ctx).With(zap.String("run_id", result.RunID), zap.String("version", result.Version))

	zones, err := s.zoneRepo.ListVenueZones(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("load venue zones: %w", err)
	}
	result.Zones = len(zones)
	log.Info("venue zones loaded", zap.Int("zones", len(zones)))

	recs, err := s.recommend(ctx, zones)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	result.Venues = countVenues(zones)
	result.Recommendations = len(recs.Recommendations)
	result.Treatment = recs.TreatmentCount()
	log.Info("recommendations generated",
		zap.Int("venues", result.Venues),
		zap.Int("recommendations", result.Recommendations),
		zap.Int("treatment", result.Treatment),
	)

	if result.Recommendations == 0 {
		log.Warn("no recommendations to store")
		result.Duration = time.Since(start)
		return result, nil
	}

	result.Inserted, err = s.recRepo.BulkInsert(ctx, recs)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("store recommendations: %w", err)
	}

	result.Duration = time.Since(start)
	metrics.RecordRun(ctx, result.Version, result.Zones, result.Recommendations, result.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("zones", result.Zones),
		attribute.Int("recommendations", result.Recommendations),
	)
	log.Info("price settings run completed",
		zap.Int64("inserted", result.Inserted),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// Preview runs the pipeline on caller-provided rows
func (s *priceSettingsService) Preview(ctx context.Context, zones []domain.VenueZone) (*PreviewResult, error) {
	recs, err := s.recommend(ctx, zones)
	if err != nil {
		return nil, err
	}
	stmt, err := recs.InsertQuery()
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Recommendations: recs, InsertStatement: stmt}, nil
}

func (s *priceSettingsService) recommend(ctx context.Context, zones []domain.VenueZone) (domain.VenuePriceRecommendations, error) {
	features, err := s.deriver.Compute(ctx, zones)
	if err != nil {
		return domain.VenuePriceRecommendations{}, fmt.Errorf("derive features: %w", err)
	}

	if s.warmer != nil && features.Len() > 0 {
		if err := s.warmer.Warm(ctx, venueIDs(zones)); err != nil {
			return domain.VenuePriceRecommendations{}, fmt.Errorf("load treatment assignments: %w", err)
		}
	}

	recs, err := s.model.GeneratePriceRecommendations(ctx, features)
	if err != nil {
		return domain.VenuePriceRecommendations{}, fmt.Errorf("generate recommendations: %w", err)
	}
	return recs, nil
}

// venueIDs returns distinct venue ids in first-appearance order
func venueIDs(zones []domain.VenueZone) []int64 {
	seen := make(map[int64]struct{}, len(zones))
	ids := make([]int64, 0)
	for _, z := range zones {
		if _, ok := seen[z.IDVenue]; ok {
			continue
		}
		seen[z.IDVenue] = struct{}{}
		ids = append(ids, z.IDVenue)
	}
	return ids
}

func countVenues(zones []domain.VenueZone) int {
	return len(venueIDs(zones))
}
