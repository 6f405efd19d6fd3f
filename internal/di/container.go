package di

import (
	"time"

	"github.com/prohmpiriya/price-settings/internal/handler"
	"github.com/prohmpiriya/price-settings/internal/metrics"
	"github.com/prohmpiriya/price-settings/internal/pricing"
	"github.com/prohmpiriya/price-settings/internal/publisher"
	"github.com/prohmpiriya/price-settings/internal/repository"
	"github.com/prohmpiriya/price-settings/internal/service"
	"github.com/prohmpiriya/price-settings/pkg/config"
	"github.com/prohmpiriya/price-settings/pkg/logger"
	"github.com/prohmpiriya/price-settings/pkg/retry"
	"go.uber.org/zap"
)

// Container holds all dependencies of the price settings binaries
type Container struct {
	Config *config.Config
	Infra  *Infrastructure

	// Repositories
	VenueZoneRepo      repository.VenueZoneRepository
	RecommendationRepo repository.RecommendationRepository
	InterventionRepo   repository.InterventionRepository
	ReversedZoneRepo   repository.ReversedZoneRepository

	// Pricing
	Selector pricing.Selector
	Deriver  *pricing.FeatureDeriver
	Model    *pricing.Model

	// Services
	PriceSettingsService service.PriceSettingsService
	PriceChangeService   service.PriceChangeService
	ReversedZoneMonitor  service.ReversedZoneMonitor

	// Handlers
	HealthHandler         *handler.HealthHandler
	PriceUpdateHandler    *handler.PriceUpdateHandler
	RecommendationHandler *handler.RecommendationHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config      *config.Config
	Infra       *Infrastructure
	Logger      *logger.Logger
	ServiceName string
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	appCfg := cfg.Config

	c := &Container{
		Config: appCfg,
		Infra:  cfg.Infra,
	}

	// Initialize repositories
	pool := c.Infra.DB.Pool()
	c.VenueZoneRepo = repository.NewPostgresVenueZoneRepository(pool, appCfg.Pricing.NaNSentinel)
	c.RecommendationRepo = repository.NewPostgresRecommendationRepository(pool)
	c.InterventionRepo = repository.NewPostgresInterventionRepository(pool)
	c.ReversedZoneRepo = repository.NewPostgresReversedZoneRepository(pool)

	// Treatment assignment comes from Redis when available
	var warmer service.SelectorWarmer
	if c.Infra.Redis != nil {
		redisSelector := repository.NewRedisABSelector(c.Infra.Redis, appCfg.ABTest.TreatmentKey())
		c.Selector = redisSelector
		warmer = redisSelector
	} else {
		log.Warn("No treatment assignment source, every venue is control")
		c.Selector = pricing.NewStaticSelector()
	}

	c.Deriver = pricing.NewFeatureDeriver(Thresholds(appCfg.Pricing), appCfg.Pricing.Workers)
	c.Model = pricing.NewModel(appCfg.Pricing.Version, c.Selector)

	// Initialize services
	c.PriceSettingsService = service.NewPriceSettingsService(
		c.VenueZoneRepo, c.RecommendationRepo, c.Deriver, c.Model, warmer, log)

	var events service.EventPublisher
	if c.Infra.Producer != nil {
		events = publisher.NewPriceChangePublisher(c.Infra.Producer, publisher.Config{
			Topic:     appCfg.Kafka.PriceChangeTopic,
			DLQSuffix: appCfg.Kafka.DLQTopicSuffix,
			Source:    cfg.ServiceName,
			RetryConfig: &retry.Config{
				MaxRetries:      appCfg.PriceChange.MaxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     10 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.1,
			},
			OnDLQ: func(msg *retry.DLQMessage) {
				log.Error("Price change moved to DLQ",
					zap.String("event_id", msg.ID),
					zap.String("session_id", msg.OriginalKey),
					zap.Int("attempts", msg.Attempts),
					zap.String("error", msg.Error),
				)
			},
		})
	}
	c.PriceChangeService = service.NewPriceChangeService(c.InterventionRepo, events, service.PriceChangeConfig{
		RequesterID: appCfg.PriceChange.RequesterID,
		BatchSize:   appCfg.PriceChange.BatchSize,
	}, log)

	c.ReversedZoneMonitor = service.NewReversedZoneMonitor(
		c.ReversedZoneRepo, service.NewLogAlertSink(log), appCfg.Monitor.RewarnInterval, log)

	// Initialize handlers
	components := map[string]handler.HealthChecker{"database": c.Infra.DB}
	if c.Infra.Redis != nil {
		components["redis"] = c.Infra.Redis
	} else {
		components["redis"] = nil
	}
	c.HealthHandler = handler.NewHealthHandler(components)
	c.PriceUpdateHandler = handler.NewPriceUpdateHandler(c.PriceChangeService)
	c.RecommendationHandler = handler.NewRecommendationHandler(c.PriceSettingsService, appCfg.Pricing.Version)

	if err := metrics.Init(); err != nil {
		log.Warn("Failed to initialize metrics", zap.Error(err))
	}

	return c
}

// Thresholds maps the pricing configuration onto model thresholds
func Thresholds(p config.PricingConfig) pricing.Thresholds {
	return pricing.Thresholds{
		HighOccupancies:     p.HighOccupancies,
		LowOccupancies:      p.LowOccupancies,
		HighATPIncrease:     p.HighATPIncrease,
		HighSoldOutDaysDiff: p.HighSoldOutDaysDiff,
		MedSoldOutDaysDiff:  p.MedSoldOutDaysDiff,
		LowSoldOutDaysDiff:  p.LowSoldOutDaysDiff,
		LargeATPDifference:  p.LargeATPDifference,
		SmallATPDifference:  p.SmallATPDifference,
	}
}
