package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/internal/metrics"
	"github.com/prohmpiriya/price-settings/internal/repository"
	"github.com/prohmpiriya/price-settings/pkg/logger"
	"github.com/prohmpiriya/price-settings/pkg/telemetry"
	"go.uber.org/zap"
)

// PriceChangeResult summarises one worker pass
type PriceChangeResult struct {
	Pending   int `json:"pending"`
	Published int `json:"published"`
	Rejected  int `json:"rejected"`
	Failed    int `json:"failed"`
}

// PriceChangeConfig configures the price change worker
type PriceChangeConfig struct {
	RequesterID int64
	BatchSize   int
}

type priceChangeService struct {
	repo      repository.InterventionRepository
	publisher EventPublisher
	cfg       PriceChangeConfig
	log       *logger.Logger
	now       func() time.Time
}

// NewPriceChangeService creates a new PriceChangeService
func NewPriceChangeService(
	repo repository.InterventionRepository,
	publisher EventPublisher,
	cfg PriceChangeConfig,
	log *logger.Logger,
) PriceChangeService {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	return &priceChangeService{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		log:       log.Named("price_change"),
		now:       time.Now,
	}
}

// Validate runs the guardrails on a proposed change
func (s *priceChangeService) Validate(params domain.PriceUpdateParams) (domain.PriceUpdate, error) {
	return domain.NewPriceUpdate(params)
}

// Run processes one batch of pending interventions. Guardrail rejections are
// final: they are recorded and never retried.
func (s *priceChangeService) Run(ctx context.Context) (*PriceChangeResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "price_change.run")
	defer span.End()

	if s.publisher == nil {
		return nil, ErrPublisherNotConfigured
	}

	log := s.log.WithContext(ctx)

	pending, err := s.repo.ListPending(ctx, s.cfg.BatchSize)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("load pending interventions: %w", err)
	}

	result := &PriceChangeResult{Pending: len(pending)}
	outcomes := map[repository.InterventionStatus][]repository.PlanSession{}

	for _, intervention := range pending {
		if err := ctx.Err(); err != nil {
			if settleErr := s.settle(ctx, outcomes); settleErr != nil {
				log.Error("failed to record outcomes", zap.Error(settleErr))
			}
			return result, err
		}

		status := s.process(ctx, log, intervention)
		key := repository.PlanSession{PlanID: intervention.PlanID, SessionID: intervention.SessionID}
		outcomes[status] = append(outcomes[status], key)

		switch status {
		case repository.InterventionPublished:
			result.Published++
		case repository.InterventionRejected:
			result.Rejected++
		case repository.InterventionFailed:
			result.Failed++
		}
	}

	if err := s.settle(ctx, outcomes); err != nil {
		telemetry.SetSpanError(ctx, err)
		return result, err
	}

	log.Info("price change batch processed",
		zap.Int("pending", result.Pending),
		zap.Int("published", result.Published),
		zap.Int("rejected", result.Rejected),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *priceChangeService) process(ctx context.Context, log *logger.Logger, intervention domain.SessionPriceIntervention) repository.InterventionStatus {
	update, err := intervention.ToPriceUpdate()
	if err != nil {
		var gErr *domain.GuardrailError
		rule := "unknown"
		if errors.As(err, &gErr) {
			rule = gErr.RuleName()
		}
		log.Warn("price change rejected by guardrail",
			zap.String("rule", rule),
			zap.Int64("plan_id", intervention.PlanID),
			zap.Int64("session_id", intervention.SessionID),
			zap.String("intervention_label", intervention.InterventionLabel),
			zap.Float64("current_price", intervention.CurrentPrice),
			zap.Float64("new_price", intervention.NewPrice),
			zap.String("currency", intervention.Currency),
			zap.Int64("currency_smallest_unit", intervention.CurrencySmallestUnit),
			zap.Error(err),
		)
		metrics.RecordPriceChangeRejected(ctx, intervention.InterventionLabel, rule)
		return repository.InterventionRejected
	}

	evt := domain.NewSessionChannelPriceChangeEvent(update, s.cfg.RequesterID, s.now())
	if err := s.publisher.Publish(ctx, evt); err != nil {
		log.Error("failed to publish price change",
			zap.String("event_id", evt.ID),
			zap.Int64("plan_id", evt.PlanID),
			zap.Int64("session_id", evt.SessionID),
			zap.Error(err),
		)
		metrics.RecordPriceChangeFailed(ctx, intervention.InterventionLabel)
		return repository.InterventionFailed
	}

	log.Debug("price change published",
		zap.String("event_id", evt.ID),
		zap.Int64("session_id", evt.SessionID),
		zap.Float64("new_price", update.NewPrice()),
	)
	metrics.RecordPriceChangePublished(ctx, intervention.InterventionLabel)
	return repository.InterventionPublished
}

func (s *priceChangeService) settle(ctx context.Context, outcomes map[repository.InterventionStatus][]repository.PlanSession) error {
	// a canceled run still records what it already did
	ctx = context.WithoutCancel(ctx)
	for _, status := range []repository.InterventionStatus{
		repository.InterventionPublished,
		repository.InterventionRejected,
		repository.InterventionFailed,
	} {
		if err := s.repo.MarkProcessed(ctx, status, outcomes[status]); err != nil {
			return err
		}
	}
	return nil
}
