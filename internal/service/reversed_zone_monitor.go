package service

import (
	"context"
	"fmt"
	"time"

	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/internal/metrics"
	"github.com/prohmpiriya/price-settings/internal/repository"
	"github.com/prohmpiriya/price-settings/pkg/logger"
	"github.com/prohmpiriya/price-settings/pkg/telemetry"
	"go.uber.org/zap"
)

// DefaultRewarnInterval is how long an alerted plan stays quiet
const DefaultRewarnInterval = 7 * 24 * time.Hour

// MonitorResult summarises one monitor pass
type MonitorResult struct {
	Candidates int `json:"candidates"`
	Reversed   int `json:"reversed"`
	Alerted    int `json:"alerted"`
	Throttled  int `json:"throttled"`
	Failed     int `json:"failed"`
}

type reversedZoneMonitor struct {
	repo     repository.ReversedZoneRepository
	sink     AlertSink
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time
}

// NewReversedZoneMonitor creates a new ReversedZoneMonitor
func NewReversedZoneMonitor(
	repo repository.ReversedZoneRepository,
	sink AlertSink,
	rewarnInterval time.Duration,
	log *logger.Logger,
) ReversedZoneMonitor {
	if log == nil {
		log = logger.Nop()
	}
	if rewarnInterval <= 0 {
		rewarnInterval = DefaultRewarnInterval
	}
	return &reversedZoneMonitor{
		repo:     repo,
		sink:     sink,
		interval: rewarnInterval,
		log:      log.Named("reversed_zones"),
		now:      time.Now,
	}
}

// Run refreshes the candidates and alerts on reversed plans. Only plans whose
// alert was delivered get their last warning stamped.
func (m *reversedZoneMonitor) Run(ctx context.Context) (*MonitorResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "reversed_zones.run")
	defer span.End()

	log := m.log.WithContext(ctx)

	if err := m.repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := m.repo.Refresh(ctx); err != nil {
		return nil, err
	}

	candidates, err := m.repo.ListCandidates(ctx)
	if err != nil {
		telemetry.SetSpanError(ctx, err)
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	now := m.now()
	result := &MonitorResult{Candidates: len(candidates)}
	var alerted []domain.ReversedZone

	for _, zone := range candidates {
		if !zone.IsReversed() {
			continue
		}
		result.Reversed++

		if !zone.ShouldWarn(now, m.interval) {
			result.Throttled++
			continue
		}

		alert := domain.ReversedZoneAlert{Zone: zone, CreatedAt: now}
		if err := m.sink.Send(ctx, alert); err != nil {
			result.Failed++
			log.Error("failed to send reversed zone alert", zap.Int64("plan_id", zone.PlanID), zap.Error(err))
			continue
		}
		alerted = append(alerted, zone)
	}
	result.Alerted = len(alerted)

	if err := m.repo.MarkWarned(ctx, alerted, now); err != nil {
		telemetry.SetSpanError(ctx, err)
		return result, err
	}

	metrics.RecordReversedZones(ctx, result.Reversed, result.Alerted)
	log.Info("reversed zones checked",
		zap.Int("candidates", result.Candidates),
		zap.Int("reversed", result.Reversed),
		zap.Int("alerted", result.Alerted),
		zap.Int("throttled", result.Throttled),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
