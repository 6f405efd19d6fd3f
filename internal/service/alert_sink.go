package service

import (
	"context"

	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/pkg/logger"
	"go.uber.org/zap"
)

// LogAlertSink writes alerts to the structured log at warn level
type LogAlertSink struct {
	log *logger.Logger
}

// NewLogAlertSink creates a new LogAlertSink
func NewLogAlertSink(log *logger.Logger) *LogAlertSink {
	if log == nil {
		log = logger.Nop()
	}
	return &LogAlertSink{log: log.Named("reversed_zones.alert")}
}

// Send logs the rendered alert
func (s *LogAlertSink) Send(ctx context.Context, alert domain.ReversedZoneAlert) error {
	s.log.WithContext(ctx).Warn(alert.String(),
		zap.Int64("plan_id", alert.Zone.PlanID),
		zap.String("cd_city", alert.Zone.CityCode),
		zap.Time("start_time_local", alert.Zone.StartTimeLocal),
	)
	return nil
}
