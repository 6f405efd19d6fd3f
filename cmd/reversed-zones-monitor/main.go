package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prohmpiriya/price-settings/internal/di"
	"github.com/prohmpiriya/price-settings/pkg/config"
	"github.com/prohmpiriya/price-settings/pkg/logger"
	"github.com/prohmpiriya/price-settings/pkg/telemetry"
	"go.uber.org/zap"
)

const serviceName = "reversed-zones-monitor"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
		return 1
	}
	defer logger.Sync()
	appLog := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetry.Shutdown(context.Background())

	if err := cfg.ValidateWarehouse(); err != nil {
		appLog.Error("Invalid warehouse configuration", zap.Error(err))
		return 1
	}

	infra, err := di.Connect(ctx, cfg, di.InfraOptions{ServiceName: serviceName}, appLog)
	if err != nil {
		appLog.Error("Failed to connect", zap.Error(err))
		return 1
	}
	defer infra.Close()

	container := di.NewContainer(&di.ContainerConfig{
		Config:      cfg,
		Infra:       infra,
		Logger:      appLog,
		ServiceName: serviceName,
	})

	result, err := container.ReversedZoneMonitor.Run(ctx)
	if err != nil {
		appLog.Error("Reversed zones monitor failed", zap.Error(err))
		return 1
	}

	appLog.Info("Reversed zones monitor finished",
		zap.Int("reversed", result.Reversed),
		zap.Int("alerted", result.Alerted),
	)
	return 0
}
