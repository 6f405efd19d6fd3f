package di

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/price-settings/pkg/config"
	"github.com/prohmpiriya/price-settings/pkg/database"
	"github.com/prohmpiriya/price-settings/pkg/kafka"
	"github.com/prohmpiriya/price-settings/pkg/logger"
	"github.com/prohmpiriya/price-settings/pkg/redis"
	"go.uber.org/zap"
)

// InfraOptions selects the connections a binary needs
type InfraOptions struct {
	ServiceName string
	// Redis is optional: without it every venue is treated as control
	Redis bool
	Kafka bool
}

// Infrastructure holds the external connections of a binary
type Infrastructure struct {
	DB       *database.PostgresDB
	Redis    *redis.Client
	Producer *kafka.Producer
}

// Connect opens the warehouse and, when requested, Redis and Kafka
func Connect(ctx context.Context, cfg *config.Config, opts InfraOptions, log *logger.Logger) (*Infrastructure, error) {
	infra := &Infrastructure{}

	dbCfg := &database.PostgresConfig{
		Host:             cfg.Warehouse.Host,
		Port:             cfg.Warehouse.Port,
		User:             cfg.Warehouse.User,
		Password:         cfg.Warehouse.Password,
		Database:         cfg.Warehouse.DBName,
		SSLMode:          cfg.Warehouse.SSLMode,
		MaxConns:         cfg.Warehouse.MaxConns,
		MinConns:         cfg.Warehouse.MinConns,
		MaxConnLifetime:  cfg.Warehouse.ConnMaxLifetime,
		MaxConnIdleTime:  cfg.Warehouse.ConnMaxIdleTime,
		ConnectTimeout:   database.DefaultPostgresConfig().ConnectTimeout,
		StatementTimeout: cfg.Warehouse.StatementTimeout,
		MaxRetries:       3,
		RetryInterval:    database.DefaultPostgresConfig().RetryInterval,
		EnableTracing:    cfg.OTel.Enabled,
		ServiceName:      opts.ServiceName,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("warehouse connection failed: %w", err)
	}
	infra.DB = db
	log.Info("Warehouse connected",
		zap.String("host", dbCfg.Host),
		zap.Int32("min_conns", dbCfg.MinConns),
		zap.Int32("max_conns", dbCfg.MaxConns),
	)

	if opts.Redis {
		redisCfg := &redis.Config{
			Host:          cfg.Redis.Host,
			Port:          cfg.Redis.Port,
			Password:      cfg.Redis.Password,
			DB:            cfg.Redis.DB,
			PoolSize:      cfg.Redis.PoolSize,
			MinIdleConns:  cfg.Redis.MinIdleConns,
			DialTimeout:   cfg.Redis.DialTimeout,
			ReadTimeout:   cfg.Redis.ReadTimeout,
			WriteTimeout:  cfg.Redis.WriteTimeout,
			MaxRetries:    3,
			RetryInterval: redis.DefaultConfig().RetryInterval,
			EnableTracing: cfg.OTel.Enabled,
			ServiceName:   opts.ServiceName,
		}
		client, err := redis.NewClient(ctx, redisCfg)
		if err != nil {
			log.Warn("Redis connection failed, all venues fall back to control", zap.Error(err))
		} else {
			infra.Redis = client
			log.Info("Redis connected", zap.String("addr", redisCfg.Addr()))
		}
	}

	if opts.Kafka {
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("kafka connection failed: %w", err)
		}
		infra.Producer = producer
		log.Info("Kafka producer connected", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	return infra, nil
}

// Close releases every open connection
func (i *Infrastructure) Close() {
	if i.Producer != nil {
		i.Producer.Close()
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.DB != nil {
		i.DB.Close()
	}
}
