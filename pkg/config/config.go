package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Warehouse   DatabaseConfig    `mapstructure:"warehouse"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	OTel        OTelConfig        `mapstructure:"otel"`
	Pricing     PricingConfig     `mapstructure:"pricing"`
	ABTest      ABTestConfig      `mapstructure:"abtest"`
	Monitor     MonitorConfig     `mapstructure:"monitor"`
	PriceChange PriceChangeConfig `mapstructure:"price_change"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"` // development, staging, production
	Debug       bool   `mapstructure:"debug"`
	Version     string `mapstructure:"version"`
	LogLevel    string `mapstructure:"log_level"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds PostgreSQL warehouse connection settings
type DatabaseConfig struct {
	Host             string        `mapstructure:"host"`
	Port             int           `mapstructure:"port"`
	User             string        `mapstructure:"user"`
	Password         string        `mapstructure:"password"`
	DBName           string        `mapstructure:"dbname"`
	SSLMode          string        `mapstructure:"sslmode"`
	MaxConns         int32         `mapstructure:"max_conns"`
	MinConns         int32         `mapstructure:"min_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime  time.Duration `mapstructure:"conn_max_idle_time"`
	StatementTimeout time.Duration `mapstructure:"statement_timeout"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the Redis address
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// KafkaConfig holds Kafka/Redpanda connection settings
type KafkaConfig struct {
	Brokers          []string `mapstructure:"brokers"`
	ClientID         string   `mapstructure:"client_id"`
	PriceChangeTopic string   `mapstructure:"price_change_topic"`
	DLQTopicSuffix   string   `mapstructure:"dlq_topic_suffix"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	ServiceName   string  `mapstructure:"service_name"`
	CollectorAddr string  `mapstructure:"collector_addr"`
	SampleRatio   float64 `mapstructure:"sample_ratio"`
}

// PricingConfig holds the recommendation model version and its thresholds
type PricingConfig struct {
	Version     string `mapstructure:"version"`
	NaNSentinel string `mapstructure:"nan_sentinel"`
	Workers     int    `mapstructure:"workers"`

	HighOccupancies     float64 `mapstructure:"high_occupancies"`
	LowOccupancies      float64 `mapstructure:"low_occupancies"`
	HighATPIncrease     float64 `mapstructure:"high_atp_increase"`
	HighSoldOutDaysDiff float64 `mapstructure:"high_sold_out_days_diff"`
	MedSoldOutDaysDiff  float64 `mapstructure:"med_sold_out_days_diff"`
	LowSoldOutDaysDiff  float64 `mapstructure:"low_sold_out_days_diff"`
	LargeATPDifference  float64 `mapstructure:"large_atp_difference"`
	SmallATPDifference  float64 `mapstructure:"small_atp_difference"`
}

// ABTestConfig points at the precomputed treatment assignment in Redis
type ABTestConfig struct {
	Experiment string `mapstructure:"experiment"`
	KeyPrefix  string `mapstructure:"key_prefix"`
}

// TreatmentKey returns the Redis set holding treatment venue ids
func (a *ABTestConfig) TreatmentKey() string {
	return fmt.Sprintf("%s:%s:treatment", a.KeyPrefix, a.Experiment)
}

// MonitorConfig holds reversed zones monitor settings
type MonitorConfig struct {
	RewarnInterval time.Duration `mapstructure:"rewarn_interval"`
}

// PriceChangeConfig holds price change worker settings
type PriceChangeConfig struct {
	RequesterID int64 `mapstructure:"requester_id"`
	BatchSize   int   `mapstructure:"batch_size"`
	MaxRetries  int   `mapstructure:"max_retries"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// .env is optional, environment variables still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	return finish(v)
}

// LoadWithPath loads configuration from a specific path
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{}
	if err := bindConfig(v, cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("APP_NAME", "price-settings")
	v.SetDefault("APP_ENVIRONMENT", "development")
	v.SetDefault("APP_DEBUG", true)
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("APP_LOG_LEVEL", "info")

	// Server defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_READ_TIMEOUT", "30s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	// Warehouse defaults
	v.SetDefault("WAREHOUSE_HOST", "localhost")
	v.SetDefault("WAREHOUSE_PORT", 5432)
	v.SetDefault("WAREHOUSE_USER", "postgres")
	v.SetDefault("WAREHOUSE_PASSWORD", "postgres")
	v.SetDefault("WAREHOUSE_DBNAME", "pricing_dwh")
	v.SetDefault("WAREHOUSE_SSLMODE", "disable")
	v.SetDefault("WAREHOUSE_MAX_CONNS", 10)
	v.SetDefault("WAREHOUSE_MIN_CONNS", 1)
	v.SetDefault("WAREHOUSE_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("WAREHOUSE_CONN_MAX_IDLE_TIME", "30m")
	v.SetDefault("WAREHOUSE_STATEMENT_TIMEOUT", "5m")

	// Redis defaults
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("REDIS_MIN_IDLE_CONNS", 2)
	v.SetDefault("REDIS_DIAL_TIMEOUT", "5s")
	v.SetDefault("REDIS_READ_TIMEOUT", "3s")
	v.SetDefault("REDIS_WRITE_TIMEOUT", "3s")

	// Kafka defaults
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_CLIENT_ID", "price-settings")
	v.SetDefault("KAFKA_PRICE_CHANGE_TOPIC", "session-price-change-requests")
	v.SetDefault("KAFKA_DLQ_TOPIC_SUFFIX", ".dlq")

	// OTel defaults
	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "price-settings")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")
	v.SetDefault("OTEL_SAMPLE_RATIO", 1.0)

	// Pricing defaults
	v.SetDefault("PRICING_VERSION", "v1")
	v.SetDefault("PRICING_NAN_SENTINEL", "NaN")
	v.SetDefault("PRICING_WORKERS", 4)
	v.SetDefault("PRICING_HIGH_OCCUPANCIES", 0.9)
	v.SetDefault("PRICING_LOW_OCCUPANCIES", 0.5)
	v.SetDefault("PRICING_HIGH_ATP_INCREASE", 0.1)
	v.SetDefault("PRICING_HIGH_SOLD_OUT_DAYS_DIFF", 30.0)
	v.SetDefault("PRICING_MED_SOLD_OUT_DAYS_DIFF", 14.0)
	v.SetDefault("PRICING_LOW_SOLD_OUT_DAYS_DIFF", 7.0)
	v.SetDefault("PRICING_LARGE_ATP_DIFFERENCE", 0.1)
	v.SetDefault("PRICING_SMALL_ATP_DIFFERENCE", 0.05)

	// A/B test defaults
	v.SetDefault("ABTEST_EXPERIMENT", "price-settings")
	v.SetDefault("ABTEST_KEY_PREFIX", "abtest")

	// Monitor defaults
	v.SetDefault("MONITOR_REWARN_INTERVAL", "168h") // 1 week

	// Price change defaults
	v.SetDefault("PRICE_CHANGE_REQUESTER_ID", 0)
	v.SetDefault("PRICE_CHANGE_BATCH_SIZE", 500)
	v.SetDefault("PRICE_CHANGE_MAX_RETRIES", 5)
}

func bindConfig(v *viper.Viper, cfg *Config) error {
	// App
	cfg.App.Name = v.GetString("APP_NAME")
	cfg.App.Environment = v.GetString("APP_ENVIRONMENT")
	cfg.App.Debug = v.GetBool("APP_DEBUG")
	cfg.App.Version = v.GetString("APP_VERSION")
	cfg.App.LogLevel = v.GetString("APP_LOG_LEVEL")

	// Server
	cfg.Server.Host = v.GetString("SERVER_HOST")
	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Server.ReadTimeout = v.GetDuration("SERVER_READ_TIMEOUT")
	cfg.Server.WriteTimeout = v.GetDuration("SERVER_WRITE_TIMEOUT")
	cfg.Server.IdleTimeout = v.GetDuration("SERVER_IDLE_TIMEOUT")

	// Warehouse
	cfg.Warehouse.Host = v.GetString("WAREHOUSE_HOST")
	cfg.Warehouse.Port = v.GetInt("WAREHOUSE_PORT")
	cfg.Warehouse.User = v.GetString("WAREHOUSE_USER")
	cfg.Warehouse.Password = v.GetString("WAREHOUSE_PASSWORD")
	cfg.Warehouse.DBName = v.GetString("WAREHOUSE_DBNAME")
	cfg.Warehouse.SSLMode = v.GetString("WAREHOUSE_SSLMODE")
	cfg.Warehouse.MaxConns = v.GetInt32("WAREHOUSE_MAX_CONNS")
	cfg.Warehouse.MinConns = v.GetInt32("WAREHOUSE_MIN_CONNS")
	cfg.Warehouse.ConnMaxLifetime = v.GetDuration("WAREHOUSE_CONN_MAX_LIFETIME")
	cfg.Warehouse.ConnMaxIdleTime = v.GetDuration("WAREHOUSE_CONN_MAX_IDLE_TIME")
	cfg.Warehouse.StatementTimeout = v.GetDuration("WAREHOUSE_STATEMENT_TIMEOUT")

	// Redis
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.MinIdleConns = v.GetInt("REDIS_MIN_IDLE_CONNS")
	cfg.Redis.DialTimeout = v.GetDuration("REDIS_DIAL_TIMEOUT")
	cfg.Redis.ReadTimeout = v.GetDuration("REDIS_READ_TIMEOUT")
	cfg.Redis.WriteTimeout = v.GetDuration("REDIS_WRITE_TIMEOUT")

	// Kafka
	cfg.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	cfg.Kafka.ClientID = v.GetString("KAFKA_CLIENT_ID")
	cfg.Kafka.PriceChangeTopic = v.GetString("KAFKA_PRICE_CHANGE_TOPIC")
	cfg.Kafka.DLQTopicSuffix = v.GetString("KAFKA_DLQ_TOPIC_SUFFIX")

	// OTel
	cfg.OTel.Enabled = v.GetBool("OTEL_ENABLED")
	cfg.OTel.ServiceName = v.GetString("OTEL_SERVICE_NAME")
	cfg.OTel.CollectorAddr = v.GetString("OTEL_COLLECTOR_ADDR")
	cfg.OTel.SampleRatio = v.GetFloat64("OTEL_SAMPLE_RATIO")

	// Pricing
	cfg.Pricing.Version = v.GetString("PRICING_VERSION")
	cfg.Pricing.NaNSentinel = v.GetString("PRICING_NAN_SENTINEL")
	cfg.Pricing.Workers = v.GetInt("PRICING_WORKERS")
	cfg.Pricing.HighOccupancies = v.GetFloat64("PRICING_HIGH_OCCUPANCIES")
	cfg.Pricing.LowOccupancies = v.GetFloat64("PRICING_LOW_OCCUPANCIES")
	cfg.Pricing.HighATPIncrease = v.GetFloat64("PRICING_HIGH_ATP_INCREASE")
	cfg.Pricing.HighSoldOutDaysDiff = v.GetFloat64("PRICING_HIGH_SOLD_OUT_DAYS_DIFF")
	cfg.Pricing.MedSoldOutDaysDiff = v.GetFloat64("PRICING_MED_SOLD_OUT_DAYS_DIFF")
	cfg.Pricing.LowSoldOutDaysDiff = v.GetFloat64("PRICING_LOW_SOLD_OUT_DAYS_DIFF")
	cfg.Pricing.LargeATPDifference = v.GetFloat64("PRICING_LARGE_ATP_DIFFERENCE")
	cfg.Pricing.SmallATPDifference = v.GetFloat64("PRICING_SMALL_ATP_DIFFERENCE")

	// A/B test
	cfg.ABTest.Experiment = v.GetString("ABTEST_EXPERIMENT")
	cfg.ABTest.KeyPrefix = v.GetString("ABTEST_KEY_PREFIX")

	// Monitor
	cfg.Monitor.RewarnInterval = v.GetDuration("MONITOR_REWARN_INTERVAL")

	// Price change
	cfg.PriceChange.RequesterID = v.GetInt64("PRICE_CHANGE_REQUESTER_ID")
	cfg.PriceChange.BatchSize = v.GetInt("PRICE_CHANGE_BATCH_SIZE")
	cfg.PriceChange.MaxRetries = v.GetInt("PRICE_CHANGE_MAX_RETRIES")

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Pricing.Version == "" {
		return fmt.Errorf("pricing version is required")
	}

	if c.Pricing.LowOccupancies > c.Pricing.HighOccupancies {
		return fmt.Errorf("pricing low occupancies (%v) must not exceed high occupancies (%v)",
			c.Pricing.LowOccupancies, c.Pricing.HighOccupancies)
	}

	if c.Pricing.LowSoldOutDaysDiff > c.Pricing.MedSoldOutDaysDiff {
		return fmt.Errorf("pricing low sold out days diff (%v) must not exceed med (%v)",
			c.Pricing.LowSoldOutDaysDiff, c.Pricing.MedSoldOutDaysDiff)
	}

	if c.Pricing.SmallATPDifference > c.Pricing.LargeATPDifference {
		return fmt.Errorf("pricing small ATP difference (%v) must not exceed large (%v)",
			c.Pricing.SmallATPDifference, c.Pricing.LargeATPDifference)
	}

	if c.Monitor.RewarnInterval <= 0 {
		return fmt.Errorf("monitor rewarn interval must be positive")
	}

	return nil
}

// ValidateWarehouse validates warehouse configuration
func (c *Config) ValidateWarehouse() error {
	if c.Warehouse.Host == "" {
		return fmt.Errorf("WAREHOUSE_HOST is required")
	}
	if c.Warehouse.DBName == "" {
		return fmt.Errorf("WAREHOUSE_DBNAME is required")
	}
	return nil
}

// ValidateKafka validates Kafka configuration for the price change worker
func (c *Config) ValidateKafka() error {
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.Kafka.PriceChangeTopic == "" {
		return fmt.Errorf("KAFKA_PRICE_CHANGE_TOPIC is required")
	}
	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}
