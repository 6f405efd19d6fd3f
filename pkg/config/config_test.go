package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithPath_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(writeEnv(t, "APP_NAME=price-settings-test\n"))
	require.NoError(t, err)

	assert.Equal(t, "price-settings-test", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "pricing_dwh", cfg.Warehouse.DBName)
	assert.Equal(t, 5*time.Minute, cfg.Warehouse.StatementTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "NaN", cfg.Pricing.NaNSentinel)
	assert.Equal(t, 0.9, cfg.Pricing.HighOccupancies)
	assert.Equal(t, 0.5, cfg.Pricing.LowOccupancies)
	assert.Equal(t, 7*24*time.Hour, cfg.Monitor.RewarnInterval)
	assert.Equal(t, "abtest:price-settings:treatment", cfg.ABTest.TreatmentKey())
}

func TestLoadWithPath_Overrides(t *testing.T) {
	cfg, err := LoadWithPath(writeEnv(t, `APP_NAME=price-settings
KAFKA_BROKERS=broker-1:9092, broker-2:9092
PRICING_VERSION=v2
PRICING_LOW_OCCUPANCIES=0.4
MONITOR_REWARN_INTERVAL=24h
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "v2", cfg.Pricing.Version)
	assert.Equal(t, 0.4, cfg.Pricing.LowOccupancies)
	assert.Equal(t, 24*time.Hour, cfg.Monitor.RewarnInterval)
}

func TestLoadWithPath_MissingFile(t *testing.T) {
	_, err := LoadWithPath(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Name: "price-settings"},
			Server: ServerConfig{Port: 8080},
			Pricing: PricingConfig{
				Version:            "v1",
				HighOccupancies:    0.9,
				LowOccupancies:     0.5,
				MedSoldOutDaysDiff: 14,
				LowSoldOutDaysDiff: 7,
				LargeATPDifference: 0.1,
				SmallATPDifference: 0.05,
			},
			Monitor: MonitorConfig{RewarnInterval: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing app name", func(c *Config) { c.App.Name = "" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"missing version", func(c *Config) { c.Pricing.Version = "" }, true},
		{"inverted occupancies", func(c *Config) { c.Pricing.LowOccupancies = 0.95 }, true},
		{"inverted sold out thresholds", func(c *Config) { c.Pricing.LowSoldOutDaysDiff = 20 }, true},
		{"inverted atp thresholds", func(c *Config) { c.Pricing.SmallATPDifference = 0.2 }, true},
		{"zero rewarn", func(c *Config) { c.Monitor.RewarnInterval = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateKafka(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateKafka())

	cfg.Kafka.Brokers = []string{"localhost:9092"}
	cfg.Kafka.PriceChangeTopic = "prices"
	assert.NoError(t, cfg.ValidateKafka())
}
