package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLoadFeeDefaults(t *testing.T) {
	t.Setenv("DEFAULT_ISSUANCE_FEE", "")
	t.Setenv("DEFAULT_SERVICE_RATES", "")

	cfg := Load()
	assert.True(t, cfg.Fees.IssuanceFee.Equal(decimal.NewFromInt(5)))
	assert.True(t, cfg.Fees.ServiceRates["THEATER"].Equal(decimal.RequireFromString("0.08")))
	assert.Len(t, cfg.Fees.ServiceRates, 4)
}

func TestLoadFeeOverrides(t *testing.T) {
	t.Setenv("DEFAULT_ISSUANCE_FEE", "7.5")
	t.Setenv("DEFAULT_SERVICE_RATES", "concert:0.2, opera : 0.05,broken,bad:x")

	cfg := Load()
	assert.True(t, cfg.Fees.IssuanceFee.Equal(decimal.RequireFromString("7.5")))
	assert.Equal(t, map[string]decimal.Decimal{
		"CONCERT": decimal.RequireFromString("0.2"),
		"OPERA":   decimal.RequireFromString("0.05"),
	}, cfg.Fees.ServiceRates)
}

func TestLoadKafkaAndRedis(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg := Load()
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("JWT_EXPIRES_IN", "120")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")
	t.Setenv("RATE_LIMIT_WHITELISTED_IPS", " , ")

	cfg := Load()

	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 2*time.Minute, cfg.JWT.JWTExpiresIn)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Empty(t, cfg.RateLimit.WhitelistedIPs)
}
