package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "u:p@tcp(localhost:3306)/store")
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("BCRYPT_COST", "not-a-number")

	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 5*time.Second, c.DBTimeout)
	assert.False(t, c.Production())

	t.Setenv("APP_ENV", "Production")
	assert.True(t, Load().Production())
}

func TestEnvBool(t *testing.T) {
	for v, want := range map[string]bool{"1": true, "YES": true, " on ": true, "off": false, "0": false} {
		t.Setenv("FLAG", v)
		assert.Equal(t, want, envBool("FLAG", !want), v)
	}
	t.Setenv("FLAG", "maybe")
	assert.True(t, envBool("FLAG", true))
}

func TestRateLimitNormalization(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	c := LoadRateLimitConfig()
	assert.Equal(t, 1, c.Capacity)
	assert.Equal(t, 1, c.RefillTokens)
	assert.Equal(t, 2*time.Second, c.RefillInterval)
	assert.Equal(t, 10*time.Second, c.TTL)
	assert.Equal(t, "rl:auth", c.WithPrefix("auth").Prefix)
	assert.Equal(t, "rl", c.Prefix)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", " get, head ,,")
	t.Setenv("CACHE_TTL", "1m")

	c := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)
	assert.Equal(t, time.Minute, c.TTL)
	assert.Equal(t, "route_query", c.KeyStrategy)
}

func TestLoadQueueConfigFallsBackToAMQPURL(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")

	c := LoadQueueConfig()
	assert.Equal(t, "amqp://u:p@mq:5672/", c.URL)
	assert.False(t, c.PublishEnabled)
	assert.Equal(t, "logs", c.LogDir)
}
