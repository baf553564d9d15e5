package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"OPS_ADDR", "STORE", "RELAY_INTERVAL", "RELAY_BATCH", "KAFKA_BROKERS", "CONSUMER_WORKERS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ":8081", cfg.OpsAddr)
	assert.Equal(t, "postgres", cfg.Store)
	assert.Equal(t, time.Second, cfg.RelayInterval)
	assert.Equal(t, 100, cfg.RelayBatch)
	assert.Equal(t, 4, cfg.ConsumerWorkers)
	assert.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE", "Memory")
	t.Setenv("RELAY_INTERVAL", "250ms")
	t.Setenv("RELAY_BATCH", "20")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("CONSUMER_WORKERS", "-3")

	cfg := Load()
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 250*time.Millisecond, cfg.RelayInterval)
	assert.Equal(t, 20, cfg.RelayBatch)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 4, cfg.ConsumerWorkers)
}
