package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

const testAPIKey = "sk-test-key"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(42), cfg.FleetSeed)
	assert.InDelta(t, 0.5, cfg.RiskThreshold, 1e-12)
	assert.Empty(t, cfg.ClustersFile)
	assert.Equal(t, domain.DefaultClusters(), cfg.Clusters)
	assert.Empty(t, cfg.OpenAIAPIKey)
	assert.False(t, cfg.NarrativeEnabled())
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 30*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 256, cfg.NarrativeCacheSize)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "pipeline-risk-alerts", cfg.KafkaAlertTopic)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, "*/5 * * * *", cfg.AlertSchedule)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("FLEET_SEED", "7")
	t.Setenv("RISK_THRESHOLD", "0.3")
	t.Setenv("OPENAI_API_KEY", testAPIKey)
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("OPENAI_TIMEOUT", "5s")
	t.Setenv("NARRATIVE_CACHE_SIZE", "16")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_ALERT_TOPIC", "custom-alerts")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("ALERT_SCHEDULE", "@hourly")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, int64(7), cfg.FleetSeed)
	assert.InDelta(t, 0.3, cfg.RiskThreshold, 1e-12)
	assert.True(t, cfg.NarrativeEnabled())
	assert.Equal(t, testAPIKey, cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAIModel)
	assert.Equal(t, "http://localhost:1234/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.OpenAITimeout)
	assert.Equal(t, 16, cfg.NarrativeCacheSize)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-alerts", cfg.KafkaAlertTopic)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, "@hourly", cfg.AlertSchedule)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"shutdown timeout", "SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
		{"seed", "FLEET_SEED", "forty-two", "FLEET_SEED"},
		{"threshold not a number", "RISK_THRESHOLD", "high", "RISK_THRESHOLD"},
		{"threshold above one", "RISK_THRESHOLD", "1.5", "RISK_THRESHOLD"},
		{"openai timeout", "OPENAI_TIMEOUT", "bad", "OPENAI_TIMEOUT"},
		{"openai timeout too long", "OPENAI_TIMEOUT", "2m", "OPENAI_TIMEOUT"},
		{"batch size zero", "BATCH_SIZE", "0", "BATCH_SIZE"},
		{"batch size too large", "BATCH_SIZE", "9999", "BATCH_SIZE"},
		{"flush interval", "BATCH_FLUSH_INTERVAL", "soon", "BATCH_FLUSH_INTERVAL"},
		{"alert schedule", "ALERT_SCHEDULE", "every now and then", "ALERT_SCHEDULE"},
		{"clusters file missing", "CLUSTERS_FILE", "/nonexistent/clusters.yaml", "CLUSTERS_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_OpenAITimeoutAtCap(t *testing.T) {
	t.Setenv("OPENAI_TIMEOUT", MaxOpenAITimeout.String())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, MaxOpenAITimeout, cfg.OpenAITimeout)
}

func TestLoad_NegativeSeedAccepted(t *testing.T) {
	t.Setenv("FLEET_SEED", "-17")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(-17), cfg.FleetSeed)
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("NARRATIVE_CACHE_SIZE", "-3")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.NarrativeCacheSize)
}

func TestLoad_KafkaBrokersImplyEnabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker:9092")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_KafkaEnabledUsesDefaultBroker(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_KafkaEnabledWithBlankBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_ClustersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clusters.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`clusters:
  - name: North Field
    lat: 26.0
    lon: 51.5
    radius: 0.4
    count: 5
  - name: South Field
    lat: 24.0
    lon: 50.0
    radius: 0.6
    count: 3
`), 0o600))
	t.Setenv("CLUSTERS_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ClustersFile)
	require.Len(t, cfg.Clusters, 2)
	assert.Equal(t, "North Field", cfg.Clusters[0].Name)
	assert.Equal(t, 8, domain.TotalCount(cfg.Clusters))
}
