package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

// MaxOpenAITimeout keeps a completion call inside the HTTP server's write
// timeout so narrative responses are not cut off.
const MaxOpenAITimeout = 50 * time.Second

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Fleet simulation.
	FleetSeed     int64
	RiskThreshold float64
	ClustersFile  string
	Clusters      []domain.ClusterDef

	// Narrative generation via a chat-completion API.
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAITimeout      time.Duration
	NarrativeCacheSize int

	// Risk alert publishing.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaAlertTopic    string
	BatchSize          int
	BatchFlushInterval time.Duration
	AlertSchedule      string
}

// NarrativeEnabled reports whether a completion API key is configured.
func (c *Config) NarrativeEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	seed, err := strconv.ParseInt(sharedcfg.EnvOrDefault("FLEET_SEED", "42"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid FLEET_SEED")
	}

	threshold, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("RISK_THRESHOLD", "0.5"), 64)
	if err != nil || threshold < 0 || threshold > 1 {
		return nil, errors.New("invalid RISK_THRESHOLD: must be between 0 and 1")
	}

	openAITimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("OPENAI_TIMEOUT", "30s"))
	if err != nil || openAITimeout <= 0 {
		return nil, errors.New("invalid OPENAI_TIMEOUT")
	}
	if openAITimeout > MaxOpenAITimeout {
		return nil, fmt.Errorf("invalid OPENAI_TIMEOUT: must be at most %s", MaxOpenAITimeout)
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	clustersFile := os.Getenv("CLUSTERS_FILE")
	clusters := domain.DefaultClusters()
	if clustersFile != "" {
		clusters, err = LoadClusters(clustersFile)
		if err != nil {
			return nil, fmt.Errorf("invalid CLUSTERS_FILE: %w", err)
		}
	}

	kafkaEnabled := os.Getenv("KAFKA_BROKERS") != ""
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FleetSeed:     seed,
		RiskThreshold: threshold,
		ClustersFile:  clustersFile,
		Clusters:      clusters,

		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        sharedcfg.EnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		OpenAITimeout:      openAITimeout,
		NarrativeCacheSize: parseNarrativeCacheSize(),

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic:    sharedcfg.EnvOrDefault("KAFKA_ALERT_TOPIC", "pipeline-risk-alerts"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		AlertSchedule:      sharedcfg.EnvOrDefault("ALERT_SCHEDULE", "*/5 * * * *"),
	}

	if err := domain.ValidateClusters(cfg.Clusters); err != nil {
		return nil, fmt.Errorf("invalid cluster table: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_ALERT_TOPIC is required")
	}
	if _, err := cron.ParseStandard(cfg.AlertSchedule); err != nil {
		return nil, fmt.Errorf("invalid ALERT_SCHEDULE: %w", err)
	}

	return cfg, nil
}

func parseNarrativeCacheSize() int {
	if s := os.Getenv("NARRATIVE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 256
}
