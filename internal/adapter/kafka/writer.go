package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/pipeline-leak-watch/internal/config"
	"github.com/couchcryptid/pipeline-leak-watch/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer the alert writer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes risk alerts to the alert topic.
// It implements pipeline.AlertLoader.
type Writer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured alert topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaAlertTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchFlushInterval,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, topic: cfg.KafkaAlertTopic, logger: logger}
}

// LoadAlerts serializes every alert and writes them in one WriteMessages
// call. Alerts keyed by pipeline name land on the same partition, so each
// pipeline's alerts stay ordered.
func (w *Writer) LoadAlerts(ctx context.Context, alerts []domain.RiskAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(alerts))
	for i := range alerts {
		msg, err := serializeToMessage(alerts[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d alerts to %s: %w", len(msgs), w.topic, err)
	}
	w.logger.Debug("alerts written", "topic", w.topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RiskAlert into a Kafka message.
func serializeToMessage(alert domain.RiskAlert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize risk alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.Pipeline.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk_level", Value: []byte(alert.RiskLevel)},
			{Key: "snapshot_id", Value: []byte(alert.SnapshotID)},
			{Key: "generated_at", Value: []byte(alert.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
