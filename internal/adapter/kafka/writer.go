package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/turf-risk/internal/config"
	"github.com/couchcryptid/turf-risk/internal/domain"
)

// Writer publishes risk assessments to the alert topic.
// It implements monitor.AlertPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured alert topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAlertTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishBatch serializes and publishes multiple assessments to the alert
// topic in a single WriteMessages call. Messages are keyed by assessment ID
// so downstream consumers can deduplicate repeated site/day assessments.
func (w *Writer) PublishBatch(ctx context.Context, assessments []domain.RiskAssessment) error {
	if len(assessments) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(assessments))
	for i := range assessments {
		msg, err := serializeToMessage(assessments[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a RiskAssessment into a Kafka message.
func serializeToMessage(a domain.RiskAssessment) (kafkago.Message, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize risk assessment: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(a.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "site", Value: []byte(a.Site.Name)},
			{Key: "risk_band", Value: []byte(a.RiskBand)},
			{Key: "generated_at", Value: []byte(a.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
