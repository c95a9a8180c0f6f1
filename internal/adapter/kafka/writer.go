package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/baseball-program-finder/internal/config"
	"github.com/couchcryptid/baseball-program-finder/internal/domain"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes classification changes to a Kafka changelog topic.
// It implements fit.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured classification topic.
// Keys are record keys, so the topic can be compacted to the latest
// classification per user and program.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaClassificationTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes one classification record.
func (w *Writer) Publish(ctx context.Context, rec domain.ClassificationRecord) error {
	msg, err := serializeToMessage(rec, uuid.New())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish classification %s: %w", rec.Key(), err)
	}
	w.logger.Debug("classification published", "key", rec.Key(), "classification", rec.Classification)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ClassificationRecord into a Kafka message.
func serializeToMessage(rec domain.ClassificationRecord, id uuid.UUID) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize classification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "classification", Value: []byte(rec.Classification)},
			{Key: "classified_at", Value: []byte(rec.ClassifiedAt.Format(time.RFC3339))},
			{Key: "message_id", Value: []byte(id.String())},
		},
	}, nil
}
