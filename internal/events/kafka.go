package events

import (
	"context"
	"time"

	"CedearScan/internal/domain/models"
	"CedearScan/pkg/kafka"
	xlogger "CedearScan/pkg/logger"
)

// RunCompleted is the event emitted after each fresh ranking run. Kept
// compact: consumers that need the full breakdown hit the API.
type RunCompleted struct {
	Strategy   string    `json:"strategy"`
	Date       string    `json:"date"`
	Total      int       `json:"total"`
	Skipped    int       `json:"skipped"`
	TopTicker  string    `json:"top_ticker,omitempty"`
	TopScore   int       `json:"top_score,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaPublisher emits run events to a Kafka topic, keyed by strategy
// so per-strategy ordering holds within a partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *xlogger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, topic string, logger *xlogger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

func (p *KafkaPublisher) PublishRunCompleted(ctx context.Context, result *models.RankedResult) error {
	ev := RunCompleted{
		Strategy:   string(result.Strategy),
		Date:       result.Date,
		Total:      result.Total,
		Skipped:    result.Skipped,
		OccurredAt: time.Now().UTC(),
	}
	if len(result.Entries) > 0 {
		ev.TopTicker = result.Entries[0].Ticker
		ev.TopScore = result.Entries[0].Score
	}

	if err := p.producer.Publish(ctx, p.topic, []byte(ev.Strategy), ev); err != nil {
		p.logger.Warn("run event publish failed",
			xlogger.Error(err), xlogger.String("strategy", ev.Strategy))
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// LogSink adapts the Kafka producer to the logger's aggregated-log
// publisher. Aggregated entries carry no ordering key.
type LogSink struct {
	producer *kafka.Producer
}

func NewLogSink(producer *kafka.Producer) *LogSink {
	return &LogSink{producer: producer}
}

func (s *LogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}

// NoopPublisher satisfies EventPublisher when Kafka is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRunCompleted(context.Context, *models.RankedResult) error { return nil }
func (NoopPublisher) Close() error                                                    { return nil }
