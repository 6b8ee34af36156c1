package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

const EventQuoteSubmitted = "quote.submitted"

// Publisher announces stored quote requests to downstream consumers.
type Publisher interface {
	PublishSubmitted(ctx context.Context, q *types.QuoteRequest) error
	Close() error
}

// SubmittedEvent is the JSON payload written for each new quote.
type SubmittedEvent struct {
	Type       string             `json:"type"`
	OccurredAt time.Time          `json:"occurred_at"`
	Quote      types.QuoteRequest `json:"quote"`
}

// KafkaWriter is the subset of *kafka.Writer the publisher needs, so tests can
// swap it out.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer KafkaWriter
	logger *slog.Logger
}

var _ Publisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher writes to topic on brokers. Messages are keyed by quote ID
// so retries for the same lead land on one partition.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}, logger)
}

func NewKafkaPublisherWithWriter(w KafkaWriter, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) PublishSubmitted(ctx context.Context, q *types.QuoteRequest) error {
	payload, err := json.Marshal(SubmittedEvent{
		Type:       EventQuoteSubmitted,
		OccurredAt: q.CreatedAt,
		Quote:      *q,
	})
	if err != nil {
		return fmt.Errorf("failed to encode quote event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(q.ID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventQuoteSubmitted)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write quote event: %w", err)
	}

	p.logger.DebugContext(ctx, "Published quote event", slog.String("quote_id", q.ID.String()))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops events. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishSubmitted(context.Context, *types.QuoteRequest) error { return nil }
func (NopPublisher) Close() error                                                { return nil }
