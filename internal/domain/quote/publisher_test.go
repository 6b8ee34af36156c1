package quote

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

// mockWriter records messages instead of talking to a broker.
type mockWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *mockWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishSubmitted(t *testing.T) {
	w := &mockWriter{}
	p := NewKafkaPublisherWithWriter(w, newTestLogger())

	q := &types.QuoteRequest{
		ID:           uuid.New(),
		Name:         "Dana",
		LocationSlug: "aurora",
		Status:       types.QuoteStatusNew,
		CreatedAt:    time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishSubmitted(context.Background(), q))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, q.ID.String(), string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventQuoteSubmitted, string(msg.Headers[0].Value))

	var event SubmittedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, EventQuoteSubmitted, event.Type)
	assert.Equal(t, q.ID, event.Quote.ID)
	assert.Equal(t, "aurora", event.Quote.LocationSlug)
	assert.True(t, q.CreatedAt.Equal(event.OccurredAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("leader not available")}
	p := NewKafkaPublisherWithWriter(w, newTestLogger())

	err := p.PublishSubmitted(context.Background(), &types.QuoteRequest{ID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.PublishSubmitted(context.Background(), &types.QuoteRequest{}))
	require.NoError(t, p.Close())
}
