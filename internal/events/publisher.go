package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"storesync/internal/logger"

	"github.com/segmentio/kafka-go"
)

const SyncRequestsTopic = "sync-requests"

// Event is the envelope published to the sync-requests topic. The trigger
// worker consumes it and asks the coordinator for a run.
type Event struct {
	Type      string    `json:"type"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

const EventSyncRequested = "sync.requested"

// Publisher emits opportunistic sync requests. Publishing is best effort:
// the storefront must never block or fail because Kafka is away.
type Publisher struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewPublisher(brokers string, logger *logger.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        SyncRequestsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}

	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// PublishSyncRequested enqueues a sync.requested event. Errors are logged
// and swallowed.
func (p *Publisher) PublishSyncRequested(ctx context.Context, origin string) {
	event := Event{
		Type:      EventSyncRequested,
		Origin:    origin,
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal sync event: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
		p.logger.Warn("Failed to publish sync request: %v", err)
	}
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
