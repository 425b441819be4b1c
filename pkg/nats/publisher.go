package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-docchat-be/internal/constant"
	"ai-docchat-be/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher handles sending events to the NATS bus.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// Ensure the "EVENTS" stream exists
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       "EVENTS",
		Subjects:   []string{"events.>"},
		Storage:    jetstream.FileStorage,
		Retention:  jetstream.WorkQueuePolicy,
		Duplicates: 2 * time.Minute,
	})
	if err != nil {
		log.Printf("Warn: Failed to ensure stream 'EVENTS': %v", err)
		// Don't fail hard here, maybe it already exists or NATS isn't ready
	}

	return &Publisher{nc: nc, js: js}, nil
}

// Publish sends an event to NATS under events.<EVENT_TYPE>. Document lifecycle
// events carry a message ID derived from the document identity, so a racing
// duplicate ingest fans out one notification, not two.
func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	subject := fmt.Sprintf("events.%s", event.EventType())

	opts := []jetstream.PublishOpt{}
	if id := dedupeID(event); id != "" {
		opts = append(opts, jetstream.WithMsgID(id))
	}

	_, err = p.js.Publish(ctx, subject, data, opts...)
	if err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}

	return nil
}

// dedupeID keys a lifecycle event by the hashes it concerns. A re-index of the
// same content inside the duplicate window is suppressed along with true
// duplicates; the window is short enough that this only hides retry noise.
func dedupeID(event events.Event) string {
	payload := event.Payload()
	switch event.EventType() {
	case constant.EventDocumentIndexed:
		if hash, ok := payload["content_hash"].(string); ok && hash != "" {
			return fmt.Sprintf("%s:%s", event.EventType(), hash)
		}
	case constant.EventDocumentSuperseded:
		oldHash, _ := payload["old_hash"].(string)
		newHash, _ := payload["new_hash"].(string)
		if oldHash != "" || newHash != "" {
			return fmt.Sprintf("%s:%s:%s", event.EventType(), oldHash, newHash)
		}
	}
	return ""
}

// IsConnected reports whether the underlying connection is currently usable.
// The health endpoint surfaces this so silent event loss is visible. Safe on a
// nil receiver: a container that never got a bus reports false.
func (p *Publisher) IsConnected() bool {
	return p != nil && p.nc != nil && p.nc.IsConnected()
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
