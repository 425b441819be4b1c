package service

import (
	"context"
	"strings"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/pkg/events"
	pktNats "ai-docchat-be/pkg/nats" // Renamed to avoid collision
)

// EventDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type EventDelivery interface {
	SendToConversation(conversationId string, eventType string, data map[string]interface{})
	Broadcast(eventType string, data map[string]interface{})
}

// EventStreamService bridges the NATS event bus to connected websocket
// listeners so the frontend can render ingestion progress live.
type EventStreamService struct {
	subscriber *pktNats.Subscriber
	delivery   EventDelivery
	logger     logger.ILogger
}

func NewEventStreamService(sub *pktNats.Subscriber, delivery EventDelivery, log logger.ILogger) *EventStreamService {
	return &EventStreamService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *EventStreamService) Start() {
	// Subscribe to all events with a durable consumer
	err := s.subscriber.Subscribe("events.>", "ws-fanout", s.handleEvent)
	if err != nil {
		s.logger.Error("EventStreamService", "Failed to start event stream subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("EventStreamService", "Event stream started, listening to events.>", nil)
}

func (s *EventStreamService) handleEvent(ctx context.Context, event events.Event) error {
	// Strip "events." prefix from type if present (NATS subject includes stream name)
	typeCode := strings.TrimPrefix(event.EventType(), "events.")
	payload := event.Payload()

	if s.delivery == nil {
		return nil
	}

	// Events that carry a conversation_id only concern that conversation's
	// listeners. Everything else (resets, superseded uploads without a
	// conversation) goes to every connected client.
	if convId, ok := payload["conversation_id"].(string); ok && convId != "" {
		s.logger.Info("EventStreamService", "Routing event to conversation", map[string]interface{}{"type": typeCode, "conversation_id": convId})
		s.delivery.SendToConversation(convId, typeCode, payload)
		return nil
	}

	s.logger.Info("EventStreamService", "Broadcasting event", map[string]interface{}{"type": typeCode})
	s.delivery.Broadcast(typeCode, payload)
	return nil
}
