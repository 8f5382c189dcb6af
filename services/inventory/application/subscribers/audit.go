// Package subscribers holds in-process consumers of inventory lifecycle events.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/inventory/pkg/logger"
	domainevents "github.com/ghuser/inventory/services/inventory/domain/events"
)

// Subscriber registers a handler for a topic. *events.EventBus satisfies it.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error)
}

// RegisterAudit subscribes the audit handler to every lifecycle topic.
// Subscriber errors are drained in the background so the channels never block.
func RegisterAudit(ctx context.Context, bus Subscriber, log logger.Logger) error {
	for _, topic := range domainevents.Topics {
		errCh, err := bus.Subscribe(ctx, topic, handleAudit(topic, log))
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		go func(topic string) {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	log.Info("event subscribers registered", "topics", domainevents.Topics)
	return nil
}

// handleAudit logs one line per lifecycle event. A payload that does not
// decode is returned as an error so the bus reports it after its retries.
func handleAudit(topic string, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt domainevents.EntityEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return fmt.Errorf("decode %s event: %w", topic, err)
		}
		log.InfoContext(ctx, "inventory event",
			"topic", topic,
			"entity_id", evt.EntityID,
			"event_id", evt.EventID,
			"version", evt.Version,
			"occurred_at", evt.OccurredAt,
		)
		return nil
	}
}
