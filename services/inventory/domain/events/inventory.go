package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Watermill topics for entity lifecycle events.
const (
	TopicItemCreated = "item.created"
	TopicItemUpdated = "item.updated"
	TopicItemDeleted = "item.deleted"
	TopicUserCreated = "user.created"
	TopicUserUpdated = "user.updated"
	TopicUserDeleted = "user.deleted"
)

// Topics lists every lifecycle topic, for subscribers that audit them all.
var Topics = []string{
	TopicItemCreated, TopicItemUpdated, TopicItemDeleted,
	TopicUserCreated, TopicUserUpdated, TopicUserDeleted,
}

// SchemaVersion is the current EntityEvent schema version.
const SchemaVersion = 1

// EntityEvent is published after an item or user is created, updated or deleted.
// Snapshot holds the stored document and is omitted for deletions.
// Sequence numbers mutations in the order the store applied them; delivery
// order is not guaranteed, so consumers order by Sequence.
type EntityEvent struct {
	EventID    uuid.UUID       `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int             `json:"version"`  // Schema version; increment on breaking changes
	Sequence   uint64          `json:"sequence"`
	EntityID   string          `json:"entity_id"`
	Snapshot   json.RawMessage `json:"snapshot,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEntityEvent builds event number seq for entityID. A nil snapshot
// produces an event without one.
func NewEntityEvent(seq uint64, entityID string, snapshot any) (EntityEvent, error) {
	evt := EntityEvent{
		EventID:    uuid.New(),
		Version:    SchemaVersion,
		Sequence:   seq,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
	if snapshot != nil {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return EntityEvent{}, fmt.Errorf("marshal snapshot: %w", err)
		}
		evt.Snapshot = data
	}
	return evt, nil
}
