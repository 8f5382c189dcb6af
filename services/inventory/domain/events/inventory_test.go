package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/inventory/services/inventory/domain/events"
	"github.com/ghuser/inventory/services/inventory/domain/models"
)

func TestNewEntityEvent_WithSnapshot(t *testing.T) {
	before := time.Now().UTC()
	evt, err := events.NewEntityEvent(7, "item1", &models.Item{ID: "item1", Name: "Health Potion", Type: "Consumable", Effect: "Restores 50 HP"})
	if err != nil {
		t.Fatalf("NewEntityEvent failed: %v", err)
	}

	if evt.EventID == uuid.Nil {
		t.Error("EventID must be set")
	}
	if evt.Version != events.SchemaVersion {
		t.Errorf("Version: got %d, want %d", evt.Version, events.SchemaVersion)
	}
	if evt.Sequence != 7 {
		t.Errorf("Sequence: got %d, want 7", evt.Sequence)
	}
	if evt.EntityID != "item1" {
		t.Errorf("EntityID: got %q", evt.EntityID)
	}
	if evt.OccurredAt.Before(before) {
		t.Errorf("OccurredAt %v is before %v", evt.OccurredAt, before)
	}

	var snap map[string]any
	if err := json.Unmarshal(evt.Snapshot, &snap); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if snap["name"] != "Health Potion" {
		t.Errorf("snapshot name: got %v", snap["name"])
	}
}

func TestNewEntityEvent_DeletionOmitsSnapshot(t *testing.T) {
	evt, err := events.NewEntityEvent(1, "user1", nil)
	if err != nil {
		t.Fatalf("NewEntityEvent failed: %v", err)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if _, ok := raw["snapshot"]; ok {
		t.Error("snapshot must be omitted for deletions")
	}
}

func TestEntityEvent_JSONFieldNames(t *testing.T) {
	evt, err := events.NewEntityEvent(1, "item1", map[string]string{"id": "item1"})
	if err != nil {
		t.Fatalf("NewEntityEvent failed: %v", err)
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	for _, field := range []string{"event_id", "version", "sequence", "entity_id", "snapshot", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("missing JSON field %q", field)
		}
	}
}

func TestTopics_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, topic := range events.Topics {
		if seen[topic] {
			t.Errorf("duplicate topic %q", topic)
		}
		seen[topic] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 topics, got %d", len(seen))
	}
}
