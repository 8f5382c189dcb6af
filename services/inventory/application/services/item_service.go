package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ghuser/inventory/pkg/logger"
	domainevents "github.com/ghuser/inventory/services/inventory/domain/events"
	"github.com/ghuser/inventory/services/inventory/domain/models"
	"github.com/ghuser/inventory/services/inventory/domain/repositories"
)

// ItemService orchestrates the item catalog. Every successful mutation
// publishes a lifecycle event.
type ItemService struct {
	store   repositories.Store
	events  *eventPublisher
	log     logger.Logger
	metrics *instruments
}

// Create inserts every candidate of the batch in order and returns one result
// per candidate. Rejections are reported in the results, never as an error.
func (s *ItemService) Create(ctx context.Context, batch models.Batch) []models.Result {
	ctx, span := startSpan(ctx, "ItemService.Create", attribute.Int("batch.size", len(batch)))
	defer span.End()

	items := batch.Items()
	var results []models.Result
	seq := s.events.seq.apply(func() int {
		results = s.store.CreateItems(items)
		return countAccepted(results)
	})

	var accepted int64
	for i, res := range results {
		if !res.Success {
			s.log.WarnContext(ctx, "item rejected", "item_id", res.ID, "reason", res.Message)
			continue
		}
		accepted++
		s.events.publish(ctx, domainevents.TopicItemCreated, seq, res.ID, items[i])
		seq++
	}
	rejected := int64(len(results)) - accepted

	s.metrics.itemsCreated.Add(ctx, accepted)
	s.metrics.itemsRejected.Add(ctx, rejected)
	s.metrics.mutation(ctx, "item", "create", accepted)
	span.SetAttributes(attribute.Int64("items.accepted", accepted), attribute.Int64("items.rejected", rejected))
	s.log.InfoContext(ctx, "items created", "accepted", accepted, "rejected", rejected)
	return results
}

// List returns every item in insertion order, or domain.ErrNoItems.
func (s *ItemService) List(ctx context.Context) (_ []*models.Item, err error) {
	_, span := startSpan(ctx, "ItemService.List")
	defer func() { endSpan(span, err) }()

	items, err := s.store.ListItems()
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Get returns the item with id, or domain.ErrItemNotFound.
func (s *ItemService) Get(ctx context.Context, id string) (_ *models.Item, err error) {
	_, span := startSpan(ctx, "ItemService.Get", attribute.String("item.id", id))
	defer func() { endSpan(span, err) }()

	item, err := s.store.GetItem(id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// Update shallow-merges patch into the item and returns the stored result.
func (s *ItemService) Update(ctx context.Context, id string, patch models.Patch) (_ *models.Item, err error) {
	ctx, span := startSpan(ctx, "ItemService.Update", attribute.String("item.id", id))
	defer func() { endSpan(span, err) }()

	var item *models.Item
	seq := s.events.seq.apply(func() int {
		item, err = s.store.UpdateItem(id, patch)
		if err != nil {
			return 0
		}
		return 1
	})
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	s.metrics.mutation(ctx, "item", "update", 1)
	s.events.publish(ctx, domainevents.TopicItemUpdated, seq, id, item)
	s.log.InfoContext(ctx, "item updated", "item_id", id, "fields", len(patch))
	return item, nil
}

// Delete removes the item. Users that reference it are left unchanged.
func (s *ItemService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := startSpan(ctx, "ItemService.Delete", attribute.String("item.id", id))
	defer func() { endSpan(span, err) }()

	seq := s.events.seq.apply(func() int {
		if err = s.store.DeleteItem(id); err != nil {
			return 0
		}
		return 1
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	s.metrics.mutation(ctx, "item", "delete", 1)
	s.events.publish(ctx, domainevents.TopicItemDeleted, seq, id, nil)
	s.log.InfoContext(ctx, "item deleted", "item_id", id)
	return nil
}
