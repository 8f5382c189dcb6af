package services

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/inventory/pkg/logger"
	"github.com/ghuser/inventory/services/inventory/domain"
	domainevents "github.com/ghuser/inventory/services/inventory/domain/events"
	"github.com/ghuser/inventory/services/inventory/domain/models"
	"github.com/ghuser/inventory/services/inventory/infrastructure/persistence/memory"
)

type published struct {
	topic string
	event domainevents.EntityEvent
	meta  message.Metadata
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []published
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	for _, msg := range msgs {
		var evt domainevents.EntityEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		p.sent = append(p.sent, published{topic: topic, event: evt, meta: msg.Metadata})
	}
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sent))
	for i, s := range p.sent {
		out[i] = s.topic
	}
	return out
}

func newTestServices(t *testing.T) (*Services, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	return NewServices(memory.NewStore(), pub, logger.Nop()), pub
}

func batch(t *testing.T, body string) models.Batch {
	t.Helper()
	var b models.Batch
	require.NoError(t, json.Unmarshal([]byte(body), &b))
	return b
}

func TestItemService_CreatePublishesPerAcceptedItem(t *testing.T) {
	svcs, pub := newTestServices(t)
	ctx := context.Background()

	results := svcs.Item.Create(ctx, batch(t, `[
		{"id":"item1","name":"Health Potion","type":"Consumable","effect":"Restores 50 HP"},
		{"id":"item2","name":"Sword"},
		{"id":"item1","name":"Dup","type":"x","effect":"y"}
	]`))

	require.Len(t, results, 3)
	assert.True(t, results[0].Success)
	assert.Equal(t, "Missing required fields", results[1].Message)
	assert.Equal(t, "Item with ID item1 already exists", results[2].Message)

	require.Equal(t, []string{domainevents.TopicItemCreated}, pub.topics())
	evt := pub.sent[0].event
	assert.Equal(t, "item1", evt.EntityID)
	assert.Equal(t, domainevents.SchemaVersion, evt.Version)
	assert.Equal(t, evt.EventID.String(), pub.sent[0].meta.Get("event_id"))
	assert.JSONEq(t, `{"id":"item1","name":"Health Potion","type":"Consumable","effect":"Restores 50 HP"}`, string(evt.Snapshot))
}

func TestItemService_UpdateAndDeletePublish(t *testing.T) {
	svcs, pub := newTestServices(t)
	ctx := context.Background()
	svcs.Item.Create(ctx, batch(t, `{"id":"item1","name":"Health Potion","type":"Consumable","effect":"Restores 50 HP"}`))

	item, err := svcs.Item.Update(ctx, "item1", models.Patch{"effect": json.RawMessage(`"Restores 75 HP"`)})
	require.NoError(t, err)
	assert.Equal(t, "Restores 75 HP", item.Effect)

	require.NoError(t, svcs.Item.Delete(ctx, "item1"))

	assert.Equal(t, []string{
		domainevents.TopicItemCreated,
		domainevents.TopicItemUpdated,
		domainevents.TopicItemDeleted,
	}, pub.topics())
	assert.Empty(t, pub.sent[2].event.Snapshot)
}

func TestItemService_FailedMutationsDoNotPublish(t *testing.T) {
	svcs, pub := newTestServices(t)
	ctx := context.Background()

	_, err := svcs.Item.Update(ctx, "missing", models.Patch{})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.ErrorIs(t, svcs.Item.Delete(ctx, "missing"), domain.ErrItemNotFound)

	_, err = svcs.Item.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	_, err = svcs.Item.List(ctx)
	assert.ErrorIs(t, err, domain.ErrNoItems)

	assert.Empty(t, pub.topics())
}

func TestItemService_PublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus down")}
	svcs := NewServices(memory.NewStore(), pub, logger.Nop())
	ctx := context.Background()

	results := svcs.Item.Create(ctx, batch(t, `{"id":"item1","name":"a","type":"b","effect":"c"}`))
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)

	require.NoError(t, svcs.Item.Delete(ctx, "item1"))
}

func TestServices_NilPublisher(t *testing.T) {
	svcs := NewServices(memory.NewStore(), nil, logger.Nop())
	ctx := context.Background()

	results := svcs.User.Create(ctx, batch(t, `{"id":"user1","name":"John","email":"john@x.com"}`))
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestUserService_Lifecycle(t *testing.T) {
	svcs, pub := newTestServices(t)
	ctx := context.Background()

	svcs.Item.Create(ctx, batch(t, `[
		{"id":"item1","name":"Health Potion","type":"Consumable","effect":"Restores 50 HP"},
		{"id":"item2","name":"Sword","type":"Weapon","effect":"+10 ATK"}
	]`))
	results := svcs.User.Create(ctx, batch(t, `{"id":"user1","name":"John","email":"john@x.com","items":["item1"]}`))
	require.Len(t, results, 1)
	assert.Equal(t, "User user1 added successfully", results[0].Message)

	user, err := svcs.User.Get(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, user.Items, 1)
	assert.Equal(t, "Health Potion", user.Items[0].Name)

	_, err = svcs.User.Update(ctx, "user1", models.Patch{"items": json.RawMessage(`["item1","item9"]`)})
	var ie *domain.InvalidItemsError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []string{"item9"}, ie.IDs)

	updated, err := svcs.User.Update(ctx, "user1", models.Patch{"items": json.RawMessage(`["item2"]`)})
	require.NoError(t, err)
	assert.Equal(t, []string{"item2"}, updated.Items)

	user, err = svcs.User.Get(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "Sword", user.Items[0].Name)

	results = svcs.User.Create(ctx, batch(t, `{"id":"user2","name":"Jane","email":"jane@x.com","items":["item7"]}`))
	assert.Equal(t, "Invalid items: item7", results[0].Message)

	users, err := svcs.User.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, svcs.User.Delete(ctx, "user1"))
	_, err = svcs.User.List(ctx)
	assert.ErrorIs(t, err, domain.ErrNoUsers)

	assert.Equal(t, []string{
		domainevents.TopicItemCreated,
		domainevents.TopicItemCreated,
		domainevents.TopicUserCreated,
		domainevents.TopicUserUpdated,
		domainevents.TopicUserDeleted,
	}, pub.topics())

	var snap map[string]any
	require.NoError(t, json.Unmarshal(pub.sent[3].event.Snapshot, &snap))
	assert.Equal(t, []any{"item2"}, snap["items"], "user snapshots carry item ids, not resolved items")
}

func TestEvents_SequenceFollowsStoreOrder(t *testing.T) {
	svcs, pub := newTestServices(t)
	ctx := context.Background()

	results := svcs.Item.Create(ctx, batch(t, `[
		{"id":"item1","name":"Health Potion","type":"Consumable","effect":"Restores 50 HP"},
		{"id":"bad"},
		{"id":"item2","name":"Sword","type":"Weapon","effect":"Slash"}
	]`))
	require.Len(t, results, 3)

	const writers = 20
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svcs.Item.Update(ctx, "item1", models.Patch{"effect": json.RawMessage(fmt.Sprintf("%q", fmt.Sprint("effect-", i)))})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	pub.mu.Lock()
	sent := slices.Clone(pub.sent)
	pub.mu.Unlock()
	require.Len(t, sent, 2+writers)

	slices.SortFunc(sent, func(a, b published) int {
		return cmp.Compare(a.event.Sequence, b.event.Sequence)
	})
	for i, s := range sent {
		assert.Equal(t, uint64(i+1), s.event.Sequence, "sequences are dense and unique")
		assert.Equal(t, strconv.FormatUint(s.event.Sequence, 10), s.meta.Get("event_sequence"))
	}
	assert.Equal(t, "item1", sent[0].event.EntityID)
	assert.Equal(t, "item2", sent[1].event.EntityID)

	stored, err := svcs.Item.Get(ctx, "item1")
	require.NoError(t, err)
	var last models.Item
	require.NoError(t, json.Unmarshal(sent[len(sent)-1].event.Snapshot, &last))
	assert.Equal(t, stored.Effect, last.Effect, "highest sequence carries the state the store kept")
}

func TestEvents_FailedMutationReservesNoSequence(t *testing.T) {
	svcs, pub := newTestServices(t)
	ctx := context.Background()

	svcs.Item.Create(ctx, batch(t, `{"id":"item1","name":"n","type":"t","effect":"e"}`))
	require.ErrorIs(t, svcs.Item.Delete(ctx, "missing"), domain.ErrItemNotFound)
	require.NoError(t, svcs.Item.Delete(ctx, "item1"))

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.sent, 2)
	assert.Equal(t, uint64(1), pub.sent[0].event.Sequence)
	assert.Equal(t, uint64(2), pub.sent[1].event.Sequence)
}
