package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/inventory/pkg/logger"
	domainevents "github.com/ghuser/inventory/services/inventory/domain/events"
	"github.com/ghuser/inventory/services/inventory/domain/models"
)

const instrumentationName = "github.com/ghuser/inventory/services/inventory"

// Publisher delivers lifecycle events. *events.EventBus satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// sequencer numbers store mutations in the order they were applied. Every
// mutating store call runs under mu, so the numbers follow the store's order
// even though events are published after the call returns.
type sequencer struct {
	mu   sync.Mutex
	last uint64
}

// apply runs fn under the sequencer lock. fn reports how many entities it
// mutated; apply reserves that many consecutive numbers and returns the first.
func (q *sequencer) apply(fn func() int) uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	first := q.last + 1
	q.last += uint64(fn())
	return first
}

// eventPublisher turns store mutations into lifecycle events. Publish failures
// are logged and never surface to the caller: the mutation has already happened.
type eventPublisher struct {
	pub Publisher
	log logger.Logger
	seq sequencer
}

func (p *eventPublisher) publish(ctx context.Context, topic string, seq uint64, entityID string, snapshot any) {
	if p.pub == nil {
		return
	}
	if err := p.send(ctx, topic, seq, entityID, snapshot); err != nil {
		p.log.WarnContext(ctx, "failed to publish event",
			"topic", topic, "entity_id", entityID, "sequence", seq, "error", err)
	}
}

func (p *eventPublisher) send(ctx context.Context, topic string, seq uint64, entityID string, snapshot any) error {
	event, err := domainevents.NewEntityEvent(seq, entityID, snapshot)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", strconv.Itoa(event.Version))
	msg.Metadata.Set("event_sequence", strconv.FormatUint(event.Sequence, 10))
	return p.pub.Publish(ctx, topic, msg)
}

// instruments are the OTel counters exported on /metrics.
type instruments struct {
	itemsCreated  metric.Int64Counter
	itemsRejected metric.Int64Counter
	usersCreated  metric.Int64Counter
	usersRejected metric.Int64Counter
	mutations     metric.Int64Counter
}

func newInstruments() *instruments {
	meter := otel.Meter(instrumentationName)
	return &instruments{
		itemsCreated:  counter(meter, "inventory.items.created", "Items accepted by create requests"),
		itemsRejected: counter(meter, "inventory.items.rejected", "Item candidates rejected by create requests"),
		usersCreated:  counter(meter, "inventory.users.created", "Users accepted by create requests"),
		usersRejected: counter(meter, "inventory.users.rejected", "User candidates rejected by create requests"),
		mutations:     counter(meter, "inventory.mutations", "Successful store mutations by entity and op"),
	}
}

// counter returns a no-op counter if the meter rejects the instrument.
func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		otel.Handle(err)
	}
	return c
}

func countAccepted(results []models.Result) int {
	n := 0
	for _, res := range results {
		if res.Success {
			n++
		}
	}
	return n
}

func (m *instruments) mutation(ctx context.Context, entity, op string, n int64) {
	if n == 0 {
		return
	}
	m.mutations.Add(ctx, n, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("op", op),
	))
}

var tracer = otel.Tracer(instrumentationName)

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
