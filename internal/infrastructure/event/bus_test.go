package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())}
}

type recordingHandler struct {
	types   []string
	handled []string
	err     error
	panics  bool
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.handled = append(h.handled, e.EventType())
	return h.err
}

func TestPublishRoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	sales := &recordingHandler{types: []string{"SaleCompleted"}}
	all := &recordingHandler{}
	bus.Subscribe(sales)
	bus.Subscribe(all)

	err := bus.Publish(context.Background(), newTestEvent("SaleCompleted"), newTestEvent("ProductPriceChanged"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"SaleCompleted"}, sales.handled)
	assert.Equal(t, []string{"SaleCompleted", "ProductPriceChanged"}, all.handled)
}

func TestExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"A"}}
	bus.Subscribe(h, "B")

	_ = bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B"))
	assert.Equal(t, []string{"B"}, h.handled)
}

func TestHandlerFailuresAreLoggedOnly(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))
	failing := &recordingHandler{types: []string{"X"}, err: errors.New("db down")}
	panicking := &recordingHandler{types: []string{"X"}, panics: true}
	after := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(after)

	err := bus.Publish(context.Background(), newTestEvent("X"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"X"}, after.handled)
	assert.Equal(t, 2, logs.FilterMessage("Event handler failed").Len())
}

func TestUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	_ = bus.Publish(context.Background(), newTestEvent("X"))
	assert.Empty(t, h.handled)
}
