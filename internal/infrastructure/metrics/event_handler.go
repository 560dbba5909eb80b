package metrics

import (
	"context"
	"fmt"

	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
)

// EventRecorder counts sales and service order transitions from the event bus
type EventRecorder struct {
	m *BusinessMetrics
}

func NewEventRecorder(m *BusinessMetrics) *EventRecorder {
	return &EventRecorder{m: m}
}

func (r *EventRecorder) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCompleted,
		sales.EventTypeSaleReturned,
		repair.EventTypeServiceOrderStatusChanged,
	}
}

func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.SaleCompletedEvent:
		branch := e.BranchID.String()
		r.m.SalesTotal.WithLabelValues(branch).Inc()
		r.m.SalesAmount.WithLabelValues(branch).Add(e.Total.InexactFloat64())
	case *sales.SaleReturnedEvent:
		r.m.SaleReturnsTotal.Inc()
	case *repair.ServiceOrderStatusChangedEvent:
		r.m.ServiceOrderTransition.WithLabelValues(string(e.ToStatus)).Inc()
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}
