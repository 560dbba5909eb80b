package messaging

import (
	"context"
	"fmt"

	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/messaging"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RelatedServiceOrder is the related type of service order notices
const RelatedServiceOrder = "service_order"

// ReadyNotificationHandler tells the customer over WhatsApp that a device is ready for pickup
type ReadyNotificationHandler struct {
	messages     *MessageService
	customerRepo crm.CustomerRepository
	shopName     string
	logger       *zap.Logger
}

func NewReadyNotificationHandler(messages *MessageService, customerRepo crm.CustomerRepository, shopName string, logger *zap.Logger) *ReadyNotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadyNotificationHandler{messages: messages, customerRepo: customerRepo, shopName: shopName, logger: logger}
}

func (h *ReadyNotificationHandler) EventTypes() []string {
	return []string{repair.EventTypeServiceOrderStatusChanged}
}

func (h *ReadyNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*repair.ServiceOrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	if e.ToStatus != repair.StatusReady {
		return nil
	}
	enabled, err := h.messages.WhatsAppEnabled(ctx, e.TenantID())
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	customer, err := h.customerRepo.FindByID(ctx, e.TenantID(), e.CustomerID)
	if err != nil {
		return err
	}
	to := customer.NotificationNumber()
	if to == "" {
		h.logger.Info("Customer has no phone, ready notice skipped",
			zap.String("service_order", e.Number),
			zap.String("customer_id", e.CustomerID.String()))
		return nil
	}
	id := e.AggregateID()
	resp, err := h.messages.Send(ctx, e.TenantID(), SendMessageRequest{
		Channel:   string(messaging.ChannelWhatsApp),
		Recipient: to,
		Template:  messaging.TemplateServiceOrderReady,
		Data: map[string]string{
			"CustomerName": customer.Name,
			"Device":       e.Device,
			"Number":       e.Number,
			"ShopName":     h.shopName,
		},
		RelatedType: RelatedServiceOrder,
		RelatedID:   &id,
	})
	if err != nil {
		return err
	}
	h.logger.Info("Ready notice sent",
		zap.String("service_order", e.Number),
		zap.String("message_id", resp.ID.String()),
		zap.String("status", resp.Status))
	return nil
}
