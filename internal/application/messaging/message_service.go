// Package messaging sends customer messages through the configured providers and keeps a log of them.
package messaging

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/integration"
	"github.com/repairpos/backend/internal/domain/messaging"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrNoProvider is recorded on messages whose channel has no provider
var ErrNoProvider = shared.NewDomainError("NO_PROVIDER", "No provider is available for this channel")

// MessageService sends and lists messages
type MessageService struct {
	repo    messaging.MessageRepository
	configs integration.ConfigRepository
	gateway integration.Gateway
	logger  *zap.Logger
}

func NewMessageService(repo messaging.MessageRepository, configs integration.ConfigRepository, gateway integration.Gateway, logger *zap.Logger) *MessageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{repo: repo, configs: configs, gateway: gateway, logger: logger}
}

// Send logs the message and delivers it. A delivery failure is stored on the
// log with status failed and is not returned as an error.
func (s *MessageService) Send(ctx context.Context, tenantID uuid.UUID, req SendMessageRequest) (*MessageResponse, error) {
	body := req.Body
	if strings.TrimSpace(body) == "" && req.Template != "" {
		rendered, err := messaging.Render(req.Template, req.Data)
		if err != nil {
			return nil, err
		}
		body = rendered
	}
	m, err := messaging.NewOutbound(tenantID, messaging.Channel(req.Channel), req.Recipient, body, req.Template,
		messaging.Related{Type: req.RelatedType, ID: req.RelatedID})
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	providerID, sendErr := s.deliver(ctx, m)
	if sendErr != nil {
		m.MarkFailed(sendErr)
		s.logger.Warn("Message delivery failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("message_id", m.ID.String()),
			zap.String("channel", string(m.Channel)),
			zap.Error(sendErr))
	} else {
		m.MarkSent(providerID)
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := toMessageResponse(m)
	return &resp, nil
}

func (s *MessageService) deliver(ctx context.Context, m *messaging.MessageLog) (string, error) {
	if m.Channel != messaging.ChannelWhatsApp {
		return "", ErrNoProvider
	}
	cfg, err := s.configs.FindByProvider(ctx, m.TenantID, integration.ProviderWhatsApp)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", integration.ErrNotEnabled
		}
		return "", err
	}
	if !cfg.Enabled {
		return "", integration.ErrNotEnabled
	}
	return s.gateway.SendWhatsApp(ctx, cfg, m.Recipient, m.Body)
}

func (s *MessageService) Get(ctx context.Context, tenantID, id uuid.UUID) (*MessageResponse, error) {
	m, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toMessageResponse(m)
	return &resp, nil
}

func (s *MessageService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[MessageResponse], error) {
	filter.Normalize()
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]MessageResponse, len(rows))
	for i := range rows {
		items[i] = toMessageResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// WhatsAppEnabled reports whether the tenant can send WhatsApp messages
func (s *MessageService) WhatsAppEnabled(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	cfg, err := s.configs.FindByProvider(ctx, tenantID, integration.ProviderWhatsApp)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return cfg.Enabled, nil
}
