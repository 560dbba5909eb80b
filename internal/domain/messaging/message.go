package messaging

import (
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// Channel is the medium a message travels through
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
)

func (c Channel) IsValid() bool {
	return c == ChannelWhatsApp || c == ChannelSMS || c == ChannelEmail
}

type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionInbound  Direction = "inbound"
)

// Status is the delivery state of a message
type Status string

const (
	StatusQueued Status = "queued"
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// MessageLog is the record of a message sent to or received from a customer
type MessageLog struct {
	shared.TenantAggregateRoot
	Channel           Channel    `gorm:"type:varchar(20);not null;index"`
	Direction         Direction  `gorm:"type:varchar(10);not null"`
	Recipient         string     `gorm:"type:varchar(200);not null"`
	Body              string     `gorm:"type:text;not null"`
	Template          string     `gorm:"type:varchar(100)"`
	Status            Status     `gorm:"type:varchar(20);not null;index"`
	ProviderMessageID string     `gorm:"type:varchar(200)"`
	Error             string     `gorm:"type:text"`
	RelatedType       string     `gorm:"type:varchar(30)"`
	RelatedID         *uuid.UUID `gorm:"type:uuid;index"`
}

func (MessageLog) TableName() string {
	return "message_logs"
}

// Related links a message to a business document
type Related struct {
	Type string
	ID   *uuid.UUID
}

// NewOutbound queues a message to recipient
func NewOutbound(tenantID uuid.UUID, channel Channel, recipient, body, template string, related Related) (*MessageLog, error) {
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Unknown channel: "+string(channel))
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, shared.NewDomainError("RECIPIENT_REQUIRED", "Recipient is required")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Message body is required")
	}
	if len(body) > 4096 {
		return nil, shared.NewDomainError("INVALID_BODY", "Message body cannot exceed 4096 characters")
	}
	return &MessageLog{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Channel:             channel,
		Direction:           DirectionOutbound,
		Recipient:           recipient,
		Body:                body,
		Template:            template,
		Status:              StatusQueued,
		RelatedType:         related.Type,
		RelatedID:           related.ID,
	}, nil
}

// MarkSent records the provider acceptance
func (m *MessageLog) MarkSent(providerID string) {
	m.Status = StatusSent
	m.ProviderMessageID = providerID
	m.Error = ""
	m.IncrementVersion()
}

// MarkFailed records the delivery error
func (m *MessageLog) MarkFailed(err error) {
	m.Status = StatusFailed
	if err != nil {
		m.Error = err.Error()
	}
	m.IncrementVersion()
}
