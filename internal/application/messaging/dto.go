package messaging

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/messaging"
)

// SendMessageRequest sends a message. Body may be omitted when Template is set; Data fills the template.
type SendMessageRequest struct {
	Channel     string            `json:"channel" binding:"required,oneof=whatsapp sms email"`
	Recipient   string            `json:"recipient" binding:"required,max=200"`
	Body        string            `json:"body" binding:"max=4096"`
	Template    string            `json:"template" binding:"max=100"`
	Data        map[string]string `json:"data"`
	RelatedType string            `json:"related_type" binding:"max=30"`
	RelatedID   *uuid.UUID        `json:"related_id"`
}

type MessageResponse struct {
	ID                uuid.UUID  `json:"id"`
	Channel           string     `json:"channel"`
	Direction         string     `json:"direction"`
	Recipient         string     `json:"recipient"`
	Body              string     `json:"body"`
	Template          string     `json:"template,omitempty"`
	Status            string     `json:"status"`
	ProviderMessageID string     `json:"provider_message_id,omitempty"`
	Error             string     `json:"error,omitempty"`
	RelatedType       string     `json:"related_type,omitempty"`
	RelatedID         *uuid.UUID `json:"related_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func toMessageResponse(m *messaging.MessageLog) MessageResponse {
	return MessageResponse{
		ID:                m.ID,
		Channel:           string(m.Channel),
		Direction:         string(m.Direction),
		Recipient:         m.Recipient,
		Body:              m.Body,
		Template:          m.Template,
		Status:            string(m.Status),
		ProviderMessageID: m.ProviderMessageID,
		Error:             m.Error,
		RelatedType:       m.RelatedType,
		RelatedID:         m.RelatedID,
		CreatedAt:         m.CreatedAt,
	}
}
