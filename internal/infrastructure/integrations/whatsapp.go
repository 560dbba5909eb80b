package integrations

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/repairpos/backend/internal/domain/integration"
)

type whatsAppText struct {
	Body string `json:"body"`
}

type whatsAppMessage struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Text             whatsAppText `json:"text"`
}

type whatsAppResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendWhatsApp sends a text message through the Cloud API phone number of the tenant
func (c *Client) SendWhatsApp(ctx context.Context, cfg *integration.Config, to, body string) (string, error) {
	phoneID := cfg.Setting("phone_number_id", "")
	if phoneID == "" {
		return "", invalidRequest("phone_number_id setting is required")
	}
	msg := whatsAppMessage{
		MessagingProduct: "whatsapp",
		To:               normalizePhone(to),
		Type:             "text",
		Text:             whatsAppText{Body: body},
	}
	var out whatsAppResponse
	if _, err := c.doJSON(ctx, cfg, http.MethodPost, phoneID+"/messages", msg, &out); err != nil {
		return "", err
	}
	if len(out.Messages) == 0 {
		return "", fmt.Errorf("%w: response has no message id", integration.ErrProviderRequestFailed)
	}
	return out.Messages[0].ID, nil
}

// normalizePhone keeps the digits of a phone number; the Cloud API wants E.164 without "+"
func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
