package messaging

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func TestNewOutbound(t *testing.T) {
	m, err := NewOutbound(tenantID, ChannelWhatsApp, " 5511999998888 ", "hi", "", Related{})
	require.NoError(t, err)
	assert.Equal(t, "5511999998888", m.Recipient)
	assert.Equal(t, StatusQueued, m.Status)
	assert.Equal(t, DirectionOutbound, m.Direction)

	m.MarkFailed(errors.New("provider down"))
	assert.Equal(t, StatusFailed, m.Status)
	assert.Equal(t, "provider down", m.Error)
	m.MarkSent("wamid.1")
	assert.Equal(t, StatusSent, m.Status)
	assert.Empty(t, m.Error)

	_, err = NewOutbound(tenantID, "pigeon", "x", "hi", "", Related{})
	assert.Equal(t, "INVALID_CHANNEL", shared.ErrorCode(err))
	_, err = NewOutbound(tenantID, ChannelSMS, "", "hi", "", Related{})
	assert.Equal(t, "RECIPIENT_REQUIRED", shared.ErrorCode(err))
	_, err = NewOutbound(tenantID, ChannelSMS, "1", " ", "", Related{})
	assert.Equal(t, "INVALID_BODY", shared.ErrorCode(err))
}

func TestRender(t *testing.T) {
	body, err := Render(TemplateServiceOrderReady, map[string]string{
		"CustomerName": "Ana", "Device": "Apple iPhone 12", "Number": "OS-20260310-0001", "ShopName": "Fix Shop",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ana! Your Apple iPhone 12 (service order OS-20260310-0001) is ready for pickup at Fix Shop.", body)

	_, err = Render("missing", nil)
	assert.Equal(t, "TEMPLATE_NOT_FOUND", shared.ErrorCode(err))
}
