package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func TestConfig(t *testing.T) {
	_, err := NewConfig(tenantID, "telegram")
	assert.Equal(t, "INVALID_PROVIDER", shared.ErrorCode(err))

	c, err := NewConfig(tenantID, ProviderWhatsApp)
	require.NoError(t, err)
	assert.Equal(t, "CREDENTIALS_REQUIRED", shared.ErrorCode(c.SetEnabled(true)))

	assert.Equal(t, "INVALID_SETTINGS", shared.ErrorCode(c.Update(map[string]interface{}{"base_url": "ftp://x"}, "")))
	require.NoError(t, c.Update(map[string]interface{}{"phone_number_id": "1234"}, " tok "))
	assert.Equal(t, "tok", c.AccessToken)
	assert.Equal(t, "1234", c.Setting("phone_number_id", ""))
	assert.Equal(t, "def", c.Setting("missing", "def"))

	require.NoError(t, c.Update(nil, ""))
	assert.Equal(t, "tok", c.AccessToken, "empty token keeps the stored one")
	require.NoError(t, c.SetEnabled(true))
	assert.True(t, c.Enabled)
}
