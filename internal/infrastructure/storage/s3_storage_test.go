package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/repairpos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func localConfig() config.StorageConfig {
	return config.StorageConfig{
		Enabled:         true,
		Bucket:          "repair-photos",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		UsePathStyle:    true,
	}
}

func TestNewS3ObjectStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket is required", func(t *testing.T) {
		cfg := localConfig()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("keys come in pairs", func(t *testing.T) {
		cfg := localConfig()
		cfg.SecretAccessKey = ""
		_, err := NewS3ObjectStorage(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("defaults the presign ttl", func(t *testing.T) {
		s, err := NewS3ObjectStorage(ctx, localConfig(), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "repair-photos", s.Bucket())
		assert.Equal(t, 15*time.Minute, s.defaultTTL)
	})
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	ctx := context.Background()
	cfg := localConfig()
	cfg.PresignTTL = 5 * time.Minute
	s, err := NewS3ObjectStorage(ctx, cfg)
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	t.Run("presigns a path style url", func(t *testing.T) {
		url, expiresAt, err := s.GenerateDownloadURL(ctx, "tenant/service-orders/order/photo.jpg", 0)
		require.NoError(t, err)
		assert.Contains(t, url, "http://localhost:9000/repair-photos/tenant/service-orders/order/photo.jpg")
		assert.Contains(t, url, "X-Amz-Expires=300")
		assert.Equal(t, now.Add(5*time.Minute), expiresAt)
	})

	t.Run("explicit expiry", func(t *testing.T) {
		url, expiresAt, err := s.GenerateDownloadURL(ctx, "a.png", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "X-Amz-Expires=3600")
		assert.Equal(t, now.Add(time.Hour), expiresAt)
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := s.GenerateDownloadURL(ctx, "", 0)
		assert.ErrorIs(t, err, errEmptyKey)
	})
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	ctx := context.Background()
	s, err := NewS3ObjectStorage(ctx, localConfig())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Upload(ctx, "", []byte("x"), "image/png"), errEmptyKey)
	assert.ErrorIs(t, s.DeleteObject(ctx, ""), errEmptyKey)
}

// Runs against a local MinIO when STORAGE_TEST_ENDPOINT is set
func TestS3ObjectStorage_RoundTrip(t *testing.T) {
	endpoint := os.Getenv("STORAGE_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("STORAGE_TEST_ENDPOINT not set")
	}
	ctx := context.Background()
	cfg := localConfig()
	cfg.Endpoint = endpoint
	s, err := NewS3ObjectStorage(ctx, cfg)
	require.NoError(t, err)
	require.NoError(t, s.EnsureBucket(ctx))

	key := "roundtrip/photo.png"
	require.NoError(t, s.Upload(ctx, key, []byte("png"), "image/png"))
	url, _, err := s.GenerateDownloadURL(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	require.NoError(t, s.DeleteObject(ctx, key))
}
