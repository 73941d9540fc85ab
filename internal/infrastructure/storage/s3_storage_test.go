package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sickfits/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func validConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:            "sickfits-images",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		Region:            "us-east-1",
		Endpoint:          "http://localhost:9000",
		UsePathStyle:      true,
		PresignExpiration: 10 * time.Minute,
	}
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ImageStorage(ctx, nil)
		assert.ErrorContains(t, err, "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := validConfig()
		cfg.Bucket = ""
		_, err := NewS3ImageStorage(ctx, cfg)
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := validConfig()
		cfg.AccessKey = ""
		_, err := NewS3ImageStorage(ctx, cfg)
		assert.ErrorContains(t, err, "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := validConfig()
		cfg.SecretKey = ""
		_, err := NewS3ImageStorage(ctx, cfg)
		assert.ErrorContains(t, err, "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		s, err := NewS3ImageStorage(ctx, validConfig())
		require.NoError(t, err)
		assert.Equal(t, "sickfits-images", s.Bucket())
		assert.Equal(t, 10*time.Minute, s.presignExpiration)
	})

	t.Run("default presign expiration is 15 minutes", func(t *testing.T) {
		cfg := validConfig()
		cfg.PresignExpiration = 0
		s, err := NewS3ImageStorage(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})

	t.Run("options override config", func(t *testing.T) {
		logger := zaptest.NewLogger(t)
		s, err := NewS3ImageStorage(ctx, validConfig(), WithLogger(logger), WithPresignExpiration(time.Minute))
		require.NoError(t, err)
		assert.Equal(t, logger, s.logger)
		assert.Equal(t, time.Minute, s.presignExpiration)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("localhost:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", got)

	got, err = normalizeEndpoint("s3.example.com/", true)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com", got)

	got, err = normalizeEndpoint("", false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", got)
}

func TestS3ImageStorage_GenerateUploadURL(t *testing.T) {
	ctx := context.Background()
	s, err := NewS3ImageStorage(ctx, validConfig())
	require.NoError(t, err)

	t.Run("empty storage key returns error", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "image/png", time.Minute)
		assert.ErrorContains(t, err, "storage key is required")
	})

	t.Run("generates presigned PUT URL", func(t *testing.T) {
		u, expiresAt, err := s.GenerateUploadURL(ctx, "items/u/abc-shirt.png", "image/png", 5*time.Minute)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(u, "http://localhost:9000/sickfits-images/items/u/abc-shirt.png"))
		assert.Contains(t, u, "X-Amz-Signature")
		assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)
	})

	t.Run("falls back to configured expiration", func(t *testing.T) {
		_, expiresAt, err := s.GenerateUploadURL(ctx, "items/u/x.png", "image/png", 0)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)
	})
}

func TestS3ImageStorage_PublicURL(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to path-style endpoint URL", func(t *testing.T) {
		s, err := NewS3ImageStorage(ctx, validConfig())
		require.NoError(t, err)

		u := s.PublicURL("items/u/abc.png")
		assert.Equal(t, "http://localhost:9000/sickfits-images/items/u/abc.png", u)

		key, ok := s.StorageKey(u + "?w=600")
		assert.True(t, ok)
		assert.Equal(t, "items/u/abc.png", key)
	})

	t.Run("uses the public base URL when set", func(t *testing.T) {
		cfg := validConfig()
		cfg.PublicBaseURL = "https://cdn.example.com/"
		s, err := NewS3ImageStorage(ctx, cfg)
		require.NoError(t, err)

		assert.Equal(t, "https://cdn.example.com/items/a.png", s.PublicURL("items/a.png"))
	})

	t.Run("foreign URLs are not ours", func(t *testing.T) {
		s, err := NewS3ImageStorage(ctx, validConfig())
		require.NoError(t, err)

		_, ok := s.StorageKey("https://res.cloudinary.com/demo/image/upload/shirt.jpg")
		assert.False(t, ok)
		_, ok = s.StorageKey("http://localhost:9000/sickfits-images/")
		assert.False(t, ok)
	})
}
