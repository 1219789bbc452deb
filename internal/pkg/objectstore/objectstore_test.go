package objectstore

import (
	"context"
	"strings"
	"testing"
	"time"

	appconfig "github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPresigner(t *testing.T) *Presigner {
	t.Helper()
	p, err := NewPresigner(context.Background(), appconfig.S3Config{
		Region:          "us-east-1",
		Bucket:          "startupdeck",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		PathStyle:       true,
		PresignTTL:      5 * time.Minute,
	})
	require.NoError(t, err)
	return p
}

func TestResolveS3(t *testing.T) {
	p := newTestPresigner(t)
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	u, expires, err := p.Resolve(context.Background(), "s3://startupdeck/decks/buffer.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/startupdeck/decks/buffer.pdf?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=300")
	assert.Equal(t, fixed.Add(5*time.Minute), expires)
}

func TestResolvePassThrough(t *testing.T) {
	var p *Presigner
	u, expires, err := p.Resolve(context.Background(), " https://s3.amazonaws.com/startupdeck/notion.pdf ")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.amazonaws.com/startupdeck/notion.pdf", u)
	assert.True(t, expires.IsZero())
}

func TestResolveErrors(t *testing.T) {
	var unset *Presigner
	_, _, err := unset.Resolve(context.Background(), "s3://bucket/key.pdf")
	assert.ErrorIs(t, err, ErrNotConfigured)

	p := newTestPresigner(t)
	_, _, err = p.Resolve(context.Background(), "ftp://host/file.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedLocation)

	_, _, err = p.Resolve(context.Background(), "s3://bucket/")
	assert.ErrorIs(t, err, ErrUnsupportedLocation)
}
