package storage

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendflow/internal/config"
)

func TestDocumentKey(t *testing.T) {
	key := DocumentKey(7, "PAN_CARD", `C:\scans\pan.pdf`)

	assert.True(t, strings.HasPrefix(key, "documents/7/pan_card/"))
	assert.True(t, strings.HasSuffix(key, "-pan.pdf"))
	assert.NotEqual(t, key, DocumentKey(7, "PAN_CARD", `C:\scans\pan.pdf`))

	assert.True(t, strings.HasSuffix(DocumentKey(1, "OTHER", ""), "-file"))
}

func TestMemory_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemory("http://localhost:8080", []byte("secret"))

	info, err := s.Put(ctx, "documents/1/x", bytes.NewBufferString("hello"), PutObjectOptions{Size: 5, ContentType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), info.Size)
	assert.NotEmpty(t, info.ETag)

	rc, got, err := s.Get(ctx, "documents/1/x")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "text/plain", got.ContentType)

	link, err := s.PresignGet(ctx, "documents/1/x", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, link, "key=documents%2F1%2Fx")

	require.NoError(t, s.Delete(ctx, "documents/1/x"))
	_, _, err = s.Get(ctx, "documents/1/x")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	_, err = s.PresignGet(ctx, "documents/1/x", time.Minute)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMemory_SignedLinks(t *testing.T) {
	ctx := context.Background()
	s := NewMemory("http://localhost:8080", []byte("secret"))
	_, err := s.Put(ctx, "documents/1/x", bytes.NewBufferString("hello"), PutObjectOptions{Size: 5})
	require.NoError(t, err)

	link, err := s.PresignGet(ctx, "documents/1/x", time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	require.NotEmpty(t, q.Get("sig"))

	assert.True(t, s.VerifyLink(q.Get("key"), q.Get("expires"), q.Get("sig")))
	assert.False(t, s.VerifyLink(q.Get("key"), "2099-01-01T00:00:00Z", q.Get("sig")))
	assert.False(t, s.VerifyLink("documents/2/y", q.Get("expires"), q.Get("sig")))
	assert.False(t, s.VerifyLink(q.Get("key"), q.Get("expires"), "not-hex"))

	other := NewMemory("http://localhost:8080", []byte("other"))
	assert.False(t, other.VerifyLink(q.Get("key"), q.Get("expires"), q.Get("sig")))
}

func TestNewMinIO_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		msg  string
	}{
		{"endpoint", config.MinIOConfig{}, "endpoint"},
		{"credentials", config.MinIOConfig{Endpoint: "minio:9000"}, "credentials"},
		{"bucket", config.MinIOConfig{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b"}, "bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(context.Background(), tt.cfg)
			assert.ErrorContains(t, err, tt.msg)
			assert.Nil(t, s)
		})
	}
}
