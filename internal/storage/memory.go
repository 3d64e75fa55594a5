package storage

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/url"
	"sync"
	"time"
)

// Memory keeps objects in process memory. It serves the memory data source
// where no object server is configured.
type Memory struct {
	mu         sync.RWMutex
	objects    map[string]memoryObject
	baseURL    string
	signingKey []byte
}

type memoryObject struct {
	data []byte
	info ObjectInfo
}

var _ Storage = (*Memory)(nil)

// NewMemory returns an empty store. Presigned URLs point at baseURL and are
// signed with HMAC-SHA256 under signingKey; an empty key is replaced by a
// random one, so links then only verify within this process.
func NewMemory(baseURL string, signingKey []byte) *Memory {
	if len(signingKey) == 0 {
		signingKey = make([]byte, 32)
		if _, err := rand.Read(signingKey); err != nil {
			panic(err)
		}
	}
	return &Memory{
		objects:    make(map[string]memoryObject),
		baseURL:    baseURL,
		signingKey: signingKey,
	}
}

func (m *Memory) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ObjectInfo{}, err
	}
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	sum := md5.Sum(data)
	info := ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ETag:         hex.EncodeToString(sum[:]),
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}

	m.mu.Lock()
	m.objects[key] = memoryObject{data: data, info: info}
	m.mu.Unlock()
	return info, nil
}

func (m *Memory) Get(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.info, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	expires := time.Now().Add(expiry).UTC().Format(time.RFC3339)
	q := url.Values{}
	q.Set("key", key)
	q.Set("expires", expires)
	q.Set("sig", m.sign(key, expires))
	return m.baseURL + "/objects?" + q.Encode(), nil
}

// VerifyLink reports whether sig was issued by PresignGet for key and expires.
// Expiry itself is checked by the caller.
func (m *Memory) VerifyLink(key, expires, sig string) bool {
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(m.sign(key, expires))
	return hmac.Equal(got, want)
}

func (m *Memory) sign(key, expires string) string {
	mac := hmac.New(sha256.New, m.signingKey)
	mac.Write([]byte(key))
	mac.Write([]byte{'|'})
	mac.Write([]byte(expires))
	return hex.EncodeToString(mac.Sum(nil))
}
