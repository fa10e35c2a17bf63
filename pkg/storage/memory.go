package storage

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/JaimeStill/lading/pkg/lifecycle"
)

type memBlob struct {
	data []byte
	meta BlobMeta
}

type memory struct {
	mu    sync.RWMutex
	blobs map[string]memBlob
}

// NewMemory returns a System that keeps blobs in process memory.
func NewMemory() System {
	return &memory{blobs: make(map[string]memBlob)}
}

func (m *memory) Start(*lifecycle.Coordinator) error { return nil }

func (m *memory) Ready() bool { return true }

func (m *memory) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = memBlob{
		data: data,
		meta: BlobMeta{
			Key:           key,
			ContentType:   contentType,
			ContentLength: int64(len(data)),
			LastModified:  time.Now().UTC(),
		},
	}
	return ctx.Err()
}

func (m *memory) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	b, err := m.get(ctx, key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	if _, err := m.get(ctx, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *memory) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *memory) Find(ctx context.Context, key string) (*BlobMeta, error) {
	b, err := m.get(ctx, key)
	if err != nil {
		return nil, err
	}
	meta := b.meta
	return &meta, nil
}

func (m *memory) List(ctx context.Context, prefix, marker string, maxResults int32) (*BlobList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	keys := make([]string, 0, len(m.blobs))
	for k := range m.blobs {
		if strings.HasPrefix(k, prefix) && k > marker {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	slices.Sort(keys)

	result := &BlobList{Blobs: []BlobMeta{}}
	if maxResults > 0 && int32(len(keys)) > maxResults {
		keys = keys[:maxResults]
		result.NextMarker = keys[len(keys)-1]
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range keys {
		if b, ok := m.blobs[k]; ok {
			result.Blobs = append(result.Blobs, b.meta)
		}
	}
	return result, nil
}

func (m *memory) get(ctx context.Context, key string) (memBlob, error) {
	if err := validateKey(key); err != nil {
		return memBlob{}, err
	}
	if err := ctx.Err(); err != nil {
		return memBlob{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return memBlob{}, ErrNotFound
	}
	return b, nil
}
