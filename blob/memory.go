package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"io"
	"sync"
)

// MemoryStore keeps blobs in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Add implements Store.
func (s *MemoryStore) Add(ctx context.Context) (Writer, error) {
	return &memoryWriter{store: s}, nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (io.ReadCloser, error) {
	s.mu.RLock()
	data, ok := s.blobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Has implements Store.
func (s *MemoryStore) Has(ctx context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[id]
	return ok, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.blobs, id)
	return nil
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

type memoryWriter struct {
	store  *MemoryStore
	buf    bytes.Buffer
	closed bool
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	return w.buf.Write(p)
}

func (w *memoryWriter) Commit(ctx context.Context) (string, error) {
	if w.closed {
		return "", ErrClosed
	}
	w.closed = true
	data := w.buf.Bytes()
	id := FormatID(sha256.Sum256(data))

	w.store.mu.Lock()
	w.store.blobs[id] = data
	w.store.mu.Unlock()
	return id, nil
}

func (w *memoryWriter) Abort() error {
	w.closed = true
	w.buf.Reset()
	return nil
}
