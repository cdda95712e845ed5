package draft

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/muurk/contactform/internal/formerr"
)

// ErrNotFound is returned by KV.Get when the key is absent.
var ErrNotFound = errors.New("draft: key not found")

// KV is the durable key-value byte store a Store writes through.
// Implementations must be safe for concurrent use.
type KV interface {
	// Get returns the value for key or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set writes value under key durably before returning.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open
const (
	BackendPebble = "pebble"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open opens the named backend rooted at path. Path is ignored for memory.
func Open(backend, path string) (KV, error) {
	switch backend {
	case BackendPebble, "":
		kv, err := OpenPebble(filepath.Join(path, "pebble"))
		if err != nil {
			return nil, formerr.NewStorageError("drafts unavailable", err)
		}
		return kv, nil
	case BackendFile:
		kv, err := OpenFile(path)
		if err != nil {
			return nil, formerr.NewStorageError("drafts unavailable", err)
		}
		return kv, nil
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown draft backend %q (expected pebble, file or memory)", backend)
	}
}

// MemoryKV keeps values in process memory. Drafts do not survive a restart;
// it is used for tests and for --draft-backend memory.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte
	closed bool
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

var errClosed = errors.New("draft: store closed")

// Get implements KV
func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, errClosed
	}
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set implements KV
func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errClosed
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

// Delete implements KV
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return errClosed
	}
	delete(m.values, key)
	return nil
}

// Close implements KV. Operations after Close fail.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
