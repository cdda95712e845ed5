package draft

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/logging"
)

// PebbleKV stores drafts in a Pebble database. Writes use pebble.Sync so a
// saved draft survives a crash immediately after Save returns.
type PebbleKV struct {
	db   *pebble.DB
	path string
}

// OpenPebble opens (or creates) a Pebble database at path.
func OpenPebble(path string) (*PebbleKV, error) {
	logging.Debug("Opening pebble draft store", zap.String("path", path))
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logging.Warn("Pebble open failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("failed to open pebble store at %s: %w", path, err)
	}
	return &PebbleKV{db: db, path: path}, nil
}

// Path returns the database directory.
func (p *PebbleKV) Path() string {
	return p.path
}

// Get implements KV
func (p *PebbleKV) Get(key string) ([]byte, error) {
	if p.db == nil {
		return nil, errClosed
	}
	v, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	// v is only valid until closer.Close
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set implements KV
func (p *PebbleKV) Set(key string, value []byte) error {
	if p.db == nil {
		return errClosed
	}
	return p.db.Set([]byte(key), value, pebble.Sync)
}

// Delete implements KV
func (p *PebbleKV) Delete(key string) error {
	if p.db == nil {
		return errClosed
	}
	return p.db.Delete([]byte(key), pebble.Sync)
}

// Close implements KV
func (p *PebbleKV) Close() error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
