package draft

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/contactform/internal/formerr"
	"github.com/muurk/contactform/internal/logging"
	"github.com/muurk/contactform/internal/validation"
)

// DefaultKey is the versioned key the draft record lives under.
const DefaultKey = "contact_form_draft_v1"

// DefaultAutoSaveInterval is how often the form offers an auto-save tick.
const DefaultAutoSaveInterval = 8 * time.Second

// Record is the persisted draft. Timestamp is milliseconds since the epoch.
type Record struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp int64  `json:"ts"`
}

// Fields returns the record's field values.
func (r Record) Fields() validation.Fields {
	return validation.Fields{Name: r.Name, Email: r.Email, Message: r.Message}
}

// SavedAt returns the record timestamp as a time.
func (r Record) SavedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// SaveOutcome reports what an auto-save tick did.
type SaveOutcome int

const (
	Skipped SaveOutcome = iota
	Saved
)

func (o SaveOutcome) String() string {
	if o == Saved {
		return "saved"
	}
	return "skipped"
}

// Store persists a single draft record. It is owned by one form session and
// is not safe for concurrent use; the KV underneath is.
type Store struct {
	kv  KV
	key string
	now func() time.Time

	// last snapshot seen by AutoSaveTick
	snapshot     validation.Fields
	haveSnapshot bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides time.Now for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store over kv. A nil kv yields a store whose writes fail
// with a StorageUnavailable error and whose reads find nothing.
func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		key: DefaultKey,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Available reports whether a backend is attached.
func (s *Store) Available() bool {
	return s.kv != nil
}

// Key returns the storage key.
func (s *Store) Key() string {
	return s.key
}

// Save writes the three field values stamped with the current time.
func (s *Store) Save(name, email, message string) (Record, error) {
	rec := Record{
		Name:      name,
		Email:     email,
		Message:   message,
		Timestamp: s.now().UnixMilli(),
	}
	if s.kv == nil {
		return rec, formerr.NewStorageError("draft store is not available", nil)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return rec, formerr.NewStorageError("failed to encode draft", err)
	}
	if err := s.kv.Set(s.key, data); err != nil {
		logging.Warn("Draft write failed", zap.String("key", s.key), zap.Error(err))
		return rec, formerr.NewStorageError("failed to write draft", err)
	}

	logging.LogDraftEvent("saved", s.key,
		zap.Int64("ts", rec.Timestamp),
		zap.Int("bytes", len(data)),
	)
	return rec, nil
}

// Clear removes the stored record. Clearing an absent draft succeeds.
// The auto-save snapshot is reset to empty fields so an idle form does not
// write an empty record straight after the clear.
func (s *Store) Clear() error {
	if s.kv == nil {
		return formerr.NewStorageError("draft store is not available", nil)
	}
	if err := s.kv.Delete(s.key); err != nil {
		logging.Warn("Draft delete failed", zap.String("key", s.key), zap.Error(err))
		return formerr.NewStorageError("failed to clear draft", err)
	}
	s.snapshot = validation.Fields{}
	s.haveSnapshot = true

	logging.LogDraftEvent("cleared", s.key)
	return nil
}

// Restore reads the stored record. Missing, unreadable and malformed drafts
// all come back as (nil, false); the cause is logged, never returned.
func (s *Store) Restore() (*Record, bool) {
	rec, err := s.Peek()
	if err != nil {
		if formerr.IsMalformedDraft(err) {
			logging.Warn("Ignoring malformed draft", zap.String("key", s.key), zap.Error(err))
		} else {
			logging.Warn("Draft restore failed", zap.String("key", s.key), zap.Error(err))
		}
		return nil, false
	}
	if rec == nil {
		return nil, false
	}

	logging.LogDraftEvent("restored", s.key, zap.Int64("ts", rec.Timestamp))
	return rec, true
}

// Peek reads the stored record and reports decode failures as
// MalformedDraft errors instead of swallowing them. A missing draft is
// (nil, nil).
func (s *Store) Peek() (*Record, error) {
	if s.kv == nil {
		return nil, formerr.NewStorageError("draft store is not available", nil)
	}

	raw, err := s.kv.Get(s.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, formerr.NewStorageError("failed to read draft", err)
	}

	return decodeRecord(raw)
}

func decodeRecord(raw []byte) (*Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, formerr.NewMalformedDraftError("draft is not a JSON object", nil)
	}

	var rec Record
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, formerr.NewMalformedDraftError("failed to decode draft", err)
	}
	return &rec, nil
}

// AutoSaveTick saves only when the fields differ from the snapshot taken on
// the previous successful tick. The snapshot advances only after a
// successful write, so a failed write is retried on the next tick.
func (s *Store) AutoSaveTick(name, email, message string) (SaveOutcome, error) {
	cur := validation.Fields{Name: name, Email: email, Message: message}
	if s.haveSnapshot && cur == s.snapshot {
		logging.Debug("Auto-save skipped, draft unchanged", zap.String("key", s.key))
		return Skipped, nil
	}

	if _, err := s.Save(name, email, message); err != nil {
		return Skipped, err
	}
	s.snapshot = cur
	s.haveSnapshot = true
	return Saved, nil
}
