// Package draft persists the in-progress contact form between sessions.
//
// A Store keeps one JSON record under a versioned key:
//
//	{"name":"Ada","email":"ada@example.org","message":"hello!","ts":1760000000000}
//
// Three backends implement KV:
//   - PebbleKV: a Pebble database, the default; writes are synced
//   - FileKV: one JSON file per key with temp-file + rename writes
//   - MemoryKV: process memory only
//
// # Failure Model
//
// Drafts are a convenience layered over a form that must keep working:
//
//	rec, ok := store.Restore()   // malformed or unreadable -> (nil, false), logged
//	_, err := store.Save(n, e, m) // backend failure -> formerr StorageUnavailable
//
// # Auto-save
//
// AutoSaveTick is driven by a periodic timer (DefaultAutoSaveInterval) and is
// the only writer that acts without explicit user intent. It compares the
// current fields with the snapshot from its previous successful tick and skips
// the write when nothing changed.
package draft
