package draft

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openBackends(t *testing.T) map[string]KV {
	t.Helper()

	fileKV, err := OpenFile(filepath.Join(t.TempDir(), "drafts"))
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	pebbleKV, err := OpenPebble(filepath.Join(t.TempDir(), "pebble"))
	if err != nil {
		t.Fatalf("OpenPebble() error = %v", err)
	}
	t.Cleanup(func() { _ = pebbleKV.Close() })

	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   fileKV,
		"pebble": pebbleKV,
	}
}

// TestKV_RoundTrip tests Set/Get/Delete on every backend
func TestKV_RoundTrip(t *testing.T) {
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := kv.Get(DefaultKey); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
			}

			want := []byte(`{"name":"A"}`)
			if err := kv.Set(DefaultKey, want); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := kv.Get(DefaultKey)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if string(got) != string(want) {
				t.Errorf("Get() = %q, want %q", got, want)
			}

			if err := kv.Set(DefaultKey, []byte(`{}`)); err != nil {
				t.Fatalf("Set() overwrite error = %v", err)
			}
			got, _ = kv.Get(DefaultKey)
			if string(got) != `{}` {
				t.Errorf("Get() after overwrite = %q, want {}", got)
			}

			if err := kv.Delete(DefaultKey); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := kv.Delete(DefaultKey); err != nil {
				t.Errorf("second Delete() error = %v, want nil", err)
			}
			if _, err := kv.Get(DefaultKey); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

// TestMemoryKV_CopiesValues tests that callers cannot mutate stored bytes
func TestMemoryKV_CopiesValues(t *testing.T) {
	kv := NewMemoryKV()
	buf := []byte("hello")
	if err := kv.Set("k", buf); err != nil {
		t.Fatal(err)
	}
	buf[0] = 'J'

	got, _ := kv.Get("k")
	if string(got) != "hello" {
		t.Errorf("stored value changed through caller slice: %q", got)
	}
	got[0] = 'Y'
	again, _ := kv.Get("k")
	if string(again) != "hello" {
		t.Errorf("stored value changed through returned slice: %q", again)
	}
}

// TestMemoryKV_Closed tests operations after Close
func TestMemoryKV_Closed(t *testing.T) {
	kv := NewMemoryKV()
	_ = kv.Close()

	if err := kv.Set("k", []byte("v")); err == nil {
		t.Error("Set() after Close should fail")
	}
	if _, err := kv.Get("k"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Close error = %v, want closed error", err)
	}
}

// TestFileKV_Layout tests on-disk naming and permissions
func TestFileKV_Layout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "drafts")
	kv, err := OpenFile(dir)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if err := kv.Set(DefaultKey, []byte("{}")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, DefaultKey+".json"))
	if err != nil {
		t.Fatalf("draft file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("draft file mode = %o, want 600", perm)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp files left behind?)", len(entries))
	}
}

// TestFileKV_InvalidKey tests key sanitising
func TestFileKV_InvalidKey(t *testing.T) {
	kv, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"", "../escape", "a/b", "with space"} {
		if err := kv.Set(key, []byte("x")); err == nil {
			t.Errorf("Set(%q) should fail", key)
		}
	}
}

// TestOpen tests backend selection
func TestOpen(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{BackendMemory, false},
		{BackendFile, false},
		{BackendPebble, false},
		{"", false},
		{"redis", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			kv, err := Open(tt.backend, t.TempDir())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if kv != nil {
				_ = kv.Close()
			}
		})
	}
}
