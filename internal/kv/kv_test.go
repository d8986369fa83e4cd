package kv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// exerciseStore runs the contract every backend must honor.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on absent key = %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, BucketResources, []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := s.Get(ctx, BucketResources)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Errorf("Get() = %s, want stored value", got)
	}

	// Overwrite replaces the old value.
	if err := s.Set(ctx, BucketResources, []byte(`[]`)); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	got, _ = s.Get(ctx, BucketResources)
	if string(got) != `[]` {
		t.Errorf("Get() after overwrite = %s, want []", got)
	}

	if err := s.Delete(ctx, BucketResources); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(ctx, BucketResources); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}

	// Deleting an absent key is a no-op.
	if err := s.Delete(ctx, "never-existed"); err != nil {
		t.Errorf("Delete() on absent key = %v, want nil", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemory())
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte(`{"a":1}`)
	if err := m.Set(ctx, BucketNotes, value); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	value[0] = 'X'
	got, _ := m.Get(ctx, BucketNotes)
	if string(got) != `{"a":1}` {
		t.Errorf("Get() = %s, store shares memory with caller slice", got)
	}

	// Mutating the returned slice must not corrupt the store either.
	got[0] = 'Y'
	again, _ := m.Get(ctx, BucketNotes)
	if string(again) != `{"a":1}` {
		t.Errorf("Get() = %s after mutating a previous result", again)
	}
}

func TestFileStore(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	exerciseStore(t, f)
}

func TestFileStoreCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile() error: %v", err)
	}
	if err := f.Set(context.Background(), BucketGroups, []byte(`[]`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, _ := NewFile(dir)
	if err := first.Set(ctx, BucketResources, []byte(`[{"id":"x"}]`)); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	second, _ := NewFile(dir)
	got, err := second.Get(ctx, BucketResources)
	if err != nil {
		t.Fatalf("Get() from a fresh instance error: %v", err)
	}
	if string(got) != `[{"id":"x"}]` {
		t.Errorf("Get() = %s, want value written by the first instance", got)
	}
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	f, _ := NewFile(t.TempDir())
	ctx := context.Background()

	key := "../escape"
	if err := f.Set(ctx, key, []byte("x")); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := f.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != "x" {
		t.Errorf("Get() = %s, want x", got)
	}
}
