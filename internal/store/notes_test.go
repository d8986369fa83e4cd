package store

import (
	"context"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/resnav/internal/kv"
)

func newTestNoteStore() *NoteStore {
	return NewNoteStore(kv.NewMemory())
}

func TestNoteCreate(t *testing.T) {
	notes := newTestNoteStore()
	ctx := context.Background()

	n, err := notes.Create(ctx, "shopping", "milk, eggs")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !strings.HasPrefix(n.ID, "note_") {
		t.Errorf("Create() id = %s, want note_ prefix", n.ID)
	}
	if n.CreatedAt == 0 || n.UpdatedAt != n.CreatedAt {
		t.Errorf("Create() timestamps = (%d, %d), want equal and non-zero", n.CreatedAt, n.UpdatedAt)
	}

	second, _ := notes.Create(ctx, "ideas", "")
	list, _ := notes.List(ctx)
	if len(list) != 2 {
		t.Fatalf("List() returned %d notes, want 2", len(list))
	}
	if list[0].ID != second.ID {
		t.Error("Create() should prepend new notes")
	}
}

func TestNoteUpdate(t *testing.T) {
	notes := newTestNoteStore()
	ctx := context.Background()

	n, _ := notes.Create(ctx, "title", "body")

	ok, err := notes.Update(ctx, n.ID, "new title", "new body")
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if !ok {
		t.Fatal("Update() = false for existing note")
	}

	got, _ := notes.GetByID(ctx, n.ID)
	if got.Title != "new title" || got.Content != "new body" {
		t.Errorf("Update() did not replace fields: %+v", got)
	}
	if got.CreatedAt != n.CreatedAt {
		t.Error("Update() must preserve createdAt")
	}
	if got.UpdatedAt <= n.UpdatedAt {
		t.Errorf("Update() updatedAt = %d, want > %d", got.UpdatedAt, n.UpdatedAt)
	}

	// Back-to-back updates within the same millisecond still move forward.
	prev := got.UpdatedAt
	for i := 0; i < 3; i++ {
		if _, err := notes.Update(ctx, n.ID, "t", "c"); err != nil {
			t.Fatalf("Update() error: %v", err)
		}
		got, _ = notes.GetByID(ctx, n.ID)
		if got.UpdatedAt <= prev {
			t.Fatalf("Update() updatedAt = %d, want > %d", got.UpdatedAt, prev)
		}
		prev = got.UpdatedAt
	}

	ok, _ = notes.Update(ctx, "missing", "t", "c")
	if ok {
		t.Error("Update() = true for unknown note")
	}
}

func TestNoteDelete(t *testing.T) {
	notes := newTestNoteStore()
	ctx := context.Background()

	n, _ := notes.Create(ctx, "doomed", "")

	ok, err := notes.Delete(ctx, n.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if !ok {
		t.Fatal("Delete() = false for existing note")
	}
	if got, _ := notes.GetByID(ctx, n.ID); got != nil {
		t.Error("Delete() left the note behind")
	}

	ok, _ = notes.Delete(ctx, n.ID)
	if ok {
		t.Error("Delete() = true for already-deleted note")
	}
}

func TestNoteGetByID(t *testing.T) {
	notes := newTestNoteStore()
	ctx := context.Background()

	n, _ := notes.Create(ctx, "here", "content")

	got, err := notes.GetByID(ctx, n.ID)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got == nil || got.ID != n.ID {
		t.Errorf("GetByID() = %+v, want note %s", got, n.ID)
	}

	got, err = notes.GetByID(ctx, "missing")
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if got != nil {
		t.Errorf("GetByID() for unknown id = %+v, want nil", got)
	}
}
