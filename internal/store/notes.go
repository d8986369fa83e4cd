package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/kv"
)

// NoteStore handles CRUD over free-text notes, independent of resources
// and groups.
type NoteStore struct {
	mu sync.Mutex
	kv kv.Store
}

func NewNoteStore(backend kv.Store) *NoteStore {
	return &NoteStore{kv: backend}
}

func (s *NoteStore) load(ctx context.Context) ([]domain.Note, error) {
	return loadBucket[domain.Note](ctx, s.kv, kv.BucketNotes)
}

func (s *NoteStore) save(ctx context.Context, notes []domain.Note) error {
	return saveBucket(ctx, s.kv, kv.BucketNotes, notes)
}

// List returns all notes, most recently created first.
func (s *NoteStore) List(ctx context.Context) ([]domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// GetByID returns the note with the given ID, or nil when absent.
func (s *NoteStore) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if notes[i].ID == id {
			return &notes[i], nil
		}
	}
	return nil, nil
}

// Create prepends a new note with createdAt = updatedAt = now.
func (s *NoteStore) Create(ctx context.Context, title, content string) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return domain.Note{}, err
	}

	now := time.Now().UnixMilli()
	note := domain.Note{
		ID:        "note_" + uuid.NewString(),
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	notes = append([]domain.Note{note}, notes...)
	if err := s.save(ctx, notes); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// Update replaces title and content, preserving ID and createdAt and
// bumping updatedAt. Returns false when the ID is absent.
func (s *NoteStore) Update(ctx context.Context, id, title, content string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range notes {
		if notes[i].ID == id {
			notes[i].Title = title
			notes[i].Content = content
			// updatedAt is monotonic even if the clock stalls within
			// one millisecond.
			now := time.Now().UnixMilli()
			if now <= notes[i].UpdatedAt {
				now = notes[i].UpdatedAt + 1
			}
			notes[i].UpdatedAt = now
			if err := s.save(ctx, notes); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the note. Returns false when the ID is absent.
func (s *NoteStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	filtered := make([]domain.Note, 0, len(notes))
	for _, n := range notes {
		if n.ID != id {
			filtered = append(filtered, n)
		}
	}
	if len(filtered) == len(notes) {
		return false, nil
	}

	if err := s.save(ctx, filtered); err != nil {
		return false, err
	}
	return true, nil
}

// ReplaceAll overwrites the whole bucket. Used by restore paths.
func (s *NoteStore) ReplaceAll(ctx context.Context, notes []domain.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, notes)
}
