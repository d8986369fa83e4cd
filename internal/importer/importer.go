// Package importer implements bulk import and full export of resources.
//
// Import accepts a JSON array, a single JSON object, or one object per
// line (paste fallback). Validation is atomic: one bad record rejects the
// whole batch and leaves the store untouched.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/store"
)

// TagList accepts either a JSON string or a JSON array of strings, so a
// scalar "tags" field coerces to a one-element list.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings")
	}
	*t = []string{single}
	return nil
}

// Record is one externally supplied resource entry.
type Record struct {
	ID       string  `json:"id"`
	Title    string  `json:"title" validate:"required"`
	URL      string  `json:"url" validate:"required"`
	Category string  `json:"category"`
	Level    string  `json:"level"`
	Tags     TagList `json:"tags"`
}

// Service validates, normalizes and merges imported resource batches.
type Service struct {
	resources *store.ResourceStore
	groups    *store.GroupStore
	notes     *store.NoteStore
	validate  *validator.Validate
}

func New(resources *store.ResourceStore, groups *store.GroupStore, notes *store.NoteStore) *Service {
	return &Service{
		resources: resources,
		groups:    groups,
		notes:     notes,
		validate:  validator.New(),
	}
}

// ImportBatch parses and validates raw import data, then prepends the
// whole batch to the resource bucket under one shared timestamp.
// All-or-nothing: any invalid record rejects the batch with no mutation.
func (s *Service) ImportBatch(ctx context.Context, raw []byte) domain.ImportResult {
	records, err := parse(raw)
	if err != nil {
		return domain.ImportResult{Success: false, Message: err.Error()}
	}
	return s.ImportRecords(ctx, records)
}

// ImportRecords applies import semantics to already-parsed records.
// Also the entry point for the YAML seed loader.
func (s *Service) ImportRecords(ctx context.Context, records []Record) domain.ImportResult {
	if len(records) == 0 {
		return domain.ImportResult{Success: false, Message: "no records to import"}
	}

	// Validate everything before touching the store.
	for i, rec := range records {
		if err := s.validate.Struct(rec); err != nil {
			return domain.ImportResult{
				Success: false,
				Message: fmt.Sprintf("item %d is missing a required title or url field", i+1),
			}
		}
	}

	// One shared batch timestamp for recency ordering.
	now := time.Now().UnixMilli()
	batch := make([]domain.Resource, 0, len(records))
	for i, rec := range records {
		id := rec.ID
		if id == "" {
			id = fmt.Sprintf("import-%d-%d", now, i)
		}
		tags := []string(rec.Tags)
		if tags == nil {
			tags = []string{}
		}
		batch = append(batch, domain.Resource{
			ID:         id,
			Title:      rec.Title,
			URL:        rec.URL,
			Category:   rec.Category,
			Level:      rec.Level,
			Tags:       tags,
			ImportTime: now,
		})
	}

	if err := s.resources.Prepend(ctx, batch); err != nil {
		return domain.ImportResult{Success: false, Message: err.Error()}
	}

	return domain.ImportResult{
		Success: true,
		Message: fmt.Sprintf("imported %d resources", len(batch)),
		Count:   len(batch),
	}
}

// ExportAll returns the full resource bucket verbatim, including the
// internal import timestamps.
func (s *Service) ExportAll(ctx context.Context) ([]domain.Resource, error) {
	return s.resources.List(ctx)
}

// ClearAll wipes resources, groups and notes.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.resources.ReplaceAll(ctx, []domain.Resource{}); err != nil {
		return err
	}
	if err := s.groups.ReplaceAll(ctx, []domain.Group{}); err != nil {
		return err
	}
	return s.notes.ReplaceAll(ctx, []domain.Note{})
}

// parse accepts a JSON array, a single object, or one object per line.
func parse(raw []byte) ([]Record, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" {
		return nil, fmt.Errorf("import data is empty")
	}

	var records []Record
	if err := json.Unmarshal([]byte(trimmed), &records); err == nil {
		return records, nil
	}

	var single Record
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		return []Record{single}, nil
	}

	// Paste fallback: one independent JSON object per line.
	lines := strings.Split(trimmed, "\n")
	records = make([]Record, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %v", i+1, err)
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("import data is not valid JSON")
	}
	return records, nil
}
