package store

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/kv"
)

// MembershipCleaner removes a deleted resource ID from every group.
// Implemented by GroupStore; attached after construction to break the
// dependency cycle between the two stores.
type MembershipCleaner interface {
	CascadeRemoveEverywhere(ctx context.Context, resourceID string) error
}

// ResourceStore handles CRUD, search, filter and pagination over the
// resources bucket. Every mutation is a whole-bucket read-modify-write
// guarded by a single-writer mutex.
type ResourceStore struct {
	mu      sync.Mutex
	kv      kv.Store
	ids     idGen
	cleaner MembershipCleaner
}

// NewResourceStore creates a resource store over the given key-value backend.
func NewResourceStore(backend kv.Store) *ResourceStore {
	return &ResourceStore{kv: backend}
}

// AttachCleaner wires the group-membership cascade invoked on delete.
func (s *ResourceStore) AttachCleaner(c MembershipCleaner) {
	s.cleaner = c
}

func (s *ResourceStore) load(ctx context.Context) ([]domain.Resource, error) {
	return loadBucket[domain.Resource](ctx, s.kv, kv.BucketResources)
}

func (s *ResourceStore) save(ctx context.Context, resources []domain.Resource) error {
	return saveBucket(ctx, s.kv, kv.BucketResources, resources)
}

// List returns the full bucket contents in stored order (most recent first).
func (s *ResourceStore) List(ctx context.Context) ([]domain.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// GetByID returns the resource with the given ID, or nil when absent.
func (s *ResourceStore) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resources, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range resources {
		if resources[i].ID == id {
			return &resources[i], nil
		}
	}
	return nil, nil
}

// Add assigns a fresh ID and import timestamp, prepends the resource to
// the bucket and returns the stored record.
func (s *ResourceStore) Add(ctx context.Context, r domain.Resource) (domain.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resources, err := s.load(ctx)
	if err != nil {
		return domain.Resource{}, err
	}

	r.ID = s.ids.Next()
	r.ImportTime = time.Now().UnixMilli()
	if r.Tags == nil {
		r.Tags = []string{}
	}

	resources = append([]domain.Resource{r}, resources...)
	if err := s.save(ctx, resources); err != nil {
		return domain.Resource{}, err
	}
	return r, nil
}

// Update replaces every field except ID. Returns false when the ID is absent.
func (s *ResourceStore) Update(ctx context.Context, id string, r domain.Resource) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resources, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range resources {
		if resources[i].ID == id {
			r.ID = id
			if r.ImportTime == 0 {
				r.ImportTime = resources[i].ImportTime
			}
			if r.Tags == nil {
				r.Tags = []string{}
			}
			resources[i] = r
			if err := s.save(ctx, resources); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the resource and cascades removal of its ID from every
// group's membership. Returns false when the ID is absent.
func (s *ResourceStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resources, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	filtered := make([]domain.Resource, 0, len(resources))
	for _, r := range resources {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == len(resources) {
		return false, nil
	}

	if err := s.cascade(ctx, id); err != nil {
		return false, err
	}
	if err := s.save(ctx, filtered); err != nil {
		return false, err
	}
	return true, nil
}

// BatchDelete removes every listed resource. It succeeds when at least one
// ID matched and cascades per removed ID.
func (s *ResourceStore) BatchDelete(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resources, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}

	filtered := make([]domain.Resource, 0, len(resources))
	removed := make([]string, 0, len(ids))
	for _, r := range resources {
		if doomed[r.ID] {
			removed = append(removed, r.ID)
			continue
		}
		filtered = append(filtered, r)
	}
	if len(removed) == 0 {
		return false, nil
	}

	for _, id := range removed {
		if err := s.cascade(ctx, id); err != nil {
			return false, err
		}
	}
	if err := s.save(ctx, filtered); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ResourceStore) cascade(ctx context.Context, id string) error {
	if s.cleaner == nil {
		return nil
	}
	return s.cleaner.CascadeRemoveEverywhere(ctx, id)
}

// Search returns resources whose title, url, category, level or any tag
// contains the query, case-insensitively. An empty query returns all.
func (s *ResourceStore) Search(ctx context.Context, query string) ([]domain.Resource, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return resources, nil
	}

	matched := make([]domain.Resource, 0)
	for _, r := range resources {
		if matchesQuery(r, query) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func matchesQuery(r domain.Resource, query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) ||
		strings.Contains(strings.ToLower(r.URL), query) ||
		strings.Contains(strings.ToLower(r.Category), query) ||
		strings.Contains(strings.ToLower(r.Level), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// FilterByCategory returns resources with an exactly matching category.
// The special value "all" returns everything.
func (s *ResourceStore) FilterByCategory(ctx context.Context, category string) ([]domain.Resource, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if category == "all" {
		return resources, nil
	}

	matched := make([]domain.Resource, 0)
	for _, r := range resources {
		if r.Category == category {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// FilterByLevel returns resources whose level string contains the value.
// Levels are composite strings like "开发调优, Lv2", so "Lv2" matches.
func (s *ResourceStore) FilterByLevel(ctx context.Context, level string) ([]domain.Resource, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Resource, 0)
	for _, r := range resources {
		if r.Level != "" && strings.Contains(r.Level, level) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// FilterByTag returns resources carrying the exact tag.
func (s *ResourceStore) FilterByTag(ctx context.Context, tag string) ([]domain.Resource, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Resource, 0)
	for _, r := range resources {
		for _, t := range r.Tags {
			if t == tag {
				matched = append(matched, r)
				break
			}
		}
	}
	return matched, nil
}

// Categories returns the distinct non-empty categories, sorted.
func (s *ResourceStore) Categories(ctx context.Context) ([]string, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, r := range resources {
		if r.Category != "" && !seen[r.Category] {
			seen[r.Category] = true
			categories = append(categories, r.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

var levelToken = regexp.MustCompile(`Lv\d+`)

// Levels extracts the distinct LvN tokens from composite level strings,
// sorted numerically (Lv1, Lv2, ... Lv10).
func (s *ResourceStore) Levels(ctx context.Context) ([]string, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	levels := make([]string, 0)
	for _, r := range resources {
		if r.Level == "" {
			continue
		}
		if token := levelToken.FindString(r.Level); token != "" && !seen[token] {
			seen[token] = true
			levels = append(levels, token)
		}
	}

	sort.Slice(levels, func(i, j int) bool {
		a, _ := strconv.Atoi(strings.TrimPrefix(levels[i], "Lv"))
		b, _ := strconv.Atoi(strings.TrimPrefix(levels[j], "Lv"))
		return a < b
	})
	return levels, nil
}

// Tags returns the distinct tags across all resources, sorted.
func (s *ResourceStore) Tags(ctx context.Context) ([]string, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, r := range resources {
		for _, t := range r.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// SortByImportTime returns a copy ordered by import timestamp descending.
// The sort is stable: ties keep their relative order.
func SortByImportTime(resources []domain.Resource) []domain.Resource {
	sorted := make([]domain.Resource, len(resources))
	copy(sorted, resources)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ImportTime > sorted[j].ImportTime
	})
	return sorted
}

// ReplaceAll overwrites the whole bucket. Used by import restore paths.
func (s *ResourceStore) ReplaceAll(ctx context.Context, resources []domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, resources)
}

// Prepend inserts the given records at the front of the bucket in one write.
func (s *ResourceStore) Prepend(ctx context.Context, batch []domain.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load(ctx)
	if err != nil {
		return err
	}
	merged := make([]domain.Resource, 0, len(batch)+len(existing))
	merged = append(merged, batch...)
	merged = append(merged, existing...)
	return s.save(ctx, merged)
}
