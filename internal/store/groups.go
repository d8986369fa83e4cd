package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/kv"
)

// GroupStore handles CRUD over named collections of resource IDs.
// Membership is a weak reference: a group never owns its resources and
// deleting a group never deletes its members.
type GroupStore struct {
	mu        sync.Mutex
	kv        kv.Store
	resources *ResourceStore
}

// NewGroupStore creates a group store. The resource store is used to
// resolve member IDs when listing a group's resources.
func NewGroupStore(backend kv.Store, resources *ResourceStore) *GroupStore {
	return &GroupStore{kv: backend, resources: resources}
}

func (s *GroupStore) load(ctx context.Context) ([]domain.Group, error) {
	return loadBucket[domain.Group](ctx, s.kv, kv.BucketGroups)
}

func (s *GroupStore) save(ctx context.Context, groups []domain.Group) error {
	return saveBucket(ctx, s.kv, kv.BucketGroups, groups)
}

// List returns all groups.
func (s *GroupStore) List(ctx context.Context) ([]domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// GetByID returns the group with the given ID, or nil when absent.
func (s *GroupStore) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		if groups[i].ID == id {
			return &groups[i], nil
		}
	}
	return nil, nil
}

// Create appends a new empty group with a fresh unique ID.
func (s *GroupStore) Create(ctx context.Context, name string) (domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return domain.Group{}, err
	}

	group := domain.Group{
		ID:          "group_" + uuid.NewString(),
		Name:        name,
		ResourceIDs: []string{},
	}
	groups = append(groups, group)
	if err := s.save(ctx, groups); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

// Rename changes only the name field. Returns false when the ID is absent.
func (s *GroupStore) Rename(ctx context.Context, id, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range groups {
		if groups[i].ID == id {
			groups[i].Name = name
			if err := s.save(ctx, groups); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the group only; member resources are untouched.
func (s *GroupStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	filtered := make([]domain.Group, 0, len(groups))
	for _, g := range groups {
		if g.ID != id {
			filtered = append(filtered, g)
		}
	}
	if len(filtered) == len(groups) {
		return false, nil
	}

	if err := s.save(ctx, filtered); err != nil {
		return false, err
	}
	return true, nil
}

// AddMember adds a resource ID to the group. Adding an existing member is
// a no-op that still succeeds. Returns false when the group is absent.
func (s *GroupStore) AddMember(ctx context.Context, groupID, resourceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range groups {
		if groups[i].ID != groupID {
			continue
		}
		if groups[i].HasMember(resourceID) {
			return true, nil
		}
		groups[i].ResourceIDs = append(groups[i].ResourceIDs, resourceID)
		if err := s.save(ctx, groups); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// RemoveMember removes a resource ID from the group. Removing a
// non-member is a no-op that still succeeds.
func (s *GroupStore) RemoveMember(ctx context.Context, groupID, resourceID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range groups {
		if groups[i].ID != groupID {
			continue
		}
		if !groups[i].HasMember(resourceID) {
			return true, nil
		}
		groups[i].ResourceIDs = remove(groups[i].ResourceIDs, resourceID)
		if err := s.save(ctx, groups); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// BatchAddMembers adds every listed resource ID, skipping duplicates.
// It succeeds whenever the group exists, even if nothing was newly added.
func (s *GroupStore) BatchAddMembers(ctx context.Context, groupID string, resourceIDs []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range groups {
		if groups[i].ID != groupID {
			continue
		}
		changed := false
		for _, rid := range resourceIDs {
			if !groups[i].HasMember(rid) {
				groups[i].ResourceIDs = append(groups[i].ResourceIDs, rid)
				changed = true
			}
		}
		if changed {
			if err := s.save(ctx, groups); err != nil {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}

// MembersOf resolves member IDs against the resource store, silently
// dropping IDs that no longer resolve. Order follows the resource bucket
// (most recent first), matching the original membership view.
func (s *GroupStore) MembersOf(ctx context.Context, groupID string) ([]domain.Resource, error) {
	group, err := s.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return []domain.Resource{}, nil
	}

	member := make(map[string]bool, len(group.ResourceIDs))
	for _, rid := range group.ResourceIDs {
		member[rid] = true
	}

	all, err := s.resources.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Resource, 0, len(group.ResourceIDs))
	for _, r := range all {
		if member[r.ID] {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// MembersPage returns one page of the group's resolved resources.
func (s *GroupStore) MembersPage(ctx context.Context, groupID string, page, pageSize int) ([]domain.Resource, int, error) {
	members, err := s.MembersOf(ctx, groupID)
	if err != nil {
		return nil, 0, err
	}
	return Paginate(members, page, pageSize), TotalPages(len(members), pageSize), nil
}

// CascadeRemoveEverywhere removes the resource ID from every group's
// membership. Invoked by the resource store on delete; idempotent.
func (s *GroupStore) CascadeRemoveEverywhere(ctx context.Context, resourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.load(ctx)
	if err != nil {
		return err
	}

	changed := false
	for i := range groups {
		if groups[i].HasMember(resourceID) {
			groups[i].ResourceIDs = remove(groups[i].ResourceIDs, resourceID)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(ctx, groups)
}

// ReplaceAll overwrites the whole bucket. Used by restore paths.
func (s *GroupStore) ReplaceAll(ctx context.Context, groups []domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, groups)
}

func remove(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
