package store

import (
	"context"
	"testing"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/kv"
)

func newTestStores(t *testing.T) (*ResourceStore, *GroupStore) {
	t.Helper()
	backend := kv.NewMemory()
	resources := NewResourceStore(backend)
	groups := NewGroupStore(backend, resources)
	resources.AttachCleaner(groups)
	return resources, groups
}

func TestAddAssignsUniqueIDs(t *testing.T) {
	resources, _ := newTestStores(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		r, err := resources.Add(ctx, domain.Resource{Title: "GitHub", URL: "https://github.com"})
		if err != nil {
			t.Fatalf("Add() error: %v", err)
		}
		if r.ID == "" {
			t.Fatal("Add() returned empty id")
		}
		if seen[r.ID] {
			t.Fatalf("Add() returned duplicate id %s", r.ID)
		}
		seen[r.ID] = true
		if r.ImportTime == 0 {
			t.Error("Add() did not set import timestamp")
		}
		if r.Tags == nil {
			t.Error("Add() should normalize nil tags to an empty slice")
		}
	}
}

func TestAddPrepends(t *testing.T) {
	resources, _ := newTestStores(t)
	ctx := context.Background()

	first, _ := resources.Add(ctx, domain.Resource{Title: "first", URL: "https://a.example"})
	second, _ := resources.Add(ctx, domain.Resource{Title: "second", URL: "https://b.example"})

	list, err := resources.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d resources, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("Add() should prepend: got order [%s %s]", list[0].ID, list[1].ID)
	}
}

func TestUpdate(t *testing.T) {
	resources, _ := newTestStores(t)
	ctx := context.Background()

	r, _ := resources.Add(ctx, domain.Resource{Title: "old", URL: "https://old.example"})

	ok, err := resources.Update(ctx, r.ID, domain.Resource{Title: "new", URL: "https://new.example", Tags: []string{"x"}})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if !ok {
		t.Fatal("Update() = false for existing id")
	}

	got, _ := resources.GetByID(ctx, r.ID)
	if got == nil {
		t.Fatal("GetByID() = nil after update")
	}
	if got.ID != r.ID {
		t.Errorf("Update() changed id to %s", got.ID)
	}
	if got.Title != "new" || got.URL != "https://new.example" {
		t.Errorf("Update() did not replace fields: %+v", got)
	}
	if got.ImportTime != r.ImportTime {
		t.Errorf("Update() should preserve import timestamp when none supplied")
	}

	ok, err = resources.Update(ctx, "missing", domain.Resource{Title: "x", URL: "https://x.example"})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if ok {
		t.Error("Update() = true for unknown id")
	}
}

func TestDeleteCascades(t *testing.T) {
	resources, groups := newTestStores(t)
	ctx := context.Background()

	r, _ := resources.Add(ctx, domain.Resource{Title: "GitHub", URL: "https://github.com"})
	g, err := groups.Create(ctx, "tools")
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := groups.AddMember(ctx, g.ID, r.ID); err != nil {
		t.Fatalf("AddMember() error: %v", err)
	}

	before, _ := resources.List(ctx)

	ok, err := resources.Delete(ctx, r.ID)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if !ok {
		t.Fatal("Delete() = false for existing id")
	}

	after, _ := resources.List(ctx)
	if len(after) != len(before)-1 {
		t.Errorf("Delete() left %d resources, want %d", len(after), len(before)-1)
	}
	for _, res := range after {
		if res.ID == r.ID {
			t.Error("Delete() left the resource in the bucket")
		}
	}

	got, _ := groups.GetByID(ctx, g.ID)
	if got == nil {
		t.Fatal("group disappeared after resource delete")
	}
	if got.HasMember(r.ID) {
		t.Error("Delete() did not cascade removal from group membership")
	}

	ok, _ = resources.Delete(ctx, r.ID)
	if ok {
		t.Error("Delete() = true for already-deleted id")
	}
}

func TestBatchDelete(t *testing.T) {
	resources, groups := newTestStores(t)
	ctx := context.Background()

	a, _ := resources.Add(ctx, domain.Resource{Title: "a", URL: "https://a.example"})
	b, _ := resources.Add(ctx, domain.Resource{Title: "b", URL: "https://b.example"})
	c, _ := resources.Add(ctx, domain.Resource{Title: "c", URL: "https://c.example"})

	g, _ := groups.Create(ctx, "mixed")
	_, _ = groups.BatchAddMembers(ctx, g.ID, []string{a.ID, b.ID, c.ID})

	tests := []struct {
		name      string
		ids       []string
		want      bool
		remaining int
	}{
		{name: "partial match succeeds", ids: []string{a.ID, "missing"}, want: true, remaining: 2},
		{name: "no match fails", ids: []string{"nope"}, want: false, remaining: 2},
		{name: "empty input fails", ids: nil, want: false, remaining: 2},
		{name: "remaining ids", ids: []string{b.ID, c.ID}, want: true, remaining: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := resources.BatchDelete(ctx, tt.ids)
			if err != nil {
				t.Fatalf("BatchDelete() error: %v", err)
			}
			if ok != tt.want {
				t.Errorf("BatchDelete() = %v, want %v", ok, tt.want)
			}
			list, _ := resources.List(ctx)
			if len(list) != tt.remaining {
				t.Errorf("BatchDelete() left %d resources, want %d", len(list), tt.remaining)
			}
		})
	}

	got, _ := groups.GetByID(ctx, g.ID)
	if len(got.ResourceIDs) != 0 {
		t.Errorf("BatchDelete() left %d dangling membership ids", len(got.ResourceIDs))
	}
}

func TestSearch(t *testing.T) {
	resources, _ := newTestStores(t)
	ctx := context.Background()

	seedData := []domain.Resource{
		{Title: "GitHub", URL: "https://github.com"},
		{Title: "Some tool", URL: "https://tools.example", Tags: []string{"GitHub-tools"}},
		{Title: "Grafana", URL: "https://grafana.example", Category: "Monitoring", Level: "运维, Lv2"},
	}
	for _, r := range seedData {
		if _, err := resources.Add(ctx, r); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "matches url and tag case-insensitively", query: "github", want: 2},
		{name: "matches category", query: "monitoring", want: 1},
		{name: "matches level", query: "lv2", want: 1},
		{name: "empty query returns all", query: "", want: 3},
		{name: "whitespace query returns all", query: "   ", want: 3},
		{name: "no match", query: "zzz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resources.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("Search() error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("Search(%q) returned %d resources, want %d", tt.query, len(got), tt.want)
			}
		})
	}
}

func TestFilters(t *testing.T) {
	resources, _ := newTestStores(t)
	ctx := context.Background()

	_, _ = resources.Add(ctx, domain.Resource{Title: "a", URL: "https://a.example", Category: "Dev", Level: "Dev, Lv1", Tags: []string{"git"}})
	_, _ = resources.Add(ctx, domain.Resource{Title: "b", URL: "https://b.example", Category: "Dev", Level: "Dev, Lv2", Tags: []string{"git", "ci"}})
	_, _ = resources.Add(ctx, domain.Resource{Title: "c", URL: "https://c.example", Category: "Ops", Level: "Ops, Lv10"})

	byCategory, _ := resources.FilterByCategory(ctx, "Dev")
	if len(byCategory) != 2 {
		t.Errorf("FilterByCategory(Dev) returned %d, want 2", len(byCategory))
	}
	all, _ := resources.FilterByCategory(ctx, "all")
	if len(all) != 3 {
		t.Errorf("FilterByCategory(all) returned %d, want 3", len(all))
	}

	byLevel, _ := resources.FilterByLevel(ctx, "Lv2")
	if len(byLevel) != 1 || byLevel[0].Title != "b" {
		t.Errorf("FilterByLevel(Lv2) = %+v, want just b", byLevel)
	}

	byTag, _ := resources.FilterByTag(ctx, "git")
	if len(byTag) != 2 {
		t.Errorf("FilterByTag(git) returned %d, want 2", len(byTag))
	}
	// Exact tag membership, not substring.
	byTag, _ = resources.FilterByTag(ctx, "gi")
	if len(byTag) != 0 {
		t.Errorf("FilterByTag(gi) returned %d, want 0", len(byTag))
	}

	categories, _ := resources.Categories(ctx)
	if len(categories) != 2 || categories[0] != "Dev" || categories[1] != "Ops" {
		t.Errorf("Categories() = %v, want [Dev Ops]", categories)
	}

	levels, _ := resources.Levels(ctx)
	if len(levels) != 3 || levels[0] != "Lv1" || levels[1] != "Lv2" || levels[2] != "Lv10" {
		t.Errorf("Levels() = %v, want numeric order [Lv1 Lv2 Lv10]", levels)
	}

	tags, _ := resources.Tags(ctx)
	if len(tags) != 2 || tags[0] != "ci" || tags[1] != "git" {
		t.Errorf("Tags() = %v, want [ci git]", tags)
	}
}

func TestSortByImportTime(t *testing.T) {
	input := []domain.Resource{
		{ID: "a", ImportTime: 100},
		{ID: "b", ImportTime: 300},
		{ID: "c", ImportTime: 200},
		{ID: "d", ImportTime: 200},
	}

	sorted := SortByImportTime(input)

	wantOrder := []string{"b", "c", "d", "a"}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Errorf("SortByImportTime()[%d] = %s, want %s (ties must keep insertion order)", i, sorted[i].ID, id)
		}
	}

	// Input must not be mutated.
	if input[0].ID != "a" {
		t.Error("SortByImportTime() mutated its input")
	}
}
