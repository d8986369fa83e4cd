package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/importer"
	"github.com/MrSnakeDoc/resnav/internal/kv"
	"github.com/MrSnakeDoc/resnav/internal/logger"
	"github.com/MrSnakeDoc/resnav/internal/store"
	"github.com/MrSnakeDoc/resnav/internal/webdav"
)

// resourcePage mirrors the paginated listing envelope.
type resourcePage struct {
	Items      []domain.Resource `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	backend := kv.NewMemory()
	resources := store.NewResourceStore(backend)
	groups := store.NewGroupStore(backend, resources)
	resources.AttachCleaner(groups)
	notes := store.NewNoteStore(backend)

	d := deps.Deps{
		Logger:    logger.Nop(),
		StartTime: time.Now(),
		Version:   "test",
		Resources: resources,
		Groups:    groups,
		Notes:     notes,
		Importer:  importer.New(resources, groups, notes),
		Sync:      webdav.NewService(backend, resources, groups, notes, t.TempDir(), logger.Nop()),
		PageSize:  30,
	}

	r := chi.NewRouter()
	RegisterAll(r, d)
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response %s: %v", rec.Body.String(), err)
	}
}

func TestResourceLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/resources", `{"title": "GitHub", "url": "https://github.com", "tags": ["git"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var created domain.Resource
	decodeInto(t, rec, &created)
	if created.ID == "" || created.ImportTime == 0 {
		t.Fatalf("create returned incomplete resource: %+v", created)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/resources", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d, want 200", rec.Code)
	}
	var page resourcePage
	decodeInto(t, rec, &page)
	if page.Total != 1 || len(page.Items) != 1 || page.TotalPages != 1 {
		t.Errorf("list envelope = %+v, want one resource on one page", page)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/resources/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("get = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/resources/"+created.ID, `{"title": "GitHub 2", "url": "https://github.com"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("update = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/resources/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/resources/"+created.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", rec.Code)
	}
}

func TestCreateResourceValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"url": "https://x.example"}`},
		{name: "missing url", body: `{"title": "x"}`},
		{name: "invalid json", body: `{"title": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/resources", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("create = %d, want 400", rec.Code)
			}
		})
	}
}

func TestListResourcesSearch(t *testing.T) {
	router := newTestRouter(t)

	_ = doJSON(t, router, http.MethodPost, "/api/resources", `{"title": "GitHub", "url": "https://github.com", "category": "Dev"}`)
	_ = doJSON(t, router, http.MethodPost, "/api/resources", `{"title": "Grafana", "url": "https://grafana.example", "category": "Ops"}`)

	rec := doJSON(t, router, http.MethodGet, "/api/resources?q=github", "")
	var page resourcePage
	decodeInto(t, rec, &page)
	if page.Total != 1 || page.Items[0].Title != "GitHub" {
		t.Errorf("search envelope = %+v, want just GitHub", page)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/resources?category=Ops", "")
	page = resourcePage{}
	decodeInto(t, rec, &page)
	if page.Total != 1 || page.Items[0].Title != "Grafana" {
		t.Errorf("category filter envelope = %+v, want just Grafana", page)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/resources/categories", "")
	var categories []string
	decodeInto(t, rec, &categories)
	if len(categories) != 2 {
		t.Errorf("categories = %v, want 2 entries", categories)
	}
}

func TestGroupRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/resources", `{"title": "x", "url": "https://x.example"}`)
	var resource domain.Resource
	decodeInto(t, rec, &resource)

	rec = doJSON(t, router, http.MethodPost, "/api/groups", `{"name": "tools"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var group domain.Group
	decodeInto(t, rec, &group)

	rec = doJSON(t, router, http.MethodPost, "/api/groups/"+group.ID+"/resources", `{"resourceId": "`+resource.ID+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add member = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/groups/"+group.ID+"/resources", "")
	var page resourcePage
	decodeInto(t, rec, &page)
	if page.Total != 1 || page.Items[0].ID != resource.ID {
		t.Errorf("group resources envelope = %+v, want the added member", page)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/groups/"+group.ID+"/resources/"+resource.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("remove member = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/groups/missing/resources", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown group resources = %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/groups/"+group.ID, `{"name": "renamed"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("rename group = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/groups/"+group.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete group = %d, want 200", rec.Code)
	}
}

func TestNoteRoutes(t *testing.T) {
	router := newTestRouter(t)

	// Empty title gets the default.
	rec := doJSON(t, router, http.MethodPost, "/api/notes", `{"content": "remember this"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create note = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var note domain.Note
	decodeInto(t, rec, &note)
	if note.Title != "新笔记" {
		t.Errorf("create note title = %s, want the default", note.Title)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/notes/"+note.ID, `{"title": "titled", "content": "updated"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("update note = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/notes/"+note.ID, "")
	var got domain.Note
	decodeInto(t, rec, &got)
	if got.Title != "titled" || got.Content != "updated" {
		t.Errorf("get note = %+v, want the updated fields", got)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/notes/"+note.ID, "")
	if rec.Code != http.StatusOK {
		t.Errorf("delete note = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/notes/"+note.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted note = %d, want 404", rec.Code)
	}
}

func TestImportExportRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/import", `[
		{"title": "one", "url": "https://one.example"},
		{"title": "two", "url": "https://two.example"}
	]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("import = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var result domain.ImportResult
	decodeInto(t, rec, &result)
	if !result.Success || result.Count != 2 {
		t.Errorf("import result = %+v, want success with count 2", result)
	}

	// Invalid batch must not change the store.
	rec = doJSON(t, router, http.MethodPost, "/api/import", `[{"title": "no url"}]`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid import = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/export", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("export Content-Disposition = %q, want attachment", cd)
	}
	var exported []domain.Resource
	decodeInto(t, rec, &exported)
	if len(exported) != 2 {
		t.Errorf("export returned %d resources, want 2", len(exported))
	}

	rec = doJSON(t, router, http.MethodPost, "/api/clear", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("clear = %d, want 200", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/export", "")
	exported = nil
	decodeInto(t, rec, &exported)
	if len(exported) != 0 {
		t.Errorf("export after clear returned %d resources, want 0", len(exported))
	}
}

func TestSyncConfigRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPut, "/api/sync/config", `{"url": "https://dav.example", "username": "alice", "password": "secret", "path": "resnav"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("save config = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/sync/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get config = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "secret") {
		t.Error("get config echoed the stored password")
	}
	var cfg struct {
		URL         string `json:"url"`
		Username    string `json:"username"`
		HasPassword bool   `json:"hasPassword"`
	}
	decodeInto(t, rec, &cfg)
	if cfg.URL != "https://dav.example" || cfg.Username != "alice" || !cfg.HasPassword {
		t.Errorf("get config = %+v, want saved values with hasPassword", cfg)
	}

	// Saving with an empty password keeps the stored one.
	rec = doJSON(t, router, http.MethodPut, "/api/sync/config", `{"url": "https://dav.example", "username": "alice", "password": "", "path": "other"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-save config = %d, want 200", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/sync/config", "")
	decodeInto(t, rec, &cfg)
	if !cfg.HasPassword {
		t.Error("re-save with empty password dropped the stored credential")
	}
}

func TestSyncLocalModeRoutes(t *testing.T) {
	router := newTestRouter(t)

	// No remote configured, but the service has a local directory.
	rec := doJSON(t, router, http.MethodPost, "/api/sync/test", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("test connection = %d, want 200", rec.Code)
	}
	var result domain.Result
	decodeInto(t, rec, &result)
	if !result.Success {
		t.Errorf("test connection result = %+v, want local-mode success", result)
	}

	_ = doJSON(t, router, http.MethodPost, "/api/resources", `{"title": "x", "url": "https://x.example"}`)

	rec = doJSON(t, router, http.MethodPost, "/api/sync/backup", "")
	result = domain.Result{}
	decodeInto(t, rec, &result)
	if !result.Success {
		t.Errorf("backup result = %+v, want local-mode success", result)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/sync/sync", "")
	result = domain.Result{}
	decodeInto(t, rec, &result)
	if !result.Success {
		t.Errorf("sync result = %+v, want restore from the local backup", result)
	}
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("healthz = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("readyz = %d, want 200", rec.Code)
	}
}
