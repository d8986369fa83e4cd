package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/logger"
	"github.com/MrSnakeDoc/resnav/internal/store"
)

// resourcePage is the paginated listing envelope.
type resourcePage struct {
	Items      []domain.Resource `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

// resourceBody is the mutable subset of a resource accepted on create
// and update.
type resourceBody struct {
	Title    string   `json:"title"`
	URL      string   `json:"url"`
	Category string   `json:"category"`
	Level    string   `json:"level"`
	Tags     []string `json:"tags"`
}

func (b resourceBody) toResource() domain.Resource {
	return domain.Resource{
		Title:    b.Title,
		URL:      b.URL,
		Category: b.Category,
		Level:    b.Level,
		Tags:     b.Tags,
	}
}

func pageParam(r *http.Request) int {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}
	return page
}

// ListResources serves the default recency view with optional search and
// filters. Exactly one of q / category / level / tag applies, in that
// order of precedence.
func ListResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q := r.URL.Query()

		var (
			resources []domain.Resource
			err       error
		)
		switch {
		case strings.TrimSpace(q.Get("q")) != "":
			resources, err = d.Resources.Search(ctx, q.Get("q"))
		case q.Get("category") != "":
			resources, err = d.Resources.FilterByCategory(ctx, q.Get("category"))
		case q.Get("level") != "":
			resources, err = d.Resources.FilterByLevel(ctx, q.Get("level"))
		case q.Get("tag") != "":
			resources, err = d.Resources.FilterByTag(ctx, q.Get("tag"))
		default:
			resources, err = d.Resources.List(ctx)
		}
		if err != nil {
			d.Logger.Error("failed to list resources", logger.Error(err))
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}

		resources = store.SortByImportTime(resources)
		page := pageParam(r)
		writeJSON(w, http.StatusOK, resourcePage{
			Items:      store.Paginate(resources, page, d.PageSize),
			Total:      len(resources),
			Page:       page,
			TotalPages: store.TotalPages(len(resources), d.PageSize),
		})
	}
}

func GetResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, err := d.Resources.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if resource == nil {
			writeResult(w, http.StatusNotFound, false, "resource not found")
			return
		}
		writeJSON(w, http.StatusOK, resource)
	}
}

func CreateResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body resourceBody
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Title == "" || body.URL == "" {
			writeResult(w, http.StatusBadRequest, false, "title and url are required")
			return
		}

		resource, err := d.Resources.Add(r.Context(), body.toResource())
		if err != nil {
			d.Logger.Error("failed to add resource", logger.Error(err))
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, resource)
	}
}

func UpdateResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body resourceBody
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Title == "" || body.URL == "" {
			writeResult(w, http.StatusBadRequest, false, "title and url are required")
			return
		}

		ok, err := d.Resources.Update(r.Context(), chi.URLParam(r, "id"), body.toResource())
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "resource not found")
			return
		}
		writeResult(w, http.StatusOK, true, "resource updated")
	}
}

func DeleteResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		ok, err := d.Resources.Delete(r.Context(), id)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "resource not found")
			return
		}
		d.Logger.Info("resource deleted", logger.String("id", id))
		writeResult(w, http.StatusOK, true, "resource deleted")
	}
}

func BatchDeleteResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			IDs []string `json:"ids"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if len(body.IDs) == 0 {
			writeResult(w, http.StatusBadRequest, false, "ids is required")
			return
		}

		ok, err := d.Resources.BatchDelete(r.Context(), body.IDs)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "no matching resources")
			return
		}
		writeResult(w, http.StatusOK, true, "resources deleted")
	}
}

func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := d.Resources.Categories(r.Context())
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, categories)
	}
}

func ListLevels(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		levels, err := d.Resources.Levels(r.Context())
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, levels)
	}
}

func ListTags(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := d.Resources.Tags(r.Context())
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, tags)
	}
}
