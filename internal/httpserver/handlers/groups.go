package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/store"
)

func ListGroups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := d.Groups.List(r.Context())
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, groups)
	}
}

func CreateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Name == "" {
			writeResult(w, http.StatusBadRequest, false, "name is required")
			return
		}

		group, err := d.Groups.Create(r.Context(), body.Name)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, group)
	}
}

func RenameGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Name string `json:"name"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Name == "" {
			writeResult(w, http.StatusBadRequest, false, "name is required")
			return
		}

		ok, err := d.Groups.Rename(r.Context(), chi.URLParam(r, "id"), body.Name)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "group not found")
			return
		}
		writeResult(w, http.StatusOK, true, "group renamed")
	}
}

func DeleteGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := d.Groups.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "group not found")
			return
		}
		writeResult(w, http.StatusOK, true, "group deleted")
	}
}

// GroupResources lists one page of the group's resolved member resources.
func GroupResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := chi.URLParam(r, "id")

		group, err := d.Groups.GetByID(ctx, id)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if group == nil {
			writeResult(w, http.StatusNotFound, false, "group not found")
			return
		}

		members, err := d.Groups.MembersOf(ctx, id)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}

		page := pageParam(r)
		writeJSON(w, http.StatusOK, resourcePage{
			Items:      store.Paginate(members, page, d.PageSize),
			Total:      len(members),
			Page:       page,
			TotalPages: store.TotalPages(len(members), d.PageSize),
		})
	}
}

// AddGroupResources accepts a single resource ID or a batch.
func AddGroupResources(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ResourceID  string   `json:"resourceId"`
			ResourceIDs []string `json:"resourceIds"`
		}
		if !decodeBody(w, r, &body) {
			return
		}

		ids := body.ResourceIDs
		if body.ResourceID != "" {
			ids = append(ids, body.ResourceID)
		}
		if len(ids) == 0 {
			writeResult(w, http.StatusBadRequest, false, "resourceId or resourceIds is required")
			return
		}

		ok, err := d.Groups.BatchAddMembers(r.Context(), chi.URLParam(r, "id"), ids)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "group not found")
			return
		}
		writeResult(w, http.StatusOK, true, "resources added to group")
	}
}

func RemoveGroupResource(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := d.Groups.RemoveMember(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "resourceID"))
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "group not found")
			return
		}
		writeResult(w, http.StatusOK, true, "resource removed from group")
	}
}
