package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
)

type noteBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func ListNotes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notes, err := d.Notes.List(r.Context())
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, notes)
	}
}

func GetNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		note, err := d.Notes.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if note == nil {
			writeResult(w, http.StatusNotFound, false, "note not found")
			return
		}
		writeJSON(w, http.StatusOK, note)
	}
}

func CreateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body noteBody
		if !decodeBody(w, r, &body) {
			return
		}
		if body.Title == "" {
			body.Title = "新笔记"
		}

		note, err := d.Notes.Create(r.Context(), body.Title, body.Content)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, note)
	}
}

func UpdateNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body noteBody
		if !decodeBody(w, r, &body) {
			return
		}

		ok, err := d.Notes.Update(r.Context(), chi.URLParam(r, "id"), body.Title, body.Content)
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "note not found")
			return
		}
		writeResult(w, http.StatusOK, true, "note updated")
	}
}

func DeleteNote(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ok, err := d.Notes.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		if !ok {
			writeResult(w, http.StatusNotFound, false, "note not found")
			return
		}
		writeResult(w, http.StatusOK, true, "note deleted")
	}
}
