package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/httpserver/handlers"
)

func init() { Register(registerImportExport) }

func registerImportExport(r chi.Router, d deps.Deps) {
	r.Post("/api/import", handlers.Import(d))
	r.Get("/api/export", handlers.Export(d))
	r.Post("/api/clear", handlers.ClearAll(d))
}
