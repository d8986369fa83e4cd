package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/httpserver/handlers"
)

func init() { Register(registerResources) }

func registerResources(r chi.Router, d deps.Deps) {
	r.Route("/api/resources", func(r chi.Router) {
		r.Get("/", handlers.ListResources(d))
		r.Post("/", handlers.CreateResource(d))
		r.Post("/batch-delete", handlers.BatchDeleteResources(d))
		r.Get("/categories", handlers.ListCategories(d))
		r.Get("/levels", handlers.ListLevels(d))
		r.Get("/tags", handlers.ListTags(d))
		r.Get("/{id}", handlers.GetResource(d))
		r.Put("/{id}", handlers.UpdateResource(d))
		r.Delete("/{id}", handlers.DeleteResource(d))
	})
}
