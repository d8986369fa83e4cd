package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/httpserver/handlers"
)

func init() { Register(registerGroups) }

func registerGroups(r chi.Router, d deps.Deps) {
	r.Route("/api/groups", func(r chi.Router) {
		r.Get("/", handlers.ListGroups(d))
		r.Post("/", handlers.CreateGroup(d))
		r.Put("/{id}", handlers.RenameGroup(d))
		r.Delete("/{id}", handlers.DeleteGroup(d))
		r.Get("/{id}/resources", handlers.GroupResources(d))
		r.Post("/{id}/resources", handlers.AddGroupResources(d))
		r.Delete("/{id}/resources/{resourceID}", handlers.RemoveGroupResource(d))
	})
}
