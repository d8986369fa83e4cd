package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/httpserver/handlers"
)

func init() { Register(registerSync) }

func registerSync(r chi.Router, d deps.Deps) {
	r.Route("/api/sync", func(r chi.Router) {
		r.Get("/config", handlers.GetSyncConfig(d))
		r.Put("/config", handlers.SaveSyncConfig(d))
		r.Post("/test", handlers.TestConnection(d))
		r.Post("/backup", handlers.Backup(d))
		r.Post("/sync", handlers.Sync(d))
	})
}
