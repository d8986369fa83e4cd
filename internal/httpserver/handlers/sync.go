package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/resnav/internal/domain"
	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
)

// syncConfigResponse never echoes the stored password back.
type syncConfigResponse struct {
	URL         string `json:"url"`
	Username    string `json:"username"`
	Path        string `json:"path"`
	HasPassword bool   `json:"hasPassword"`
}

func GetSyncConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := d.Sync.Config(r.Context())
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, syncConfigResponse{
			URL:         cfg.URL,
			Username:    cfg.Username,
			Path:        cfg.Path,
			HasPassword: cfg.Password != "",
		})
	}
}

func SaveSyncConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg domain.SyncConfig
		if !decodeBody(w, r, &cfg) {
			return
		}

		// An empty password keeps the stored one, so a client can save a
		// config it read back without re-entering credentials.
		if cfg.Password == "" {
			current, err := d.Sync.Config(r.Context())
			if err != nil {
				writeResult(w, http.StatusInternalServerError, false, err.Error())
				return
			}
			cfg.Password = current.Password
		}

		if err := d.Sync.SaveConfig(r.Context(), cfg); err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		writeResult(w, http.StatusOK, true, "configuration saved")
	}
}

// TestConnection probes the saved configuration, or the one supplied in
// the request body when present.
func TestConnection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var override *domain.SyncConfig
		if r.ContentLength > 0 {
			var cfg domain.SyncConfig
			if !decodeBody(w, r, &cfg) {
				return
			}
			override = &cfg
		}

		writeJSON(w, http.StatusOK, d.Sync.TestConnection(r.Context(), override))
	}
}

func Backup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Sync.Backup(r.Context()))
	}
}

func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Sync.Sync(r.Context()))
	}
}
