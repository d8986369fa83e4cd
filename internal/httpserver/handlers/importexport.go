package handlers

import (
	"io"
	"net/http"

	"github.com/MrSnakeDoc/resnav/internal/httpserver/deps"
	"github.com/MrSnakeDoc/resnav/internal/logger"
)

// Import accepts the raw import payload: a JSON array, a single object,
// or one object per line. The whole batch is rejected on any invalid
// record.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeResult(w, http.StatusBadRequest, false, "failed to read request body")
			return
		}

		result := d.Importer.ImportBatch(r.Context(), raw)
		if !result.Success {
			writeJSON(w, http.StatusBadRequest, result)
			return
		}

		d.Logger.Info("import completed", logger.Int("count", result.Count))
		writeJSON(w, http.StatusOK, result)
	}
}

// Export serves the full resource bucket as a downloadable JSON array,
// import timestamps included.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resources, err := d.Importer.ExportAll(r.Context())
		if err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}

		w.Header().Set("Content-Disposition", `attachment; filename="resources_export.json"`)
		writeJSON(w, http.StatusOK, resources)
	}
}

// ClearAll wipes resources, groups and notes. Irreversible; the client
// is expected to confirm before calling.
func ClearAll(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Importer.ClearAll(r.Context()); err != nil {
			writeResult(w, http.StatusInternalServerError, false, err.Error())
			return
		}
		d.Logger.Warn("all data cleared")
		writeResult(w, http.StatusOK, true, "all data cleared")
	}
}
