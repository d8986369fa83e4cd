package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/resnav/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, status int, success bool, message string) {
	writeJSON(w, status, domain.Result{Success: success, Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeResult(w, http.StatusBadRequest, false, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
