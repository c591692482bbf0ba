package handlers

import (
	"net/http"
)

// Health reports liveness and whether simulations are being persisted.
func Health(persisting bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		res := map[string]any{"status": "ok", "persisting": persisting}
		writeJSON(w, r, http.StatusOK, res)
	}
}
