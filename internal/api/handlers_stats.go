package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}

	stored := 0
	if s.results != nil {
		stored = s.results.Len()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"conversions":    s.stats.Snapshot(),
		"stored_results": stored,
	})
}
