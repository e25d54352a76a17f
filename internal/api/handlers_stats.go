package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleStoreStats(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.StoreClient()
	if !store.Enabled() || store.Stats == nil {
		jsonError(w, "store stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"stats":       store.Stats.Snapshot(),
	})
}
