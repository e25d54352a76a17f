package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists documents known to the chunk store.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.StoreClient()
	if !store.Enabled() {
		jsonError(w, "chunk store not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	docs, err := store.ListDocuments(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": docs})
}

// handleDeleteDocument deletes a document and all its stored chunks.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	store := s.orchestrator.StoreClient()
	if !store.Enabled() {
		jsonError(w, "chunk store not configured", http.StatusServiceUnavailable)
		return
	}

	docID := chi.URLParam(r, "docID")
	if err := store.DeleteDocument(r.Context(), docID); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doc_id": docID, "deleted": true})
}
