// internal/matching/handler.go
package matching

import (
	"encoding/json"
	"net/http"

	"reclaim/internal/httpapi"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the matching endpoint.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/matches", h.handleMatch)
}

func (h *Handler) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FoundItemID string `json:"found_item_id"`
		CaseNumber  string `json:"case_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.FoundItemID == "" || req.CaseNumber == "" {
		http.Error(w, "found_item_id and case_number are required", http.StatusBadRequest)
		return
	}

	result, err := h.service.Match(r.Context(), req.FoundItemID, req.CaseNumber)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}

	httpapi.WriteJSON(w, http.StatusCreated, result)
}
