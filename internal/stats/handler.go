// internal/stats/handler.go
package stats

import (
	"net/http"

	"reclaim/internal/httpapi"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Handler struct {
	service Service
	reads   metric.Int64Counter
}

func NewHandler(service Service) *Handler {
	meter := otel.Meter("reclaim/stats")
	reads, _ := meter.Int64Counter("stats.snapshot.reads",
		metric.WithDescription("Number of dashboard snapshot reads"))
	return &Handler{service: service, reads: reads}
}

// Routes mounts the statistics endpoint.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/stats", h.handleSnapshot)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	h.reads.Add(r.Context(), 1)

	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, snap)
}
