// internal/lifecycle/handler.go
package lifecycle

import (
	"encoding/json"
	"io"
	"net/http"

	"reclaim/internal/admingate"
	"reclaim/internal/httpapi"

	"github.com/go-chi/chi/v5"
)

// adminSecretHeader carries the caller-supplied admin secret. Handlers
// exchange it for a Grant at the gate; a missing header yields the zero
// Grant, which fails every gated operation.
const adminSecretHeader = "X-Admin-Secret"

type Handler struct {
	service Service
	gate    *admingate.Gate
}

func NewHandler(service Service, gate *admingate.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// Routes mounts the lifecycle endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/reports", h.handleCreateReport)
	r.Get("/reports", h.handleListReports)
	r.Get("/reports/{caseNumber}", h.handleGetReport)
	r.Post("/reports/{caseNumber}/found", h.handleMarkFound)
	r.Post("/reports/{caseNumber}/archive", h.handleArchiveReport)
	r.Post("/reports/{caseNumber}/unclaimed", h.handleReportUnclaimed)
	r.Delete("/reports/{caseNumber}", h.handleDeleteReport)

	r.Post("/found", h.handleLogFound)
	r.Get("/found", h.handleListFound)
	r.Get("/found/claimable", h.handleListClaimable)
	r.Get("/found/{id}", h.handleGetFound)
	r.Post("/found/{id}/claim", h.handleClaim)
	r.Post("/found/{id}/archive", h.handleArchiveFound)
	r.Post("/found/{id}/unclaimed", h.handleFoundUnclaimed)
}

// grant exchanges the admin secret header for a capability. An absent or
// rejected secret returns the zero Grant; the service reports Unauthorized
// before it evaluates anything else.
func (h *Handler) grant(r *http.Request) admingate.Grant {
	secret := r.Header.Get(adminSecretHeader)
	if secret == "" {
		return admingate.Grant{}
	}
	g, err := h.gate.Authorize(r.Context(), secret)
	if err != nil {
		return admingate.Grant{}
	}
	return g
}

func (h *Handler) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var draft ReportDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if draft.ReporterID == "" || draft.ItemName == "" {
		http.Error(w, "reporter_id and item_name are required", http.StatusBadRequest)
		return
	}

	report, err := h.service.CreateLostReport(r.Context(), draft)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, report)
}

func (h *Handler) handleListReports(w http.ResponseWriter, r *http.Request) {
	reporter := r.URL.Query().Get("reporter")
	if reporter == "" {
		http.Error(w, "missing reporter", http.StatusBadRequest)
		return
	}

	reports, err := h.service.ListLostReportsByReporter(r.Context(), reporter)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, reports)
}

func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.GetLostReport(r.Context(), chi.URLParam(r, "caseNumber"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleMarkFound(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.MarkLostAsFound(r.Context(), chi.URLParam(r, "caseNumber"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleArchiveReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ArchiveLostReport(r.Context(), h.grant(r), chi.URLParam(r, "caseNumber"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleReportUnclaimed(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.MarkLostAsUnclaimed(r.Context(), h.grant(r), chi.URLParam(r, "caseNumber"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteLostReport(r.Context(), h.grant(r), chi.URLParam(r, "caseNumber")); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLogFound(w http.ResponseWriter, r *http.Request) {
	var draft FoundDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if draft.ItemName == "" || draft.CustodianOfficeID == "" {
		http.Error(w, "item_name and custodian_office_id are required", http.StatusBadRequest)
		return
	}

	item, err := h.service.LogFoundItem(r.Context(), draft)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleListFound(w http.ResponseWriter, r *http.Request) {
	staffUser := r.URL.Query().Get("office_of")
	if staffUser == "" {
		http.Error(w, "missing office_of", http.StatusBadRequest)
		return
	}

	items, err := h.service.ListFoundItemsByOffice(r.Context(), staffUser)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleListClaimable(w http.ResponseWriter, r *http.Request) {
	reporter := r.URL.Query().Get("reporter")
	if reporter == "" {
		http.Error(w, "missing reporter", http.StatusBadRequest)
		return
	}

	items, err := h.service.ListClaimableFoundItems(r.Context(), reporter)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) handleGetFound(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetFoundItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.MarkFoundAsClaimed(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleArchiveFound(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Disposition string `json:"disposition"`
	}
	// The body is optional, but if one is sent it has to parse.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.service.ArchiveFoundItem(r.Context(), h.grant(r), chi.URLParam(r, "id"), req.Disposition)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) handleFoundUnclaimed(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.MarkFoundAsUnclaimed(r.Context(), h.grant(r), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, item)
}
