package web

import (
	"errors"
	"net/http"

	"expense-desk/internal/app"
	"expense-desk/internal/core"
	"expense-desk/internal/directory"

	"github.com/go-chi/chi/v5"
)

// createDraft handles POST /api/drafts — opens a new draft session.
func (h *Handler) createDraft(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.CreateDraft(r.Context())
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

// getDraft handles GET /api/drafts/{id}.
func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetDraft(r.Context(), draftID(r))
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// updateDraft handles PATCH /api/drafts/{id} — header fields (type, description, note).
func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request) {
	var req app.UpdateDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.UpdateDraft(r.Context(), draftID(r), req)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// addItem handles POST /api/drafts/{id}/items.
func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req app.LineItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.AddLineItem(r.Context(), draftID(r), req)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, result)
}

// updateItem handles PATCH /api/drafts/{id}/items/{key}.
func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req app.LineItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.UpdateLineItem(r.Context(), draftID(r), itemKey(r), req)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// removeItem handles DELETE /api/drafts/{id}/items/{key}. Removal is
// idempotent; deleting an unknown key still returns the current draft state.
func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RemoveLineItem(r.Context(), draftID(r), itemKey(r))
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, result)
}

type setPayeeRequest struct {
	PayeeID string `json:"payee_id"`
}

// setPayee handles PUT /api/drafts/{id}/payee. An empty payee_id clears the
// selection; either way the draft's payout method is reset.
func (h *Handler) setPayee(w http.ResponseWriter, r *http.Request) {
	var req setPayeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.SetPayee(r.Context(), draftID(r), req.PayeeID)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// setPayoutMethod handles PUT /api/drafts/{id}/payout-method.
func (h *Handler) setPayoutMethod(w http.ResponseWriter, r *http.Request) {
	var req app.PayoutMethodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.SetPayoutMethod(r.Context(), draftID(r), req)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// submitDraft handles POST /api/drafts/{id}/submit. An unsubmittable draft
// gets HTTP 422 with the complete per-field error set.
func (h *Handler) submitDraft(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.SubmitDraft(r.Context(), draftID(r))
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			submissionsTotal.WithLabelValues("rejected").Inc()
		} else {
			submissionsTotal.WithLabelValues("error").Inc()
		}
		h.writeDraftError(w, r, err)
		return
	}
	submissionsTotal.WithLabelValues("accepted").Inc()
	writeJSON(w, result)
}

type prefillRequest struct {
	Text string `json:"text"`
}

// prefillDraft handles POST /api/drafts/{id}/prefill — natural-language
// description goes in, a proposed draft comes back.
func (h *Handler) prefillDraft(w http.ResponseWriter, r *http.Request) {
	var req prefillRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, r, "text is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.PrefillDraft(r.Context(), draftID(r), req.Text)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// listPayees handles GET /api/payees.
func (h *Handler) listPayees(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListPayees(r.Context())
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// getPayee handles GET /api/payees/{id}.
func (h *Handler) getPayee(w http.ResponseWriter, r *http.Request) {
	payee, err := h.svc.GetPayee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, payee)
}

// writeDraftError maps service-layer errors to HTTP responses.
func (h *Handler) writeDraftError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidationError(w, r, verr.Errors)
	case errors.Is(err, app.ErrDraftNotFound):
		writeError(w, r, "draft not found or expired", "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, directory.ErrPayeeNotFound):
		writeError(w, r, "payee not found", "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrTypeNotSet):
		writeError(w, r, "select an expense type before editing line items", "TYPE_NOT_SET", http.StatusConflict)
	default:
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	}
}
