package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"expense-desk/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	uploadDir string // directory for temporary proof uploads
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string) http.Handler {
	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = os.TempDir()
	}

	h := &Handler{
		svc:       svc,
		uploadDir: uploadDir,
	}

	h.startUploadCleanup()

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Health and metrics ───────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Handle("/metrics", promhttp.Handler())

	// File upload: body limit is managed inside the handler (multipart).
	r.Post("/api/uploads", h.uploadProof)

	// All other endpoints: 1 MB body limit to prevent unbounded request abuse.
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		// ── Payee directory ───────────────────────────────────────────────────
		r.Get("/api/payees", h.listPayees)
		r.Get("/api/payees/{id}", h.getPayee)

		// ── Draft sessions ────────────────────────────────────────────────────
		r.Post("/api/drafts", h.createDraft)
		r.Get("/api/drafts/{id}", h.getDraft)
		r.Patch("/api/drafts/{id}", h.updateDraft)
		r.Post("/api/drafts/{id}/items", h.addItem)
		r.Patch("/api/drafts/{id}/items/{key}", h.updateItem)
		r.Delete("/api/drafts/{id}/items/{key}", h.removeItem)
		r.Put("/api/drafts/{id}/payee", h.setPayee)
		r.Put("/api/drafts/{id}/payout-method", h.setPayoutMethod)
		r.Post("/api/drafts/{id}/submit", h.submitDraft)
		r.Post("/api/drafts/{id}/prefill", h.prefillDraft)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// draftID extracts the {id} URL parameter.
func draftID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// itemKey extracts the {key} URL parameter.
func itemKey(r *http.Request) string {
	return chi.URLParam(r, "key")
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
