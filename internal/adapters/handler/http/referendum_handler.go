package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/referendum/api/internal/core/ports"
	"go.uber.org/zap"
)

type ReferendumHandler struct {
	service ports.ReferendumService
	log     *zap.SugaredLogger
}

func NewReferendumHandler(service ports.ReferendumService, log *zap.SugaredLogger) *ReferendumHandler {
	return &ReferendumHandler{
		service: service,
		log:     log,
	}
}

type createReferendumRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

func (h *ReferendumHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createReferendumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFormError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ref, err := h.service.Create(r.Context(), ports.CreateReferendumInput{
		Title:       req.Title,
		Description: req.Description,
		Options:     req.Options,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, ref)
}

type editReferendumRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Options     []string `json:"options"`
}

func (h *ReferendumHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req editReferendumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFormError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ref, err := h.service.Edit(r.Context(), chi.URLParam(r, "id"), ports.EditReferendumInput{
		Title:       req.Title,
		Description: req.Description,
		Options:     req.Options,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *ReferendumHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFormError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ref, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

func (h *ReferendumHandler) ListForEC(w http.ResponseWriter, r *http.Request) {
	refs, err := h.service.ListForEC(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, refs)
}

// ListForVoter only surfaces referendums that have been opened at least
// once; never-opened drafts stay invisible to voters.
func (h *ReferendumHandler) ListForVoter(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing user context."})
		return
	}

	refs, err := h.service.ListForVoter(r.Context(), claims.VoterID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, refs)
}
