package http

import (
	"encoding/json"
	"net/http"

	"github.com/referendum/api/internal/core/ports"
	"go.uber.org/zap"
)

type VoteHandler struct {
	service ports.VoteService
	log     *zap.SugaredLogger
}

func NewVoteHandler(service ports.VoteService, log *zap.SugaredLogger) *VoteHandler {
	return &VoteHandler{
		service: service,
		log:     log,
	}
}

type castVoteRequest struct {
	ReferendumID string `json:"referendumId"`
	OptionID     *int   `json:"optionId"`
}

func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing user context."})
		return
	}

	var req castVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFormError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ReferendumID == "" || req.OptionID == nil {
		writeFormError(w, http.StatusBadRequest, "referendumId and optionId are required.")
		return
	}

	ref, err := h.service.CastVote(r.Context(), ports.CastVoteInput{
		VoterID:      claims.VoterID,
		ReferendumID: req.ReferendumID,
		OptionID:     *req.OptionID,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "VOTE_RECORDED",
		"referendum": ref,
	})
}
