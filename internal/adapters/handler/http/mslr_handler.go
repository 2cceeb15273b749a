package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
	"go.uber.org/zap"
)

// MSLRHandler serves the unauthenticated read-only feed consumed by the
// external MSLR system. The wire format is fixed by that consumer:
// ids and counts travel as strings, option text is prefixed with its id.
type MSLRHandler struct {
	service ports.ReferendumService
	log     *zap.SugaredLogger
}

func NewMSLRHandler(service ports.ReferendumService, log *zap.SugaredLogger) *MSLRHandler {
	return &MSLRHandler{
		service: service,
		log:     log,
	}
}

// writeError keeps MSLR failures in the {"error": ...} shape the
// consumer expects, unlike the field-keyed errors elsewhere.
func (h *MSLRHandler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrReferendumNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Referendum not found."})
		return
	}
	h.log.Errorw("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error."})
}

type mslrOptions struct {
	Options []map[string]string `json:"options"`
}

type mslrReferendum struct {
	ReferendumID string      `json:"referendum_id"`
	Status       string      `json:"status"`
	Title        string      `json:"referendum_title"`
	Description  string      `json:"referendum_desc"`
	Options      mslrOptions `json:"referendum_options"`
}

func (h *MSLRHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != string(domain.StatusOpen) && status != string(domain.StatusClosed) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Query param 'status' must be 'open' or 'closed'.",
		})
		return
	}

	refs, err := h.service.ListByStatus(r.Context(), domain.Status(status))
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]mslrReferendum, 0, len(refs))
	for _, ref := range refs {
		out = append(out, toMSLRReferendum(ref))
	}

	writeJSON(w, http.StatusOK, map[string][]mslrReferendum{"Referendums": out})
}

func (h *MSLRHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Referendum id must be a number."})
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && status != string(domain.StatusOpen) && status != string(domain.StatusClosed) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Query param 'status' must be 'open' or 'closed'.",
		})
		return
	}

	ref, err := h.service.GetByNumber(r.Context(), number, domain.Status(status))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toMSLRReferendum(ref))
}

func toMSLRReferendum(ref *domain.Referendum) mslrReferendum {
	options := make([]map[string]string, 0, len(ref.Options))
	for _, opt := range ref.Options {
		options = append(options, map[string]string{
			strconv.Itoa(opt.OptionID): fmt.Sprintf("option %d - %s", opt.OptionID, opt.Text),
			"votes":                    strconv.Itoa(opt.VotesCount),
		})
	}

	return mslrReferendum{
		ReferendumID: strconv.FormatInt(ref.Number, 10),
		Status:       string(ref.Status),
		Title:        ref.Title,
		Description:  ref.Description,
		Options:      mslrOptions{Options: options},
	}
}
