package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/referendum/api/internal/core/domain"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeFieldErrors(w http.ResponseWriter, status int, errs domain.FieldErrors) {
	writeJSON(w, status, map[string]domain.FieldErrors{"errors": errs})
}

func writeFormError(w http.ResponseWriter, status int, message string) {
	writeFieldErrors(w, status, domain.FieldErrors{"form": message})
}

// writeError maps domain errors onto HTTP responses. Internal errors
// are logged and replaced with a generic message so nothing leaks.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	var fieldErrs domain.FieldErrors
	if errors.As(err, &fieldErrs) {
		writeFieldErrors(w, http.StatusBadRequest, fieldErrs)
		return
	}

	switch {
	case errors.Is(err, domain.ErrReferendumNotFound),
		errors.Is(err, domain.ErrOptionNotFound):
		writeFormError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrCodeUsed):
		writeFormError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotOpen),
		errors.Is(err, domain.ErrInvalidReferendumID):
		writeFormError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrReferendumLocked):
		writeFormError(w, http.StatusBadRequest,
			"This referendum has already been opened to voters and can no longer be edited (title, description, or options).")
	default:
		log.Errorw("internal error", "error", err)
		writeFormError(w, http.StatusInternalServerError, "Internal server error. Please try again.")
	}
}
