package http

import (
	"net/http"

	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
	"go.uber.org/zap"
)

type StatsHandler struct {
	service ports.StatsService
	log     *zap.SugaredLogger
}

func NewStatsHandler(service ports.StatsService, log *zap.SugaredLogger) *StatsHandler {
	return &StatsHandler{
		service: service,
		log:     log,
	}
}

func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.OverviewEntry{"overview": overview})
}
