package rest

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/service/analytics"
)

// AnalyticsHandlers exposes the role-gated statistics views.
type AnalyticsHandlers struct {
	analytics analytics.Service
	logger    *zap.Logger
}

// NewAnalyticsHandlers creates handlers over the analytics service.
func NewAnalyticsHandlers(svc analytics.Service, logger *zap.Logger) *AnalyticsHandlers {
	return &AnalyticsHandlers{analytics: svc, logger: logger}
}

func (h *AnalyticsHandlers) GlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.GlobalStats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *AnalyticsHandlers) Timeline(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}

	timeline, err := h.analytics.Timeline(r.Context(), period)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, timeline)
}
