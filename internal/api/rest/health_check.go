package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dyleth/fraudshield/internal/infrastructure/cache"
)

// HealthHandlers exposes liveness and readiness probes.
type HealthHandlers struct {
	db      *pgxpool.Pool
	cache   cache.Cache
	version string
}

// NewHealthHandlers creates the health endpoints.
func NewHealthHandlers(db *pgxpool.Pool, c cache.Cache, version string) *HealthHandlers {
	return &HealthHandlers{db: db, cache: c, version: version}
}

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Liveness reports the process is up.
func (h *HealthHandlers) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: h.version})
}

// Readiness pings the hard dependencies.
func (h *HealthHandlers) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string, 2)
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if _, err := h.cache.Exists(ctx, "fs:health"); err != nil {
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	} else {
		checks["redis"] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	writeJSON(w, status, healthResponse{Status: state, Version: h.version, Checks: checks})
}
