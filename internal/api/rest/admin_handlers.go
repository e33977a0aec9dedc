package rest

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/domain/errors"
	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/service/reporting"
)

// AdminHandlers exposes operator-only registry management.
type AdminHandlers struct {
	reporting reporting.Service
	logger    *zap.Logger
}

// NewAdminHandlers creates handlers over the reporting service.
func NewAdminHandlers(svc reporting.Service, logger *zap.Logger) *AdminHandlers {
	return &AdminHandlers{reporting: svc, logger: logger}
}

func (h *AdminHandlers) AddNumber(w http.ResponseWriter, r *http.Request) {
	var req AdminNumberRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	entry, err := h.reporting.AddRegistryNumber(r.Context(), &reporting.RegistryEntry{
		Phone:      req.Phone,
		Country:    req.Country,
		FraudType:  fraud.FraudType(req.FraudType),
		Confidence: req.Confidence,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *AdminHandlers) RemoveNumber(w http.ResponseWriter, r *http.Request) {
	phone := r.PathValue("phone")
	if phone == "" {
		writeError(w, h.logger, errors.NewValidationError("EMPTY_PHONE", "phone number is required"))
		return
	}

	if err := h.reporting.RemoveRegistryNumber(r.Context(), phone); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
