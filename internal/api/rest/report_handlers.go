package rest

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/service/reporting"
)

// ReportHandlers exposes crowd-report submission and stats.
type ReportHandlers struct {
	reporting reporting.Service
	logger    *zap.Logger
}

// NewReportHandlers creates handlers over the reporting service.
func NewReportHandlers(svc reporting.Service, logger *zap.Logger) *ReportHandlers {
	return &ReportHandlers{reporting: svc, logger: logger}
}

func (h *ReportHandlers) ReportPhone(w http.ResponseWriter, r *http.Request) {
	var req ReportPhoneRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipt, err := h.reporting.SubmitPhoneReport(r.Context(), &reporting.PhoneReport{
		Phone:     req.Phone,
		Country:   req.Country,
		FraudType: fraud.FraudType(req.FraudType),
		UserID:    callerID(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (h *ReportHandlers) ReportSMS(w http.ResponseWriter, r *http.Request) {
	var req ReportSMSRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipt, err := h.reporting.SubmitSMSReport(r.Context(), &reporting.SMSReport{
		Content:       req.Content,
		FraudCategory: req.FraudCategory,
		Comment:       req.Comment,
		UserID:        callerID(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (h *ReportHandlers) ReportEmail(w http.ResponseWriter, r *http.Request) {
	var req ReportEmailRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipt, err := h.reporting.SubmitEmailReport(r.Context(), &reporting.EmailReport{
		Domain:       req.Domain,
		PhishingType: req.PhishingType,
		Comment:      req.Comment,
		UserID:       callerID(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, receipt)
}

func (h *ReportHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reporting.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
