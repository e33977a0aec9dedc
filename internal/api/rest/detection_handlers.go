package rest

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/service/detection"
)

// DetectionHandlers exposes the three check endpoints.
type DetectionHandlers struct {
	detection detection.Service
	logger    *zap.Logger
}

// NewDetectionHandlers creates handlers over the detection service.
func NewDetectionHandlers(svc detection.Service, logger *zap.Logger) *DetectionHandlers {
	return &DetectionHandlers{detection: svc, logger: logger}
}

func (h *DetectionHandlers) CheckPhone(w http.ResponseWriter, r *http.Request) {
	var req CheckPhoneRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	verdict, err := h.detection.CheckPhone(r.Context(), &detection.PhoneCheckRequest{
		Phone:   req.Phone,
		Country: req.Country,
		UserID:  callerID(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

// CheckPhoneBulk runs the phone check over a batch of numbers. A failing
// number does not abort the batch; its slot carries the error message.
func (h *DetectionHandlers) CheckPhoneBulk(w http.ResponseWriter, r *http.Request) {
	var req BulkCheckRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := callerID(r)
	results := make([]BulkCheckResult, len(req.Phones))
	for i, phone := range req.Phones {
		verdict, err := h.detection.CheckPhone(r.Context(), &detection.PhoneCheckRequest{
			Phone:   phone,
			Country: req.Country,
			UserID:  userID,
		})
		results[i] = BulkCheckResult{Phone: phone, Verdict: verdict}
		if err != nil {
			h.logger.Warn("bulk check entry failed", zap.Error(err))
			results[i].Error = "check failed"
		}
	}

	writeJSON(w, http.StatusOK, BulkCheckResponse{Results: results})
}

func (h *DetectionHandlers) CheckSMS(w http.ResponseWriter, r *http.Request) {
	var req CheckSMSRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	verdict, err := h.detection.CheckSMS(r.Context(), &detection.SMSCheckRequest{
		Content: req.Content,
		Sender:  req.Sender,
		UserID:  callerID(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

func (h *DetectionHandlers) CheckEmail(w http.ResponseWriter, r *http.Request) {
	var req CheckEmailRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	verdict, err := h.detection.CheckEmail(r.Context(), &detection.EmailCheckRequest{
		Sender:  req.Sender,
		Subject: req.Subject,
		Body:    req.Body,
		UserID:  callerID(r),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, verdict)
}

// callerID extracts the authenticated user id, nil for anonymous callers.
func callerID(r *http.Request) *uuid.UUID {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		id := claims.UserID
		return &id
	}
	return nil
}
