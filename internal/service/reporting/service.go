package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/domain/errors"
	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/domain/report"
	"github.com/dyleth/fraudshield/internal/service/detection"
	"github.com/dyleth/fraudshield/internal/telemetry"
)

// service implements the Service interface
type service struct {
	reports  ReportStore
	registry RegistryWriter
	embedder detection.Embedder
	index    detection.SimilarityIndex
	logger   *zap.Logger
}

// NewService creates the report aggregator. Embedder and index may be
// disabled handles; verified SMS content is then not seeded into the
// similarity index.
func NewService(reports ReportStore, registry RegistryWriter, embedder detection.Embedder, index detection.SimilarityIndex, logger *zap.Logger) Service {
	return &service{
		reports:  reports,
		registry: registry,
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// SubmitPhoneReport records a phone report and, at the promotion
// threshold, verifies the group and creates or touches the registry entry.
func (s *service) SubmitPhoneReport(ctx context.Context, req *PhoneReport) (*Receipt, error) {
	if req.Phone == "" {
		return nil, errors.NewValidationError("EMPTY_PHONE", "phone number is required")
	}
	if !req.FraudType.IsValid() {
		return nil, errors.NewValidationError("INVALID_FRAUD_TYPE", fmt.Sprintf("unknown fraud type %q", req.FraudType))
	}

	// Registry entries are keyed by the normalized spelling so detection
	// lookups agree regardless of how the reporter formatted the number.
	phone := fraud.NormalizePhone(req.Phone)
	hash := fraud.Fingerprint(phone)

	if req.UserID != nil {
		existing, err := s.reports.FindByUserAndHash(ctx, *req.UserID, hash, report.ReportTypeCall)
		if err != nil {
			return nil, errors.NewInternalError("report lookup failed").WithCause(err)
		}
		if existing != nil {
			return nil, errors.NewConflictError("Vous avez déjà signalé ce numéro")
		}
	}

	newReport := report.NewUserReport(req.UserID, report.ReportTypeCall, hash)
	newReport.PhoneNumber = req.Phone
	newReport.ReportedValue = req.Phone
	newReport.FraudCategory = string(req.FraudType)
	if err := s.reports.Save(ctx, newReport); err != nil {
		return nil, errors.NewInternalError("failed to save report").WithCause(err)
	}
	telemetry.ReportsSubmitted.WithLabelValues("phone").Inc()

	total, err := s.reports.CountByHash(ctx, hash, report.ReportTypeCall)
	if err != nil {
		return nil, errors.NewInternalError("failed to count reports").WithCause(err)
	}

	receipt := &Receipt{
		ReportID:     newReport.ReportID,
		Message:      fmt.Sprintf("Signalement enregistré. Total: %d signalement(s)", total),
		TotalReports: total,
	}

	if total >= PhonePromotionThreshold {
		if err := s.reports.MarkVerified(ctx, hash, report.ReportTypeCall, total); err != nil {
			return nil, errors.NewInternalError("failed to verify reports").WithCause(err)
		}
		receipt.Verified = true

		entry, err := s.registry.FindNumber(ctx, phone)
		if err != nil {
			return nil, errors.NewInternalError("registry lookup failed").WithCause(err)
		}
		if entry != nil {
			if err := s.registry.IncrementNumberReports(ctx, phone); err != nil {
				return nil, errors.NewInternalError("registry update failed").WithCause(err)
			}
		} else {
			if err := s.registry.InsertNumber(ctx, fraud.NewCrowdsourcedNumber(phone, req.Country, req.FraudType, total)); err != nil {
				return nil, errors.NewInternalError("registry insert failed").WithCause(err)
			}
			receipt.AutoAdded = true
			telemetry.RegistryPromotions.WithLabelValues("phone").Inc()
			s.logger.Info("phone number promoted to registry",
				zap.String("fingerprint", hash),
				zap.Int("reports", total))
		}
	}

	return receipt, nil
}

// SubmitSMSReport records an SMS report. At the threshold the group is
// verified and the content vector is seeded into the similarity index so
// future low-confidence detections can corroborate against it.
func (s *service) SubmitSMSReport(ctx context.Context, req *SMSReport) (*Receipt, error) {
	if req.Content == "" {
		return nil, errors.NewValidationError("EMPTY_CONTENT", "message content is required")
	}

	hash := fraud.Fingerprint(req.Content)

	newReport := report.NewUserReport(req.UserID, report.ReportTypeSMS, hash)
	newReport.ReportedValue = truncate(req.Content, 100)
	newReport.FraudCategory = req.FraudCategory
	newReport.Comment = req.Comment
	if err := s.reports.Save(ctx, newReport); err != nil {
		return nil, errors.NewInternalError("failed to save report").WithCause(err)
	}
	telemetry.ReportsSubmitted.WithLabelValues("sms").Inc()

	total, err := s.reports.CountByHash(ctx, hash, report.ReportTypeSMS)
	if err != nil {
		return nil, errors.NewInternalError("failed to count reports").WithCause(err)
	}

	receipt := &Receipt{
		ReportID:     newReport.ReportID,
		Message:      fmt.Sprintf("SMS signalé. Total: %d signalement(s)", total),
		TotalReports: total,
	}

	if total >= SMSPromotionThreshold {
		if err := s.reports.MarkVerified(ctx, hash, report.ReportTypeSMS, total); err != nil {
			return nil, errors.NewInternalError("failed to verify reports").WithCause(err)
		}
		receipt.Verified = true
		telemetry.RegistryPromotions.WithLabelValues("sms").Inc()
		s.seedVector(ctx, req.Content, hash, req.FraudCategory)
	}

	return receipt, nil
}

// SubmitEmailReport records a domain report and, at the threshold,
// creates or touches the fraudulent-domain registry entry.
func (s *service) SubmitEmailReport(ctx context.Context, req *EmailReport) (*Receipt, error) {
	if req.Domain == "" {
		return nil, errors.NewValidationError("EMPTY_DOMAIN", "domain is required")
	}

	domain := fraud.NormalizeDomain(req.Domain)
	hash := fraud.Fingerprint(domain)

	newReport := report.NewUserReport(req.UserID, report.ReportTypeEmail, hash)
	newReport.ReportedValue = domain
	newReport.FraudCategory = req.PhishingType
	newReport.Comment = req.Comment
	if err := s.reports.Save(ctx, newReport); err != nil {
		return nil, errors.NewInternalError("failed to save report").WithCause(err)
	}
	telemetry.ReportsSubmitted.WithLabelValues("email").Inc()

	total, err := s.reports.CountByHash(ctx, hash, report.ReportTypeEmail)
	if err != nil {
		return nil, errors.NewInternalError("failed to count reports").WithCause(err)
	}

	receipt := &Receipt{
		ReportID:     newReport.ReportID,
		Message:      fmt.Sprintf("Email signalé. Total: %d signalement(s)", total),
		TotalReports: total,
	}

	if total >= DomainPromotionThreshold {
		if err := s.reports.MarkVerified(ctx, hash, report.ReportTypeEmail, total); err != nil {
			return nil, errors.NewInternalError("failed to verify reports").WithCause(err)
		}
		receipt.Verified = true

		entry, err := s.registry.FindDomain(ctx, domain)
		if err != nil {
			return nil, errors.NewInternalError("registry lookup failed").WithCause(err)
		}
		if entry != nil {
			if err := s.registry.IncrementDomainBlocked(ctx, domain); err != nil {
				return nil, errors.NewInternalError("registry update failed").WithCause(err)
			}
		} else {
			if err := s.registry.InsertDomain(ctx, fraud.NewCrowdsourcedDomain(domain, req.PhishingType, total)); err != nil {
				return nil, errors.NewInternalError("registry insert failed").WithCause(err)
			}
			receipt.AutoAdded = true
			telemetry.RegistryPromotions.WithLabelValues("email").Inc()
			s.logger.Info("domain promoted to registry",
				zap.String("domain", domain),
				zap.Int("reports", total))
		}
	}

	return receipt, nil
}

// AddRegistryNumber inserts an operator-supplied number straight into the
// registry. Existing entries are not overwritten.
func (s *service) AddRegistryNumber(ctx context.Context, req *RegistryEntry) (*fraud.FraudulentNumber, error) {
	if req.Phone == "" {
		return nil, errors.NewValidationError("EMPTY_PHONE", "phone number is required")
	}
	if !req.FraudType.IsValid() {
		return nil, errors.NewValidationError("INVALID_FRAUD_TYPE", fmt.Sprintf("unknown fraud type %q", req.FraudType))
	}
	if req.Confidence <= 0 || req.Confidence > 1 {
		return nil, errors.NewValidationError("INVALID_CONFIDENCE", "confidence must be in (0, 1]")
	}

	phone := fraud.NormalizePhone(req.Phone)
	existing, err := s.registry.FindNumber(ctx, phone)
	if err != nil {
		return nil, errors.NewInternalError("registry lookup failed").WithCause(err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("number already registered")
	}

	entry := fraud.NewManualNumber(phone, req.Country, req.FraudType, req.Confidence)
	if err := s.registry.InsertNumber(ctx, entry); err != nil {
		return nil, errors.NewInternalError("registry insert failed").WithCause(err)
	}
	s.logger.Info("number added to registry by operator",
		zap.String("fraud_type", string(req.FraudType)),
		zap.Float64("confidence", entry.ConfidenceScore))
	return entry, nil
}

// RemoveRegistryNumber deletes a registry entry, for takedowns of
// wrongly listed numbers.
func (s *service) RemoveRegistryNumber(ctx context.Context, phone string) error {
	if phone == "" {
		return errors.NewValidationError("EMPTY_PHONE", "phone number is required")
	}
	if err := s.registry.RemoveNumber(ctx, fraud.NormalizePhone(phone)); err != nil {
		if _, ok := errors.AsAppError(err); ok {
			return err
		}
		return errors.NewInternalError("registry delete failed").WithCause(err)
	}
	return nil
}

// Stats returns the crowd-report roll-up.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	total, verified, err := s.reports.Counts(ctx)
	if err != nil {
		return nil, errors.NewInternalError("failed to compute report stats").WithCause(err)
	}
	return &Stats{
		TotalReports:    total,
		VerifiedReports: verified,
		PendingReports:  total - verified,
	}, nil
}

// seedVector indexes verified SMS content for future corroboration.
// Best effort; a disabled or failing backend is not a submission error.
func (s *service) seedVector(ctx context.Context, content, hash, category string) {
	if s.embedder == nil || !s.embedder.Enabled() || s.index == nil || !s.index.Enabled() {
		return
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	vector, err := s.embedder.Embed(sctx, content)
	if err != nil || len(vector) == 0 {
		s.logger.Debug("embedding skipped for verified report", zap.Error(err))
		return
	}
	err = s.index.Upsert(sctx, vector, map[string]interface{}{
		"content_hash": hash,
		"category":     category,
		"verified_at":  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("similarity index seed failed", zap.String("fingerprint", hash), zap.Error(err))
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
