package reporting

import (
	"context"

	"github.com/google/uuid"

	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/domain/report"
)

// Service accumulates crowd reports and promotes fingerprints into the
// authoritative registry once the per-channel threshold is crossed.
type Service interface {
	SubmitPhoneReport(ctx context.Context, req *PhoneReport) (*Receipt, error)
	SubmitSMSReport(ctx context.Context, req *SMSReport) (*Receipt, error)
	SubmitEmailReport(ctx context.Context, req *EmailReport) (*Receipt, error)
	Stats(ctx context.Context) (*Stats, error)

	// Operator-only registry management.
	AddRegistryNumber(ctx context.Context, req *RegistryEntry) (*fraud.FraudulentNumber, error)
	RemoveRegistryNumber(ctx context.Context, phone string) error
}

// ReportStore persists crowd reports grouped by content fingerprint.
type ReportStore interface {
	FindByUserAndHash(ctx context.Context, userID uuid.UUID, hash string, reportType report.ReportType) (*report.UserReport, error)
	Save(ctx context.Context, r *report.UserReport) error
	CountByHash(ctx context.Context, hash string, reportType report.ReportType) (int, error)
	MarkVerified(ctx context.Context, hash string, reportType report.ReportType, verifiedBy int) error
	Counts(ctx context.Context) (total, verified int, err error)
}

// RegistryWriter is the write side of the authoritative registry. Counter
// increments are atomic at the store; concurrent reports must not lose
// updates.
type RegistryWriter interface {
	FindNumber(ctx context.Context, phone string) (*fraud.FraudulentNumber, error)
	InsertNumber(ctx context.Context, entry *fraud.FraudulentNumber) error
	IncrementNumberReports(ctx context.Context, phone string) error
	RemoveNumber(ctx context.Context, phone string) error
	FindDomain(ctx context.Context, domain string) (*fraud.FraudulentDomain, error)
	InsertDomain(ctx context.Context, entry *fraud.FraudulentDomain) error
	IncrementDomainBlocked(ctx context.Context, domain string) error
}
