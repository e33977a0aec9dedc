package reporting

import (
	"github.com/google/uuid"

	"github.com/dyleth/fraudshield/internal/domain/fraud"
)

// Promotion thresholds: total report count per fingerprint at which a
// report group is verified and the registry entry is created or touched.
const (
	PhonePromotionThreshold  = 10
	SMSPromotionThreshold    = 5
	DomainPromotionThreshold = 8
)

// PhoneReport is one crowd report of a fraudulent number.
type PhoneReport struct {
	Phone     string
	Country   string
	FraudType fraud.FraudType
	UserID    *uuid.UUID
}

// SMSReport is one crowd report of a fraudulent message.
type SMSReport struct {
	Content       string
	FraudCategory string
	Comment       string
	UserID        *uuid.UUID
}

// EmailReport is one crowd report of a fraudulent domain.
type EmailReport struct {
	Domain       string
	PhishingType string
	Comment      string
	UserID       *uuid.UUID
}

// RegistryEntry is an operator request to add a number to the registry
// directly, bypassing the crowd promotion path.
type RegistryEntry struct {
	Phone      string
	Country    string
	FraudType  fraud.FraudType
	Confidence float64
}

// Receipt summarizes a submission: the running total for the fingerprint
// and whether this submission crossed the promotion threshold.
type Receipt struct {
	ReportID     uuid.UUID `json:"report_id"`
	Message      string    `json:"message"`
	TotalReports int       `json:"total_reports"`
	Verified     bool      `json:"verified"`
	AutoAdded    bool      `json:"auto_added"`
}

// Stats is the crowd-report roll-up.
type Stats struct {
	TotalReports    int `json:"total_reports"`
	VerifiedReports int `json:"verified_reports"`
	PendingReports  int `json:"pending_reports"`
}
