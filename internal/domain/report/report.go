package report

import (
	"time"

	"github.com/google/uuid"
)

// ReportType identifies the channel a crowd report concerns.
type ReportType string

const (
	ReportTypeCall  ReportType = "call"
	ReportTypeSMS   ReportType = "sms"
	ReportTypeEmail ReportType = "email"
)

// VerificationStatus tracks community verification of a report.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// UserReport is a single crowd-submitted fraud report. Reports with the same
// content hash are grouped for promotion into the authoritative registry.
type UserReport struct {
	ReportID           uuid.UUID              `json:"report_id"`
	UserID             *uuid.UUID             `json:"user_id,omitempty"`
	ReportType         ReportType             `json:"report_type"`
	ContentHash        string                 `json:"content_hash"`
	PhoneNumber        string                 `json:"phone_number,omitempty"`
	ReportedValue      string                 `json:"reported_value,omitempty"`
	FraudCategory      string                 `json:"fraud_category,omitempty"`
	Comment            string                 `json:"comment,omitempty"`
	Timestamp          time.Time              `json:"timestamp"`
	VerificationStatus VerificationStatus     `json:"verification_status"`
	VerifiedBy         int                    `json:"verified_by"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
}

// NewUserReport constructs a pending report for the given channel and hash.
func NewUserReport(userID *uuid.UUID, reportType ReportType, contentHash string) *UserReport {
	return &UserReport{
		ReportID:           uuid.New(),
		UserID:             userID,
		ReportType:         reportType,
		ContentHash:        contentHash,
		Timestamp:          time.Now().UTC(),
		VerificationStatus: VerificationPending,
	}
}
