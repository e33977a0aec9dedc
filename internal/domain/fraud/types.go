package fraud

import (
	"time"
)

// FraudType categorizes a confirmed fraud entry.
type FraudType string

const (
	FraudTypeSpam     FraudType = "spam"
	FraudTypeScam     FraudType = "scam"
	FraudTypeRobocall FraudType = "robocall"
	FraudTypePhishing FraudType = "phishing"
	FraudTypeSpoofing FraudType = "spoofing"
)

// IsValid reports whether ft is a known fraud type.
func (ft FraudType) IsValid() bool {
	switch ft {
	case FraudTypeSpam, FraudTypeScam, FraudTypeRobocall, FraudTypePhishing, FraudTypeSpoofing:
		return true
	}
	return false
}

// Entry provenance values.
const (
	SourceCrowdsource = "crowdsource"
	SourcePartner     = "partner"
	SourceSeed        = "seed"
	SourceManual      = "manual"
)

// MaxDerivedScore caps confidence and reputation scores derived from report
// counts. Crowd-sourced evidence never saturates to certainty.
const MaxDerivedScore = 0.99

// FraudulentNumber is an authoritative registry entry for a known-fraud
// phone number, keyed by the number itself.
type FraudulentNumber struct {
	PhoneNumber     string                 `json:"phone_number"`
	CountryCode     string                 `json:"country_code"`
	FraudType       FraudType              `json:"fraud_type"`
	ConfidenceScore float64                `json:"confidence_score"`
	ReportCount     int                    `json:"report_count"`
	Verified        bool                   `json:"verified"`
	FirstReported   time.Time              `json:"first_reported"`
	LastReported    time.Time              `json:"last_reported"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Source          string                 `json:"source"`
}

// FraudulentDomain is an authoritative registry entry for a known-fraud
// email domain.
type FraudulentDomain struct {
	Domain          string    `json:"domain"`
	PhishingType    string    `json:"phishing_type"`
	FirstSeen       time.Time `json:"first_seen"`
	BlockedCount    int       `json:"blocked_count"`
	SPFValid        bool      `json:"spf_valid"`
	DKIMValid       bool      `json:"dkim_valid"`
	DMARCPolicy     string    `json:"dmarc_policy,omitempty"`
	ReputationScore float64   `json:"reputation_score"`
}

// SMSPattern is a keyword/regex rule used to seed the SMS classifier.
type SMSPattern struct {
	PatternID         int64     `json:"pattern_id"`
	RegexPattern      string    `json:"regex_pattern,omitempty"`
	Keywords          []string  `json:"keywords"`
	FraudCategory     string    `json:"fraud_category"`
	Language          string    `json:"language"`
	Severity          int       `json:"severity"`
	DetectionCount    int64     `json:"detection_count"`
	FalsePositiveRate float64   `json:"false_positive_rate"`
	CreatedAt         time.Time `json:"created_at"`
}

// ScoreFromReports derives a confidence/reputation score from a crowd report
// count: base plus step per report, clamped to MaxDerivedScore.
func ScoreFromReports(count int, base, step float64) float64 {
	score := base + float64(count)*step
	if score > MaxDerivedScore {
		return MaxDerivedScore
	}
	if score < 0 {
		return 0
	}
	return score
}

// NewCrowdsourcedNumber builds a verified registry entry from an accumulated
// crowd report count.
func NewCrowdsourcedNumber(phone, country string, fraudType FraudType, reportCount int) *FraudulentNumber {
	now := time.Now().UTC()
	return &FraudulentNumber{
		PhoneNumber:     phone,
		CountryCode:     country,
		FraudType:       fraudType,
		ConfidenceScore: ScoreFromReports(reportCount, 0.7, 0.02),
		ReportCount:     reportCount,
		Verified:        true,
		FirstReported:   now,
		LastReported:    now,
		Source:          SourceCrowdsource,
	}
}

// NewManualNumber builds a registry entry added by an operator. Manual
// entries carry the confidence the operator assigned, clamped like any
// other derived score.
func NewManualNumber(phone, country string, fraudType FraudType, confidence float64) *FraudulentNumber {
	if confidence > MaxDerivedScore {
		confidence = MaxDerivedScore
	}
	now := time.Now().UTC()
	return &FraudulentNumber{
		PhoneNumber:     phone,
		CountryCode:     country,
		FraudType:       fraudType,
		ConfidenceScore: confidence,
		ReportCount:     1,
		Verified:        true,
		FirstReported:   now,
		LastReported:    now,
		Source:          SourceManual,
	}
}

// NewCrowdsourcedDomain builds a registry entry for a domain promoted from
// crowd reports.
func NewCrowdsourcedDomain(domain, phishingType string, reportCount int) *FraudulentDomain {
	return &FraudulentDomain{
		Domain:          domain,
		PhishingType:    phishingType,
		FirstSeen:       time.Now().UTC(),
		BlockedCount:    reportCount,
		ReputationScore: ScoreFromReports(reportCount, 0.7, 0.03),
	}
}
