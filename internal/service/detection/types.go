package detection

import (
	"github.com/google/uuid"
)

// Channel identifies a detection input channel.
type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Action is the recommended handling for a scored input.
type Action string

const (
	ActionAllow     Action = "allow"
	ActionWarn      Action = "warn"
	ActionBlock     Action = "block"
	ActionBlockLink Action = "block_link"
)

// Method tags which pipeline stage produced a verdict.
type Method string

const (
	MethodBlacklist Method = "blacklist"
	MethodML        Method = "ml"
	MethodMLRAG     Method = "ml_rag"
)

// PhoneCheckRequest is one phone lookup. Immutable per call.
type PhoneCheckRequest struct {
	Phone   string
	Country string
	UserID  *uuid.UUID
}

// SMSCheckRequest is one SMS analysis. Immutable per call.
type SMSCheckRequest struct {
	Content string
	Sender  string
	UserID  *uuid.UUID
}

// EmailCheckRequest is one email analysis. Immutable per call.
type EmailCheckRequest struct {
	Sender  string
	Subject string
	Body    string
	UserID  *uuid.UUID
}

// PhoneVerdict is the phone-channel detection result.
type PhoneVerdict struct {
	IsFraud        bool    `json:"is_fraud"`
	Confidence     float64 `json:"confidence"`
	Category       *string `json:"category"`
	Reason         string  `json:"reason"`
	Action         Action  `json:"action"`
	SimilarCases   int     `json:"similar_cases"`
	ResponseTimeMs int     `json:"response_time_ms"`
}

// SMSVerdict is the SMS-channel detection result. SimilarFrauds stays zero
// even when corroboration fires; the neighbor count surfaces only in
// RiskFactors text. Consumers depend on the current value, so keep it.
type SMSVerdict struct {
	IsFraud        bool     `json:"is_fraud"`
	Confidence     float64  `json:"confidence"`
	Category       *string  `json:"category"`
	RiskFactors    []string `json:"risk_factors"`
	Action         Action   `json:"action"`
	SimilarFrauds  int      `json:"similar_frauds"`
	ResponseTimeMs int      `json:"response_time_ms"`
}

// EmailVerdict is the email-channel detection result. SPF/DKIM fields echo
// registry flags on blacklist hits and are honest false placeholders on the
// classifier path; no live check is performed.
type EmailVerdict struct {
	IsFraud        bool     `json:"is_fraud"`
	Confidence     float64  `json:"confidence"`
	PhishingType   *string  `json:"phishing_type"`
	RiskFactors    []string `json:"risk_factors"`
	SenderVerified bool     `json:"sender_verified"`
	SPFValid       bool     `json:"spf_valid"`
	DKIMValid      bool     `json:"dkim_valid"`
	Action         Action   `json:"action"`
	ResponseTimeMs int      `json:"response_time_ms"`
}
