package detection

import (
	"context"
	"time"

	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/domain/report"
)

// Service is the multi-channel detection pipeline.
type Service interface {
	// CheckPhone scores a phone number for fraud likelihood
	CheckPhone(ctx context.Context, req *PhoneCheckRequest) (*PhoneVerdict, error)
	// CheckSMS scores an SMS message for fraud likelihood
	CheckSMS(ctx context.Context, req *SMSCheckRequest) (*SMSVerdict, error)
	// CheckEmail scores an email for fraud likelihood
	CheckEmail(ctx context.Context, req *EmailCheckRequest) (*EmailVerdict, error)
}

// VerdictCache memoizes prior verdicts under a fingerprint key. Errors are
// treated as cache misses by the pipeline; the cache is never load-bearing.
type VerdictCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Registry is the read side of the authoritative fraud registry. A nil
// entry with a nil error means the key is not listed.
type Registry interface {
	FindNumber(ctx context.Context, phone string) (*fraud.FraudulentNumber, error)
	FindDomain(ctx context.Context, domain string) (*fraud.FraudulentDomain, error)
}

// PhoneFeatures carries call-metadata signals into the phone classifier.
// The feature set belongs to the classifier contract, not the pipeline.
type PhoneFeatures struct {
	Hour      int
	CallCount int
}

// PhonePrediction is the phone classifier output.
type PhonePrediction struct {
	IsFraud    bool
	Confidence float64
}

// TextPrediction is the text classifier output, shared by SMS and email.
type TextPrediction struct {
	IsFraud     bool
	Confidence  float64
	RiskFactors []string
}

// Classifier is the opaque scoring function behind the pipeline. The
// contract is stable whether the implementation is rule-based or trained.
type Classifier interface {
	PredictPhone(ctx context.Context, phone string, features PhoneFeatures) (*PhonePrediction, error)
	PredictText(ctx context.Context, content, sender string) (*TextPrediction, error)
}

// Embedder maps free text to a vector. Enabled is checked once per call;
// a disabled embedder skips corroboration rather than failing the request.
type Embedder interface {
	Enabled() bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Neighbor is a nearest-neighbor search hit.
type Neighbor struct {
	ID      string
	Score   float32
	Payload map[string]interface{}
}

// SimilarityIndex retrieves previously-seen vectors by similarity.
type SimilarityIndex interface {
	Enabled() bool
	Search(ctx context.Context, vector []float32, limit int) ([]Neighbor, error)
	Upsert(ctx context.Context, vector []float32, payload map[string]interface{}) error
}

// AuditSink appends detection log entries. Append failures must never
// propagate to the detection caller.
type AuditSink interface {
	Append(ctx context.Context, entry *report.DetectionLog) error
}
