package report

import (
	"time"

	"github.com/google/uuid"
)

// DetectionLog is an append-only audit record written once per detection
// call. It is immutable after the write; only the retention job removes
// entries past the cutoff.
type DetectionLog struct {
	LogID          int64                  `json:"log_id"`
	UserID         *uuid.UUID             `json:"user_id,omitempty"`
	DetectionType  string                 `json:"detection_type"`
	IsFraud        bool                   `json:"is_fraud"`
	Confidence     float64                `json:"confidence"`
	MethodUsed     string                 `json:"method_used"`
	ResponseTimeMs int                    `json:"response_time_ms"`
	Timestamp      time.Time              `json:"timestamp"`
	ModelVersion   string                 `json:"model_version,omitempty"`
	Metadata       map[string]interface{} `json:"meta_data,omitempty"`
}

// RetentionPeriod is how long detection logs are kept before the cleanup
// job deletes them.
const RetentionPeriod = 90 * 24 * time.Hour
