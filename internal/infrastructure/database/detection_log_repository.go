package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dyleth/fraudshield/internal/domain/errors"
	"github.com/dyleth/fraudshield/internal/domain/report"
)

// DetectionLogRepository is the append-only audit store for detection calls.
// It backs the detection pipeline's audit sink and the retention job.
type DetectionLogRepository struct {
	db *pgxpool.Pool
}

// NewDetectionLogRepository creates a new PostgreSQL detection log repository
func NewDetectionLogRepository(db *pgxpool.Pool) *DetectionLogRepository {
	return &DetectionLogRepository{db: db}
}

// Append writes one audit entry. Entries are never updated afterwards.
func (r *DetectionLogRepository) Append(ctx context.Context, entry *report.DetectionLog) error {
	query := `
		INSERT INTO detection_logs (
			user_id, detection_type, is_fraud, confidence, method_used,
			response_time_ms, timestamp, model_version, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	`

	metadataJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return errors.NewInternalError("failed to marshal metadata").WithCause(err)
	}

	_, err = r.db.Exec(ctx, query,
		entry.UserID,
		entry.DetectionType,
		entry.IsFraud,
		entry.Confidence,
		entry.MethodUsed,
		entry.ResponseTimeMs,
		entry.Timestamp,
		entry.ModelVersion,
		metadataJSON,
	)
	if err != nil {
		return errors.NewInternalError("failed to append detection log").WithCause(err)
	}

	return nil
}

// DeleteOlderThan removes entries past the retention cutoff and returns how
// many rows were deleted.
func (r *DetectionLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM detection_logs WHERE timestamp < $1`, cutoff)
	if err != nil {
		return 0, errors.NewInternalError("failed to delete expired detection logs").WithCause(err)
	}

	return tag.RowsAffected(), nil
}
