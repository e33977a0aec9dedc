package database

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dyleth/fraudshield/internal/domain/errors"
	"github.com/dyleth/fraudshield/internal/domain/report"
)

// ReportRepository persists crowd reports keyed by content fingerprint.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new PostgreSQL report repository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save inserts a new crowd report
func (r *ReportRepository) Save(ctx context.Context, rep *report.UserReport) error {
	query := `
		INSERT INTO user_reports (
			report_id, user_id, report_type, content_hash, phone_number,
			reported_value, fraud_category, comment, timestamp,
			verification_status, verified_by, metadata
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9, $10, $11, $12)
	`

	metadataJSON, err := json.Marshal(rep.Metadata)
	if err != nil {
		return errors.NewInternalError("failed to marshal metadata").WithCause(err)
	}

	_, err = r.db.Exec(ctx, query,
		rep.ReportID,
		rep.UserID,
		rep.ReportType,
		rep.ContentHash,
		rep.PhoneNumber,
		rep.ReportedValue,
		rep.FraudCategory,
		rep.Comment,
		rep.Timestamp,
		rep.VerificationStatus,
		rep.VerifiedBy,
		metadataJSON,
	)
	if err != nil {
		return errors.NewInternalError("failed to save report").WithCause(err)
	}

	return nil
}

// FindByUserAndHash returns a user's prior report for a fingerprint, or
// (nil, nil) when they have not reported it.
func (r *ReportRepository) FindByUserAndHash(ctx context.Context, userID uuid.UUID, hash string, reportType report.ReportType) (*report.UserReport, error) {
	query := `
		SELECT report_id, user_id, report_type, content_hash,
		       COALESCE(phone_number, ''), COALESCE(reported_value, ''),
		       COALESCE(fraud_category, ''), COALESCE(comment, ''),
		       timestamp, verification_status, verified_by
		FROM user_reports
		WHERE user_id = $1 AND content_hash = $2 AND report_type = $3
		LIMIT 1
	`

	var rep report.UserReport
	err := r.db.QueryRow(ctx, query, userID, hash, reportType).Scan(
		&rep.ReportID,
		&rep.UserID,
		&rep.ReportType,
		&rep.ContentHash,
		&rep.PhoneNumber,
		&rep.ReportedValue,
		&rep.FraudCategory,
		&rep.Comment,
		&rep.Timestamp,
		&rep.VerificationStatus,
		&rep.VerifiedBy,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.NewInternalError("failed to query report").WithCause(err)
	}

	return &rep, nil
}

// CountByHash counts all reports sharing a fingerprint on a channel
func (r *ReportRepository) CountByHash(ctx context.Context, hash string, reportType report.ReportType) (int, error) {
	query := `SELECT COUNT(*) FROM user_reports WHERE content_hash = $1 AND report_type = $2`

	var count int
	if err := r.db.QueryRow(ctx, query, hash, reportType).Scan(&count); err != nil {
		return 0, errors.NewInternalError("failed to count reports").WithCause(err)
	}

	return count, nil
}

// MarkVerified flips every report sharing the fingerprint to verified and
// records how many reports backed the promotion.
func (r *ReportRepository) MarkVerified(ctx context.Context, hash string, reportType report.ReportType, verifiedBy int) error {
	query := `
		UPDATE user_reports
		SET verification_status = $1, verified_by = $2
		WHERE content_hash = $3 AND report_type = $4
	`

	_, err := r.db.Exec(ctx, query, report.VerificationVerified, verifiedBy, hash, reportType)
	if err != nil {
		return errors.NewInternalError("failed to mark reports verified").WithCause(err)
	}

	return nil
}

// Counts returns total and verified report counts
func (r *ReportRepository) Counts(ctx context.Context) (int, int, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE verification_status = 'verified')
		FROM user_reports
	`

	var total, verified int
	if err := r.db.QueryRow(ctx, query).Scan(&total, &verified); err != nil {
		return 0, 0, errors.NewInternalError("failed to count reports").WithCause(err)
	}

	return total, verified, nil
}
