package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dyleth/fraudshield/internal/domain/errors"
	"github.com/dyleth/fraudshield/internal/service/analytics"
)

// AnalyticsRepository runs the aggregate queries behind the stats views.
type AnalyticsRepository struct {
	db *pgxpool.Pool
}

// NewAnalyticsRepository creates a new PostgreSQL analytics repository
func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) TotalFraudNumbers(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM fraudulent_numbers`)
}

func (r *AnalyticsRepository) FraudDetectionsSince(ctx context.Context, since time.Time) (int, error) {
	return r.countQuery(ctx,
		`SELECT COUNT(*) FROM detection_logs WHERE is_fraud AND timestamp >= $1`, since)
}

func (r *AnalyticsRepository) FraudsByType(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT fraud_type, COUNT(*) FROM fraudulent_numbers GROUP BY fraud_type`)
	if err != nil {
		return nil, errors.NewInternalError("failed to query frauds by type").WithCause(err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var fraudType string
		var count int
		if err := rows.Scan(&fraudType, &count); err != nil {
			return nil, errors.NewInternalError("failed to scan frauds by type").WithCause(err)
		}
		result[fraudType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to read frauds by type").WithCause(err)
	}

	return result, nil
}

func (r *AnalyticsRepository) TotalReports(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM user_reports`)
}

func (r *AnalyticsRepository) ReportsSince(ctx context.Context, since time.Time) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM user_reports WHERE timestamp >= $1`, since)
}

func (r *AnalyticsRepository) VerifiedReports(ctx context.Context) (int, error) {
	return r.countQuery(ctx,
		`SELECT COUNT(*) FROM user_reports WHERE verification_status = 'verified'`)
}

func (r *AnalyticsRepository) TopNumbers(ctx context.Context, limit int) ([]analytics.TopNumber, error) {
	rows, err := r.db.Query(ctx, `
		SELECT phone_number, fraud_type, report_count, confidence_score
		FROM fraudulent_numbers
		ORDER BY report_count DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to query top numbers").WithCause(err)
	}
	defer rows.Close()

	var result []analytics.TopNumber
	for rows.Next() {
		var n analytics.TopNumber
		if err := rows.Scan(&n.Phone, &n.FraudType, &n.Reports, &n.Confidence); err != nil {
			return nil, errors.NewInternalError("failed to scan top numbers").WithCause(err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to read top numbers").WithCause(err)
	}

	return result, nil
}

func (r *AnalyticsRepository) TopDomains(ctx context.Context, limit int) ([]analytics.TopDomain, error) {
	rows, err := r.db.Query(ctx, `
		SELECT domain, phishing_type, blocked_count, reputation_score
		FROM fraudulent_domains
		ORDER BY blocked_count DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to query top domains").WithCause(err)
	}
	defer rows.Close()

	var result []analytics.TopDomain
	for rows.Next() {
		var d analytics.TopDomain
		if err := rows.Scan(&d.Domain, &d.Type, &d.Blocks, &d.Reputation); err != nil {
			return nil, errors.NewInternalError("failed to scan top domains").WithCause(err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to read top domains").WithCause(err)
	}

	return result, nil
}

func (r *AnalyticsRepository) AvgResponseTimeSince(ctx context.Context, since time.Time) (float64, error) {
	var avg float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(response_time_ms), 0)
		FROM detection_logs
		WHERE timestamp >= $1
	`, since).Scan(&avg)
	if err != nil {
		return 0, errors.NewInternalError("failed to query avg response time").WithCause(err)
	}

	return avg, nil
}

func (r *AnalyticsRepository) TotalDetections(ctx context.Context) (int, error) {
	return r.countQuery(ctx, `SELECT COUNT(*) FROM detection_logs`)
}

func (r *AnalyticsRepository) DetectionsByDay(ctx context.Context, since time.Time) ([]analytics.DayCount, error) {
	return r.dayBuckets(ctx, `
		SELECT TO_CHAR(DATE(timestamp), 'YYYY-MM-DD'), COUNT(*)
		FROM detection_logs
		WHERE timestamp >= $1
		GROUP BY DATE(timestamp)
		ORDER BY DATE(timestamp)
	`, since)
}

func (r *AnalyticsRepository) ReportsByDay(ctx context.Context, since time.Time) ([]analytics.DayCount, error) {
	return r.dayBuckets(ctx, `
		SELECT TO_CHAR(DATE(timestamp), 'YYYY-MM-DD'), COUNT(*)
		FROM user_reports
		WHERE timestamp >= $1
		GROUP BY DATE(timestamp)
		ORDER BY DATE(timestamp)
	`, since)
}

func (r *AnalyticsRepository) countQuery(ctx context.Context, query string, args ...interface{}) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.NewInternalError("failed to run count query").WithCause(err)
	}
	return count, nil
}

func (r *AnalyticsRepository) dayBuckets(ctx context.Context, query string, since time.Time) ([]analytics.DayCount, error) {
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, errors.NewInternalError("failed to query daily buckets").WithCause(err)
	}
	defer rows.Close()

	var result []analytics.DayCount
	for rows.Next() {
		var b analytics.DayCount
		if err := rows.Scan(&b.Date, &b.Count); err != nil {
			return nil, errors.NewInternalError("failed to scan daily bucket").WithCause(err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to read daily buckets").WithCause(err)
	}

	return result, nil
}
