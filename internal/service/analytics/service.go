// Package analytics computes platform-wide fraud statistics from the
// registry, the crowd reports and the detection audit log. Access control
// is enforced at the API layer; the service itself is role-agnostic.
package analytics

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/domain/errors"
)

// TopNumber is a most-reported fraudulent phone number.
type TopNumber struct {
	Phone      string  `json:"phone"`
	FraudType  string  `json:"type"`
	Reports    int     `json:"reports"`
	Confidence float64 `json:"confidence"`
}

// TopDomain is a most-blocked fraudulent domain.
type TopDomain struct {
	Domain     string  `json:"domain"`
	Type       string  `json:"type"`
	Blocks     int     `json:"blocks"`
	Reputation float64 `json:"reputation"`
}

// DayCount is one daily bucket in a timeline.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// GlobalStats is the platform-wide roll-up.
type GlobalStats struct {
	TotalFrauds        int            `json:"total_frauds"`
	FraudsBlockedToday int            `json:"frauds_blocked_today"`
	FraudsBlockedWeek  int            `json:"frauds_blocked_week"`
	FraudsBlockedMonth int            `json:"frauds_blocked_month"`
	FraudsByType       map[string]int `json:"frauds_by_type"`
	TotalReports       int            `json:"total_reports"`
	ReportsToday       int            `json:"reports_today"`
	VerifiedReports    int            `json:"verified_reports"`
	PendingReports     int            `json:"pending_reports"`
	TopFraudNumbers    []TopNumber    `json:"top_fraud_numbers"`
	TopFraudDomains    []TopDomain    `json:"top_fraud_domains"`
	AvgDetectionTimeMs float64        `json:"avg_detection_time_ms"`
	TotalDetections    int            `json:"total_detections"`
}

// Timeline is a per-day activity view over a period.
type Timeline struct {
	Period          string     `json:"period"`
	DetectionsByDay []DayCount `json:"detections_by_day"`
	ReportsByDay    []DayCount `json:"reports_by_day"`
}

// Repository provides the aggregate queries behind the stats.
type Repository interface {
	TotalFraudNumbers(ctx context.Context) (int, error)
	FraudDetectionsSince(ctx context.Context, since time.Time) (int, error)
	FraudsByType(ctx context.Context) (map[string]int, error)
	TotalReports(ctx context.Context) (int, error)
	ReportsSince(ctx context.Context, since time.Time) (int, error)
	VerifiedReports(ctx context.Context) (int, error)
	TopNumbers(ctx context.Context, limit int) ([]TopNumber, error)
	TopDomains(ctx context.Context, limit int) ([]TopDomain, error)
	AvgResponseTimeSince(ctx context.Context, since time.Time) (float64, error)
	TotalDetections(ctx context.Context) (int, error)
	DetectionsByDay(ctx context.Context, since time.Time) ([]DayCount, error)
	ReportsByDay(ctx context.Context, since time.Time) ([]DayCount, error)
}

// Service computes analytics views.
type Service interface {
	GlobalStats(ctx context.Context) (*GlobalStats, error)
	Timeline(ctx context.Context, period string) (*Timeline, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates the analytics service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

const topListLimit = 10

func (s *service) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	now := time.Now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekStart := todayStart.AddDate(0, 0, -7)
	monthStart := todayStart.AddDate(0, 0, -30)

	stats := &GlobalStats{}

	var err error
	if stats.TotalFrauds, err = s.repo.TotalFraudNumbers(ctx); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	if stats.FraudsBlockedToday, err = s.repo.FraudDetectionsSince(ctx, todayStart); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	if stats.FraudsBlockedWeek, err = s.repo.FraudDetectionsSince(ctx, weekStart); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	if stats.FraudsBlockedMonth, err = s.repo.FraudDetectionsSince(ctx, monthStart); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	if stats.FraudsByType, err = s.repo.FraudsByType(ctx); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	if stats.TotalReports, err = s.repo.TotalReports(ctx); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	if stats.ReportsToday, err = s.repo.ReportsSince(ctx, todayStart); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	if stats.VerifiedReports, err = s.repo.VerifiedReports(ctx); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	stats.PendingReports = stats.TotalReports - stats.VerifiedReports

	if stats.TopFraudNumbers, err = s.repo.TopNumbers(ctx, topListLimit); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	if stats.TopFraudDomains, err = s.repo.TopDomains(ctx, topListLimit); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}

	avg, err := s.repo.AvgResponseTimeSince(ctx, weekStart)
	if err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}
	stats.AvgDetectionTimeMs = math.Round(avg*100) / 100

	if stats.TotalDetections, err = s.repo.TotalDetections(ctx); err != nil {
		return nil, errors.NewInternalError("stats query failed").WithCause(err)
	}

	return stats, nil
}

func (s *service) Timeline(ctx context.Context, period string) (*Timeline, error) {
	days := periodDays(period)
	since := time.Now().UTC().AddDate(0, 0, -days)

	detections, err := s.repo.DetectionsByDay(ctx, since)
	if err != nil {
		return nil, errors.NewInternalError("timeline query failed").WithCause(err)
	}
	reports, err := s.repo.ReportsByDay(ctx, since)
	if err != nil {
		return nil, errors.NewInternalError("timeline query failed").WithCause(err)
	}

	return &Timeline{
		Period:          period,
		DetectionsByDay: detections,
		ReportsByDay:    reports,
	}, nil
}

func periodDays(period string) int {
	switch period {
	case "day":
		return 1
	case "week":
		return 7
	case "month":
		return 30
	case "year":
		return 365
	default:
		return 7
	}
}
