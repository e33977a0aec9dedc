package rest

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/infrastructure/auth"
	"github.com/dyleth/fraudshield/internal/infrastructure/cache"
	"github.com/dyleth/fraudshield/internal/infrastructure/config"
	"github.com/dyleth/fraudshield/internal/service/analytics"
	"github.com/dyleth/fraudshield/internal/service/detection"
	"github.com/dyleth/fraudshield/internal/service/reporting"
)

// RouterDeps carries everything the router needs to wire its routes.
type RouterDeps struct {
	Detection detection.Service
	Reporting reporting.Service
	Analytics analytics.Service
	Tokens    auth.Service
	Limiter   cache.RateLimiter
	Cache     cache.Cache
	DB        *pgxpool.Pool
	Security  *config.SecurityConfig
	CORS      []string
	Version   string
	Logger    *zap.Logger
}

// NewRouter assembles the HTTP API.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()
	logger := deps.Logger

	detectionH := NewDetectionHandlers(deps.Detection, logger)
	reportH := NewReportHandlers(deps.Reporting, logger)
	analyticsH := NewAnalyticsHandlers(deps.Analytics, logger)
	adminH := NewAdminHandlers(deps.Reporting, logger)
	healthH := NewHealthHandlers(deps.DB, deps.Cache, deps.Version)

	base := Chain(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		CORSMiddleware(deps.CORS),
		LoggingMiddleware(logger),
		MetricsMiddleware(),
		AuthMiddleware(deps.Tokens, logger),
	)

	quota := QuotaMiddleware(deps.Limiter, deps.Security, logger)
	orgOnly := RequirePermission(auth.PermViewAnalytics, logger)
	adminOnly := RequirePermission(auth.PermManageRegistry, logger)

	// Detection endpoints, quota-limited per role
	mux.Handle("POST /api/v1/check/phone", base(quota(http.HandlerFunc(detectionH.CheckPhone))))
	mux.Handle("POST /api/v1/check/sms", base(quota(http.HandlerFunc(detectionH.CheckSMS))))
	mux.Handle("POST /api/v1/check/email", base(quota(http.HandlerFunc(detectionH.CheckEmail))))

	// Batch check, organisation tier and above
	bulkOnly := RequirePermission(auth.PermBulkCheck, logger)
	mux.Handle("POST /api/v1/check/phone/bulk", base(bulkOnly(quota(http.HandlerFunc(detectionH.CheckPhoneBulk)))))

	// Crowd reports
	mux.Handle("POST /api/v1/report/phone", base(http.HandlerFunc(reportH.ReportPhone)))
	mux.Handle("POST /api/v1/report/sms", base(http.HandlerFunc(reportH.ReportSMS)))
	mux.Handle("POST /api/v1/report/email", base(http.HandlerFunc(reportH.ReportEmail)))
	mux.Handle("GET /api/v1/report/stats", base(http.HandlerFunc(reportH.Stats)))

	// Analytics, organisation tier and above
	mux.Handle("GET /api/v1/analytics/stats", base(orgOnly(http.HandlerFunc(analyticsH.GlobalStats))))
	mux.Handle("GET /api/v1/analytics/timeline", base(orgOnly(http.HandlerFunc(analyticsH.Timeline))))

	// Registry management, admin tier only
	mux.Handle("POST /api/v1/admin/registry/numbers", base(adminOnly(http.HandlerFunc(adminH.AddNumber))))
	mux.Handle("DELETE /api/v1/admin/registry/numbers/{phone}", base(adminOnly(http.HandlerFunc(adminH.RemoveNumber))))

	// Operational endpoints, no auth
	mux.Handle("GET /healthz", http.HandlerFunc(healthH.Liveness))
	mux.Handle("GET /readyz", http.HandlerFunc(healthH.Readiness))
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
