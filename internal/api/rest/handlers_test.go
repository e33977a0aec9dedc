package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/infrastructure/auth"
	"github.com/dyleth/fraudshield/internal/infrastructure/config"
	"github.com/dyleth/fraudshield/internal/service/analytics"
	"github.com/dyleth/fraudshield/internal/service/detection"
	"github.com/dyleth/fraudshield/internal/service/reporting"
)

type mockDetection struct {
	mock.Mock
}

func (m *mockDetection) CheckPhone(ctx context.Context, req *detection.PhoneCheckRequest) (*detection.PhoneVerdict, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*detection.PhoneVerdict), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDetection) CheckSMS(ctx context.Context, req *detection.SMSCheckRequest) (*detection.SMSVerdict, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*detection.SMSVerdict), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDetection) CheckEmail(ctx context.Context, req *detection.EmailCheckRequest) (*detection.EmailVerdict, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*detection.EmailVerdict), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReporting struct {
	mock.Mock
}

func (m *mockReporting) SubmitPhoneReport(ctx context.Context, req *reporting.PhoneReport) (*reporting.Receipt, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*reporting.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReporting) SubmitSMSReport(ctx context.Context, req *reporting.SMSReport) (*reporting.Receipt, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*reporting.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReporting) SubmitEmailReport(ctx context.Context, req *reporting.EmailReport) (*reporting.Receipt, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*reporting.Receipt), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReporting) AddRegistryNumber(ctx context.Context, req *reporting.RegistryEntry) (*fraud.FraudulentNumber, error) {
	args := m.Called(ctx, req)
	if v := args.Get(0); v != nil {
		return v.(*fraud.FraudulentNumber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReporting) RemoveRegistryNumber(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

func (m *mockReporting) Stats(ctx context.Context) (*reporting.Stats, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*reporting.Stats), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAnalytics struct {
	mock.Mock
}

func (m *mockAnalytics) GlobalStats(ctx context.Context) (*analytics.GlobalStats, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*analytics.GlobalStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAnalytics) Timeline(ctx context.Context, period string) (*analytics.Timeline, error) {
	args := m.Called(ctx, period)
	if v := args.Get(0); v != nil {
		return v.(*analytics.Timeline), args.Error(1)
	}
	return nil, args.Error(1)
}

// stubLimiter always allows unless tripped.
type stubLimiter struct {
	denied bool
}

func (s *stubLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return !s.denied, nil
}

func (s *stubLimiter) Count(ctx context.Context, key string, window time.Duration) (int, error) {
	return 0, nil
}

func (s *stubLimiter) Reset(ctx context.Context, key string) error { return nil }

func (s *stubLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	return limit, nil
}

type testEnv struct {
	detection *mockDetection
	reporting *mockReporting
	analytics *mockAnalytics
	limiter   *stubLimiter
	tokens    auth.Service
	handler   http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		detection: &mockDetection{},
		reporting: &mockReporting{},
		analytics: &mockAnalytics{},
		limiter:   &stubLimiter{},
		tokens:    auth.NewJWTService("test-secret", time.Hour),
	}
	env.handler = NewRouter(RouterDeps{
		Detection: env.detection,
		Reporting: env.reporting,
		Analytics: env.analytics,
		Tokens:    env.tokens,
		Limiter:   env.limiter,
		Security: &config.SecurityConfig{
			UserQuota:       5,
			OrgQuota:        100,
			RateLimitWindow: time.Minute,
		},
		CORS:    []string{"*"},
		Version: "test",
		Logger:  zap.NewNop(),
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestCheckPhoneEndpoint(t *testing.T) {
	env := newTestEnv(t)

	category := "scam"
	env.detection.On("CheckPhone", mock.Anything, mock.MatchedBy(func(req *detection.PhoneCheckRequest) bool {
		return req.Phone == "+33612345678" && req.UserID == nil
	})).Return(&detection.PhoneVerdict{
		IsFraud:    true,
		Confidence: 0.95,
		Category:   &category,
		Reason:     "Signalé 42 fois",
		Action:     detection.ActionBlock,
	}, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/check/phone", "", CheckPhoneRequest{Phone: "+33612345678"})

	require.Equal(t, http.StatusOK, rec.Code)

	var verdict detection.PhoneVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.True(t, verdict.IsFraud)
	assert.Equal(t, detection.ActionBlock, verdict.Action)
}

func TestCheckPhoneEndpoint_AuthenticatedCallerID(t *testing.T) {
	env := newTestEnv(t)
	userID := uuid.New()
	token, err := env.tokens.GenerateToken(userID, "", auth.RoleUser)
	require.NoError(t, err)

	env.detection.On("CheckPhone", mock.Anything, mock.MatchedBy(func(req *detection.PhoneCheckRequest) bool {
		return req.UserID != nil && *req.UserID == userID
	})).Return(&detection.PhoneVerdict{}, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/check/phone", token, CheckPhoneRequest{Phone: "+33612345678"})
	assert.Equal(t, http.StatusOK, rec.Code)
	env.detection.AssertExpectations(t)
}

func TestCheckPhoneEndpoint_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/check/phone", "", CheckPhoneRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/check/phone", bytes.NewReader([]byte("{not json")))
	rec2 := httptest.NewRecorder()
	env.handler.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)

	env.detection.AssertNotCalled(t, "CheckPhone", mock.Anything, mock.Anything)
}

func TestCheckPhoneEndpoint_QuotaExceeded(t *testing.T) {
	env := newTestEnv(t)
	env.limiter.denied = true

	rec := env.do(t, http.MethodPost, "/api/v1/check/phone", "", CheckPhoneRequest{Phone: "+33612345678"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	env.detection.AssertNotCalled(t, "CheckPhone", mock.Anything, mock.Anything)
}

func TestCheckPhoneBulkEndpoint(t *testing.T) {
	env := newTestEnv(t)

	// Bulk checks are closed to plain users.
	userToken, err := env.tokens.GenerateToken(uuid.New(), "", auth.RoleUser)
	require.NoError(t, err)
	rec := env.do(t, http.MethodPost, "/api/v1/check/phone/bulk", userToken,
		BulkCheckRequest{Phones: []string{"+33612345678"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	orgToken, err := env.tokens.GenerateToken(uuid.New(), "", auth.RoleOrganisation)
	require.NoError(t, err)

	env.detection.On("CheckPhone", mock.Anything, mock.MatchedBy(func(req *detection.PhoneCheckRequest) bool {
		return req.Phone == "+33612345678"
	})).Return(&detection.PhoneVerdict{IsFraud: true}, nil)
	env.detection.On("CheckPhone", mock.Anything, mock.MatchedBy(func(req *detection.PhoneCheckRequest) bool {
		return req.Phone == "+33698765432"
	})).Return(nil, assert.AnError)

	rec = env.do(t, http.MethodPost, "/api/v1/check/phone/bulk", orgToken,
		BulkCheckRequest{Phones: []string{"+33612345678", "+33698765432"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp BulkCheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Verdict.IsFraud)
	assert.Empty(t, resp.Results[0].Error)
	assert.Nil(t, resp.Results[1].Verdict)
	assert.Equal(t, "check failed", resp.Results[1].Error)
}

func TestCheckSMSEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.detection.On("CheckSMS", mock.Anything, mock.Anything).Return(&detection.SMSVerdict{
		IsFraud:     true,
		Confidence:  0.9,
		RiskFactors: []string{"3 cas similaires signalés"},
		Action:      detection.ActionBlockLink,
	}, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/check/sms", "", CheckSMSRequest{Content: "cliquez vite"})
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict detection.SMSVerdict
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verdict))
	assert.Equal(t, detection.ActionBlockLink, verdict.Action)
}

func TestReportPhoneEndpoint(t *testing.T) {
	env := newTestEnv(t)

	env.reporting.On("SubmitPhoneReport", mock.Anything, mock.MatchedBy(func(req *reporting.PhoneReport) bool {
		return req.Phone == "+33612345678" && string(req.FraudType) == "scam"
	})).Return(&reporting.Receipt{
		ReportID:     uuid.New(),
		Message:      "Signalement enregistré. Total: 1 signalement(s)",
		TotalReports: 1,
	}, nil)

	rec := env.do(t, http.MethodPost, "/api/v1/report/phone", "", ReportPhoneRequest{
		Phone:     "+33612345678",
		FraudType: "scam",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestReportPhoneEndpoint_RejectsUnknownFraudType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/report/phone", "", ReportPhoneRequest{
		Phone:     "+33612345678",
		FraudType: "telemarketing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.reporting.AssertNotCalled(t, "SubmitPhoneReport", mock.Anything, mock.Anything)
}

func TestAnalyticsEndpoint_RoleGating(t *testing.T) {
	env := newTestEnv(t)
	env.analytics.On("GlobalStats", mock.Anything).Return(&analytics.GlobalStats{TotalFrauds: 7}, nil)

	// Anonymous callers get 401.
	rec := env.do(t, http.MethodGet, "/api/v1/analytics/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Plain users get 403.
	userToken, err := env.tokens.GenerateToken(uuid.New(), "", auth.RoleUser)
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/api/v1/analytics/stats", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Organisation accounts pass.
	orgToken, err := env.tokens.GenerateToken(uuid.New(), "", auth.RoleOrganisation)
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/api/v1/analytics/stats", orgToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats analytics.GlobalStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 7, stats.TotalFrauds)
}

func TestAnalyticsTimeline_DefaultPeriod(t *testing.T) {
	env := newTestEnv(t)
	env.analytics.On("Timeline", mock.Anything, "week").Return(&analytics.Timeline{Period: "week"}, nil)

	adminToken, err := env.tokens.GenerateToken(uuid.New(), "", auth.RoleAdmin)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/analytics/timeline", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env.analytics.AssertExpectations(t)
}

func TestAdminRegistryEndpoints(t *testing.T) {
	env := newTestEnv(t)
	body := AdminNumberRequest{Phone: "+33699999999", FraudType: "scam", Confidence: 0.9}

	// Organisation accounts cannot manage the registry.
	orgToken, err := env.tokens.GenerateToken(uuid.New(), "", auth.RoleOrganisation)
	require.NoError(t, err)
	rec := env.do(t, http.MethodPost, "/api/v1/admin/registry/numbers", orgToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	env.reporting.AssertNotCalled(t, "AddRegistryNumber", mock.Anything, mock.Anything)

	adminToken, err := env.tokens.GenerateToken(uuid.New(), "", auth.RoleAdmin)
	require.NoError(t, err)

	env.reporting.On("AddRegistryNumber", mock.Anything, mock.MatchedBy(func(req *reporting.RegistryEntry) bool {
		return req.Phone == "+33699999999" && req.Confidence == 0.9
	})).Return(&fraud.FraudulentNumber{PhoneNumber: "+33699999999", Source: fraud.SourceManual}, nil)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/registry/numbers", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	env.reporting.On("RemoveRegistryNumber", mock.Anything, "+33699999999").Return(nil)
	rec = env.do(t, http.MethodDelete, "/api/v1/admin/registry/numbers/+33699999999", adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthMiddleware_RejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/check/phone", "garbage-token", CheckPhoneRequest{Phone: "+33612345678"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.reporting.On("Stats", mock.Anything).Return(&reporting.Stats{
		TotalReports:    10,
		VerifiedReports: 4,
		PendingReports:  6,
	}, nil)

	rec := env.do(t, http.MethodGet, "/api/v1/report/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats reporting.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 6, stats.PendingReports)
}

func TestErrorMapping_InternalErrorsAreOpaque(t *testing.T) {
	env := newTestEnv(t)
	env.reporting.On("Stats", mock.Anything).Return(nil, assert.AnError)

	rec := env.do(t, http.MethodGet, "/api/v1/report/stats", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
