package reporting

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/domain/report"
	"github.com/dyleth/fraudshield/internal/service/detection"
)

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) FindByUserAndHash(ctx context.Context, userID uuid.UUID, hash string, reportType report.ReportType) (*report.UserReport, error) {
	args := m.Called(ctx, userID, hash, reportType)
	if r := args.Get(0); r != nil {
		return r.(*report.UserReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReportStore) Save(ctx context.Context, r *report.UserReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReportStore) CountByHash(ctx context.Context, hash string, reportType report.ReportType) (int, error) {
	args := m.Called(ctx, hash, reportType)
	return args.Int(0), args.Error(1)
}

func (m *mockReportStore) MarkVerified(ctx context.Context, hash string, reportType report.ReportType, verifiedBy int) error {
	args := m.Called(ctx, hash, reportType, verifiedBy)
	return args.Error(0)
}

func (m *mockReportStore) Counts(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

type mockRegistryWriter struct {
	mock.Mock
}

func (m *mockRegistryWriter) FindNumber(ctx context.Context, phone string) (*fraud.FraudulentNumber, error) {
	args := m.Called(ctx, phone)
	if entry := args.Get(0); entry != nil {
		return entry.(*fraud.FraudulentNumber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegistryWriter) InsertNumber(ctx context.Context, entry *fraud.FraudulentNumber) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockRegistryWriter) IncrementNumberReports(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

func (m *mockRegistryWriter) RemoveNumber(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

func (m *mockRegistryWriter) FindDomain(ctx context.Context, domain string) (*fraud.FraudulentDomain, error) {
	args := m.Called(ctx, domain)
	if entry := args.Get(0); entry != nil {
		return entry.(*fraud.FraudulentDomain), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegistryWriter) InsertDomain(ctx context.Context, entry *fraud.FraudulentDomain) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockRegistryWriter) IncrementDomainBlocked(ctx context.Context, domain string) error {
	args := m.Called(ctx, domain)
	return args.Error(0)
}

type mockEmbedder struct {
	mock.Mock
	enabled bool
}

func (m *mockEmbedder) Enabled() bool {
	return m.enabled
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if vec := args.Get(0); vec != nil {
		return vec.([]float32), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockIndex struct {
	mock.Mock
	enabled bool
}

func (m *mockIndex) Enabled() bool {
	return m.enabled
}

func (m *mockIndex) Search(ctx context.Context, vector []float32, limit int) ([]detection.Neighbor, error) {
	args := m.Called(ctx, vector, limit)
	if neighbors := args.Get(0); neighbors != nil {
		return neighbors.([]detection.Neighbor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIndex) Upsert(ctx context.Context, vector []float32, payload map[string]interface{}) error {
	args := m.Called(ctx, vector, payload)
	return args.Error(0)
}
