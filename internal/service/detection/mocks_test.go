package detection

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dyleth/fraudshield/internal/domain/fraud"
	"github.com/dyleth/fraudshield/internal/domain/report"
)

type mockVerdictCache struct {
	mock.Mock
}

func (m *mockVerdictCache) Get(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *mockVerdictCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

type mockRegistry struct {
	mock.Mock
}

func (m *mockRegistry) FindNumber(ctx context.Context, phone string) (*fraud.FraudulentNumber, error) {
	args := m.Called(ctx, phone)
	if entry := args.Get(0); entry != nil {
		return entry.(*fraud.FraudulentNumber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRegistry) FindDomain(ctx context.Context, domain string) (*fraud.FraudulentDomain, error) {
	args := m.Called(ctx, domain)
	if entry := args.Get(0); entry != nil {
		return entry.(*fraud.FraudulentDomain), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) PredictPhone(ctx context.Context, phone string, features PhoneFeatures) (*PhonePrediction, error) {
	args := m.Called(ctx, phone, features)
	if pred := args.Get(0); pred != nil {
		return pred.(*PhonePrediction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockClassifier) PredictText(ctx context.Context, content, sender string) (*TextPrediction, error) {
	args := m.Called(ctx, content, sender)
	if pred := args.Get(0); pred != nil {
		return pred.(*TextPrediction), args.Error(1)
	}
	return nil, args.Error(1)
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

func (m *mockIndex) Search(ctx context.Context, vector []float32, limit int) ([]Neighbor, error) {
	args := m.Called(ctx, vector, limit)
	if neighbors := args.Get(0); neighbors != nil {
		return neighbors.([]Neighbor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockIndex) Upsert(ctx context.Context, vector []float32, payload map[string]interface{}) error {
	args := m.Called(ctx, vector, payload)
	return args.Error(0)
}

type mockAuditSink struct {
	mock.Mock
}

func (m *mockAuditSink) Append(ctx context.Context, entry *report.DetectionLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
