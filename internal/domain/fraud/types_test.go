package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFraudType_IsValid(t *testing.T) {
	for _, ft := range []FraudType{FraudTypeSpam, FraudTypeScam, FraudTypeRobocall, FraudTypePhishing, FraudTypeSpoofing} {
		assert.True(t, ft.IsValid(), string(ft))
	}
	assert.False(t, FraudType("telemarketing").IsValid())
	assert.False(t, FraudType("").IsValid())
}

func TestScoreFromReports(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		base     float64
		step     float64
		expected float64
	}{
		{"threshold phone score", 10, 0.7, 0.02, 0.90},
		{"threshold domain score", 8, 0.7, 0.03, 0.94},
		{"clamped at max", 100, 0.7, 0.02, MaxDerivedScore},
		{"zero reports keeps base", 0, 0.7, 0.02, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ScoreFromReports(tt.count, tt.base, tt.step), 1e-9)
		})
	}
}

func TestNewCrowdsourcedNumber(t *testing.T) {
	entry := NewCrowdsourcedNumber("+33612345678", "FR", FraudTypeScam, 10)

	assert.Equal(t, "+33612345678", entry.PhoneNumber)
	assert.Equal(t, "FR", entry.CountryCode)
	assert.Equal(t, FraudTypeScam, entry.FraudType)
	assert.True(t, entry.Verified)
	assert.Equal(t, 10, entry.ReportCount)
	assert.Equal(t, SourceCrowdsource, entry.Source)
	assert.InDelta(t, 0.90, entry.ConfidenceScore, 1e-9)
	assert.False(t, entry.FirstReported.IsZero())
}

func TestNewCrowdsourcedDomain(t *testing.T) {
	entry := NewCrowdsourcedDomain("phish.example", "banking", 8)

	assert.Equal(t, "phish.example", entry.Domain)
	assert.Equal(t, "banking", entry.PhishingType)
	assert.Equal(t, 8, entry.BlockedCount)
	assert.InDelta(t, 0.94, entry.ReputationScore, 1e-9)
}
