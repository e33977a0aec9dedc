package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyleth/fraudshield/internal/service/detection"
)

func TestRuleBased_PredictPhone(t *testing.T) {
	ctx := context.Background()
	c := NewRuleBased()

	tests := []struct {
		name          string
		phone         string
		features      detection.PhoneFeatures
		expectedFraud bool
		expectedScore float64
	}{
		{
			name:          "normal number daytime",
			phone:         "+33612345678",
			features:      detection.PhoneFeatures{Hour: 14, CallCount: 1},
			expectedFraud: false,
			expectedScore: 0,
		},
		{
			name:          "too short number",
			phone:         "+331",
			features:      detection.PhoneFeatures{Hour: 14, CallCount: 1},
			expectedFraud: false,
			expectedScore: 0.4,
		},
		{
			name:          "short number with high call volume",
			phone:         "+331",
			features:      detection.PhoneFeatures{Hour: 14, CallCount: 51},
			expectedFraud: true,
			expectedScore: 0.9,
		},
		{
			name:          "moderate call volume alone stays clean",
			phone:         "+33612345678",
			features:      detection.PhoneFeatures{Hour: 14, CallCount: 11},
			expectedFraud: false,
			expectedScore: 0.2,
		},
		{
			name:          "night call adds a notch",
			phone:         "+331",
			features:      detection.PhoneFeatures{Hour: 3, CallCount: 1},
			expectedFraud: true,
			expectedScore: 0.5,
		},
		{
			name:          "separators are ignored when measuring length",
			phone:         "+33 6 12-34-56-78",
			features:      detection.PhoneFeatures{Hour: 14, CallCount: 1},
			expectedFraud: false,
			expectedScore: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := c.PredictPhone(ctx, tt.phone, tt.features)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedFraud, pred.IsFraud)
			assert.InDelta(t, tt.expectedScore, pred.Confidence, 1e-9)
		})
	}
}

func TestRuleBased_PredictPhone_EmptyNumber(t *testing.T) {
	c := NewRuleBased()

	pred, err := c.PredictPhone(context.Background(), "", detection.PhoneFeatures{Hour: 3, CallCount: 100})
	require.NoError(t, err)
	assert.False(t, pred.IsFraud)
	assert.Zero(t, pred.Confidence)
}

func TestRuleBased_PredictText(t *testing.T) {
	ctx := context.Background()
	c := NewRuleBased()

	tests := []struct {
		name          string
		content       string
		expectedFraud bool
		expectedScore float64
		expectedRisks []string
	}{
		{
			name:          "benign message",
			content:       "On se voit demain au café ?",
			expectedFraud: false,
			expectedScore: 0,
			expectedRisks: []string{},
		},
		{
			name:          "urgency plus payment crosses the threshold",
			content:       "URGENT: payez vos frais maintenant",
			expectedFraud: true,
			expectedScore: 0.5,
			expectedRisks: []string{"Urgence factice", "Demande de paiement"},
		},
		{
			name:          "link alone stays under the threshold",
			content:       "voici le document https://exemple.fr/doc",
			expectedFraud: false,
			expectedScore: 0.25,
			expectedRisks: []string{"Lien suspect"},
		},
		{
			name:          "all four categories saturate below the cap",
			content:       "URGENT payez ici https://bit.ly/x ou votre compte sera bloqué",
			expectedFraud: true,
			expectedScore: 0.9,
			expectedRisks: []string{"Urgence factice", "Demande de paiement", "Lien suspect", "Message de menace"},
		},
		{
			name:          "repeated keywords in one category count once",
			content:       "urgent urgent urgent vite maintenant",
			expectedFraud: false,
			expectedScore: 0.2,
			expectedRisks: []string{"Urgence factice"},
		},
		{
			name:          "matching is case-insensitive",
			content:       "PAIEMENT requis, compte SUSPENDU",
			expectedFraud: false,
			expectedScore: 0.45,
			expectedRisks: []string{"Demande de paiement", "Message de menace"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := c.PredictText(ctx, tt.content, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedFraud, pred.IsFraud)
			assert.InDelta(t, tt.expectedScore, pred.Confidence, 1e-9)
			assert.Equal(t, tt.expectedRisks, pred.RiskFactors)
		})
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.95, clamp(1.2))
	assert.Equal(t, 0.4, clamp(0.4))
}
