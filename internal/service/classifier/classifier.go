// Package classifier provides the rule-based implementation of the
// detection scoring contract. The pipeline treats it as an opaque scoring
// function; a trained model can replace it without touching the pipeline.
package classifier

import (
	"context"
	"strings"

	"github.com/dyleth/fraudshield/internal/service/detection"
)

// Scores never saturate; a keyword hit is evidence, not proof.
const maxConfidence = 0.95

// fraudThreshold is the score at which an input is called fraudulent.
const fraudThreshold = 0.5

// keywordSignal is one triggered-signal category. A category contributes
// its weight at most once regardless of how many keywords match.
type keywordSignal struct {
	riskFactor string
	weight     float64
	keywords   []string
}

// RuleBased scores inputs with keyword and metadata heuristics.
type RuleBased struct {
	textSignals []keywordSignal
}

// NewRuleBased creates the default French-language rule set.
func NewRuleBased() *RuleBased {
	return &RuleBased{
		textSignals: []keywordSignal{
			{
				riskFactor: "Urgence factice",
				weight:     0.2,
				keywords:   []string{"urgent", "immédiat", "maintenant", "rapidement", "vite"},
			},
			{
				riskFactor: "Demande de paiement",
				weight:     0.3,
				keywords:   []string{"payez", "paiement", "frais", "€", "argent", "remboursement"},
			},
			{
				riskFactor: "Lien suspect",
				weight:     0.25,
				keywords:   []string{"http://", "https://", "bit.ly", "cliquez", "lien"},
			},
			{
				riskFactor: "Message de menace",
				weight:     0.15,
				keywords:   []string{"bloqué", "suspendu", "limite", "expire", "problème"},
			},
		},
	}
}

// PredictPhone scores a phone number from its shape and call metadata.
// Malformed or empty numbers yield a low-confidence non-fraud result
// rather than an error.
func (c *RuleBased) PredictPhone(ctx context.Context, phone string, features detection.PhoneFeatures) (*detection.PhonePrediction, error) {
	if phone == "" {
		return &detection.PhonePrediction{}, nil
	}

	score := 0.0

	clean := strings.NewReplacer("+", "", " ", "", "-", "").Replace(phone)
	if len(clean) < 8 || len(clean) > 15 {
		score += 0.4
	}

	switch {
	case features.CallCount > 50:
		score += 0.5
	case features.CallCount > 10:
		score += 0.2
	}

	if features.Hour < 7 || features.Hour > 21 {
		score += 0.1
	}

	return &detection.PhonePrediction{
		IsFraud:    score >= fraudThreshold,
		Confidence: clamp(score),
	}, nil
}

// PredictText scores free text against the keyword rule set. Shared by the
// SMS and email channels; email callers concatenate subject and body.
func (c *RuleBased) PredictText(ctx context.Context, content, sender string) (*detection.TextPrediction, error) {
	lower := strings.ToLower(content)

	score := 0.0
	riskFactors := []string{}

	for _, signal := range c.textSignals {
		for _, kw := range signal.keywords {
			if strings.Contains(lower, kw) {
				riskFactors = append(riskFactors, signal.riskFactor)
				score += signal.weight
				break
			}
		}
	}

	return &detection.TextPrediction{
		IsFraud:     score >= fraudThreshold,
		Confidence:  clamp(score),
		RiskFactors: riskFactors,
	}, nil
}

func clamp(score float64) float64 {
	if score > maxConfidence {
		return maxConfidence
	}
	return score
}
