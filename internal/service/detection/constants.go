package detection

import "time"

const (
	// Verdict cache TTLs. Registry hits are stable and cached longer;
	// classifier verdicts may need to be revisited sooner.
	blacklistVerdictTTL  = 2 * time.Hour
	classifierVerdictTTL = 1 * time.Hour

	// Corroboration gate: the similarity fallback runs only below this
	// classifier confidence, and never raises already-trusted output.
	corroborationGate = 0.8

	// Neighbors must score at least this similarity to count.
	similarityThreshold = 0.85

	// Result cap for the nearest-neighbor search.
	similaritySearchLimit = 100

	// Minimum qualifying neighbors for corroborated fraud.
	corroborationMinHits = 3

	// Corroborated verdicts are raised to at least this confidence.
	corroboratedConfidence = 0.9

	// DefaultCorroborationTimeout bounds each embedding and search call.
	DefaultCorroborationTimeout = 2 * time.Second

	phoneCacheKeyPrefix = "phone:"

	modelVersion = "1.0"
)
