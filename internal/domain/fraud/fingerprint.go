package fraud

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns the stable content hash used to group crowd reports
// and key cached verdicts. Detection caching and report submission must hash
// through the same function or counts drift apart.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// NormalizePhone strips formatting characters from a phone number. The
// country code is deliberately not folded in: a number is fraudulent
// independent of its claimed origin.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		switch r {
		case ' ', '-', '.', '(', ')':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDomain lowercases and trims a domain for registry lookups.
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
