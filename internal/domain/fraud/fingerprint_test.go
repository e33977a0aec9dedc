package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	h := Fingerprint("contenu suspect")
	assert.Len(t, h, 64)
	assert.Equal(t, h, Fingerprint("contenu suspect"))
	assert.NotEqual(t, h, Fingerprint("contenu suspects"))
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"+33 6 12 34 56 78", "+33612345678"},
		{"06-12-34-56-78", "0612345678"},
		{"(06) 12.34.56.78", "0612345678"},
		{"+33612345678", "+33612345678"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizePhone(tt.in), tt.in)
	}
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "phish.example", NormalizeDomain("  PHISH.Example "))
	assert.Equal(t, "exemple.fr", NormalizeDomain("exemple.fr"))
}
