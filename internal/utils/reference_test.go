// internal/utils/reference_test.go
package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^EVISA-\d{13}-[A-Z2-9]{6}$`)

func TestGenerateReferenceNumberFormat(t *testing.T) {
	ref, err := GenerateReferenceNumber()
	require.NoError(t, err)
	assert.Regexp(t, referencePattern, ref)
}

func TestGenerateReferenceNumberUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		ref, err := GenerateReferenceNumber()
		require.NoError(t, err)
		assert.False(t, seen[ref], "duplicate reference generated: %s", ref)
		seen[ref] = true
	}
}

func TestGenerateRandomStringAlphabet(t *testing.T) {
	s, err := GenerateRandomString(64)
	require.NoError(t, err)
	assert.Len(t, s, 64)

	for _, c := range s {
		assert.Truef(t, strings.ContainsRune(referenceCharset, c), "unexpected character %q", c)
	}

	// The ambiguous characters must never appear.
	assert.NotContains(t, s, "0")
	assert.NotContains(t, s, "O")
	assert.NotContains(t, s, "1")
	assert.NotContains(t, s, "I")
}
