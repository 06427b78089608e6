// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestI18n(t *testing.T) *I18n {
	i := &I18n{
		translations: make(map[string]map[string]string),
		defaultLang:  "en",
	}
	require.NoError(t, i.LoadTranslations("locales"))
	return i
}

func TestTranslationsLoad(t *testing.T) {
	i := newTestI18n(t)

	assert.NotEmpty(t, i.T("en", KeyApplicationSubmitted))
	assert.NotEmpty(t, i.T("fr", KeyApplicationSubmitted))
	assert.NotEqual(t, i.T("en", KeyApplicationSubmitted), i.T("fr", KeyApplicationSubmitted))
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	i := newTestI18n(t)

	assert.Equal(t, i.T("en", KeyPaymentNotSuccessful), i.T("de", KeyPaymentNotSuccessful))
}

func TestUnknownKeyReturnsKey(t *testing.T) {
	i := newTestI18n(t)

	assert.Equal(t, "no.such.key", i.T("en", "no.such.key"))
	assert.Equal(t, "no.such.key", i.T("fr", "no.such.key"))
}

func TestFormattedTranslation(t *testing.T) {
	i := newTestI18n(t)

	msg := i.T("en", KeyDocumentTooLarge, 5)
	assert.Contains(t, msg, "5")
}

func TestEveryEnglishKeyHasFrenchCounterpart(t *testing.T) {
	i := newTestI18n(t)

	for key := range i.translations["en"] {
		_, ok := i.translations["fr"][key]
		assert.Truef(t, ok, "missing french translation for %q", key)
	}
}
