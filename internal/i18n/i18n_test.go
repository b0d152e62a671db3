package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"ru-RU":   "ru",
		"uz-Latn": "uz",
		"EN":      "en",
		"de-DE":   "uz",
		"":        "uz",
	}
	for tag, want := range cases {
		assert.Equal(t, want, Normalize(tag), tag)
	}
}

func TestTranslationsCoverEveryLocale(t *testing.T) {
	require.NoError(t, Initialize())

	english := instance.translations["en"]
	require.NotEmpty(t, english)
	for _, lang := range SupportedLanguages {
		for key := range english {
			_, ok := instance.translations[lang][key]
			assert.True(t, ok, "%s is missing %s", lang, key)
		}
	}
}

func TestTFallsBack(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Product not found", T("en", KeyProductNotFound))
	assert.Equal(t, T("uz", KeyProductNotFound), T("de", KeyProductNotFound))
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}
