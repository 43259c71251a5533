package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguages(t *testing.T) {
	got := NormalizeLanguages([]string{"ja", "en-US", "en-GB", "fr-CA", "fr", "zh-CN", "zh-TW", "es-419", " de "})
	assert.Equal(t, []string{"de", "en", "es", "fr", "ja", "Zh-Hans", "Zh-Hant"}, got)
}

func TestNormalizeLanguagesIsIdempotent(t *testing.T) {
	canonical := []string{"de", "en", "es", "fr", "it", "ja", "ko", "nl", "pt", "ru", "Zh-Hans", "Zh-Hant"}
	assert.Equal(t, canonical, NormalizeLanguages(canonical))

	once := NormalizeLanguages([]string{"EN-us", "zh-hant", "ja", "ZH-CN", "en"})
	assert.Equal(t, once, NormalizeLanguages(once))
	assert.Equal(t, []string{"en", "ja", "Zh-Hans", "Zh-Hant"}, once)
}

func TestNormalizeLanguageKeepsUnknownTags(t *testing.T) {
	assert.Equal(t, "Klingon", NormalizeLanguage("Klingon"))
	assert.Equal(t, "", NormalizeLanguage(` "" `))
}

func TestNormalizeVersions(t *testing.T) {
	assert.Equal(t, "v0", NormalizeVersion(""))
	assert.Equal(t, "v393216", NormalizeVersion("393216"))
	assert.Equal(t, "v393216", NormalizeVersion("v393216"))
	assert.Equal(t, "", NormalizeDisplayVersion("  "))
	assert.Equal(t, "v1.3.0", NormalizeDisplayVersion("1.3.0"))
	assert.Equal(t, "v1.3.0", NormalizeDisplayVersion("V1.3.0"))
}
