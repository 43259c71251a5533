package metadata

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// languageSynonyms folds regional variants onto the tags used in submissions
var languageSynonyms = map[string]string{
	"en-US":   "en",
	"en-GB":   "en",
	"fr-CA":   "fr",
	"es-419":  "es",
	"zh-CN":   "Zh-Hans",
	"zh-TW":   "Zh-Hant",
	"zh-Hans": "Zh-Hans",
	"zh-Hant": "Zh-Hant",
}

// NormalizeLanguage maps a single tag onto its submission form. Tags that
// parse as BCP 47 are recased first ("EN-us" becomes "en-US"); unknown tags
// pass through trimmed.
func NormalizeLanguage(tag string) string {
	tag = strings.TrimSpace(strings.Trim(strings.TrimSpace(tag), `"`))
	if tag == "" {
		return ""
	}

	canonical := tag
	if parsed, err := language.Parse(tag); err == nil {
		canonical = parsed.String()
	}

	if mapped, ok := languageSynonyms[canonical]; ok {
		return mapped
	}
	return canonical
}

// NormalizeLanguages normalizes, de-duplicates and sorts tags
// case-insensitively. Applying it twice gives the same result as once.
func NormalizeLanguages(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := NormalizeLanguage(tag)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}

	sort.SliceStable(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}

// SplitLanguages splits a comma separated list, dropping quotes
func SplitLanguages(list string) []string {
	return strings.Split(strings.ReplaceAll(list, `"`, ""), ",")
}

// NormalizeVersion prefixes v; an absent version is v0
func NormalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "v0"
	}
	return prefixV(v)
}

// NormalizeDisplayVersion prefixes v; an absent display version stays empty
func NormalizeDisplayVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	return prefixV(v)
}

func prefixV(v string) string {
	if strings.HasPrefix(v, "v") || strings.HasPrefix(v, "V") {
		return "v" + v[1:]
	}
	return "v" + v
}
