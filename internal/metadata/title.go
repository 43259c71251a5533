package metadata

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleSubstitutions  = strings.NewReplacer(":", " - ", "~", "-")
	forbiddenTitleRunes = regexp.MustCompile("[\\\\/:*?\"<>|`]")

	articles = map[string]bool{"a": true, "an": true, "the": true}

	smallWords = map[string]bool{
		"a": true, "an": true, "the": true,
		"and": true, "or": true, "but": true, "nor": true, "so": true, "yet": true,
		"for": true, "at": true, "by": true, "in": true, "on": true, "to": true,
		"of": true, "up": true, "with": true, "as": true, "per": true,
	}
)

const titleSeparator = "-"

// FormatTitle rewrites a title into catalog form: colons become " - ",
// tildes become hyphens, characters invalid in file names are dropped and
// whitespace is collapsed. Small words after the first are lowercased and a
// leading article moves behind the main title ("The Legend of Zelda" becomes
// "Legend of Zelda, The").
func FormatTitle(title string) string {
	title = titleSubstitutions.Replace(title)
	title = forbiddenTitleRunes.ReplaceAllString(title, "")

	words := strings.Fields(title)
	if len(words) == 0 {
		return ""
	}

	for i, word := range words {
		lowered := toLower(word)
		switch {
		case i > 0 && smallWords[lowered]:
			words[i] = lowered
		case isUpperWord(word) || isAlphaWord(word):
		default:
			words[i] = capitalize(word)
		}
	}

	return strings.Join(relocateArticle(words), " ")
}

// relocateArticle moves a leading article in front of the first separator,
// or to the end when there is none
func relocateArticle(words []string) []string {
	if len(words) < 2 || !articles[toLower(words[0])] {
		return words
	}

	article := capitalize(words[0])
	rest := append([]string(nil), words[1:]...)

	sep := -1
	for i, w := range rest {
		if w == titleSeparator {
			sep = i
			break
		}
	}

	switch {
	case sep == 0:
		// nothing precedes the separator to carry the comma
		return words
	case sep > 0:
		rest[sep-1] += ","
		out := make([]string, 0, len(rest)+1)
		out = append(out, rest[:sep]...)
		out = append(out, article)
		return append(out, rest[sep:]...)
	default:
		rest[len(rest)-1] += ","
		return append(rest, article)
	}
}

// capitalize uppercases the first rune and lowercases the rest
func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return toUpper(string(r)) + toLower(word[size:])
}

// isUpperWord reports whether word has cased runes and none are lowercase
func isUpperWord(word string) bool {
	cased := false
	for _, r := range word {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func isAlphaWord(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Casers carry state, so each call gets its own
func toUpper(s string) string { return cases.Upper(language.Und).String(s) }

func toLower(s string) string { return cases.Lower(language.Und).String(s) }
