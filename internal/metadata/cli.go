package metadata

import (
	"strings"
)

const cliBanner = "NX Game Info"

// cliDialect parses "Key: value" output of the NX Game Info command line
// tool. Only the first title block is read: parsing stops at the first
// "Latest version" line.
type cliDialect struct{}

func (cliDialect) Name() string { return "cli" }

func (cliDialect) Match(input string) bool {
	if strings.HasPrefix(strings.TrimLeft(input, " \t\n"), cliBanner) {
		return true
	}
	return strings.Contains(input, "Base Title ID:") || strings.Contains(input, "Title Name:")
}

func (cliDialect) Parse(input string) (Record, error) {
	var (
		title      Title
		version    string
		versionSet bool
		languages  []string
	)

	// Display Version must be tested before Version, which it contains
	for _, line := range strings.Split(input, "\n") {
		switch {
		case strings.Contains(line, "Base Title ID:"):
			title.ID = strings.ToUpper(valueAfterColon(line))
		case strings.Contains(line, "Title Name:"):
			title.Name = FormatTitle(valueAfterColon(line))
		case strings.Contains(line, "Display Version:"):
			title.DisplayVersion = NormalizeDisplayVersion(valueAfterColon(line))
		case strings.Contains(line, "Version:") && !versionSet:
			version = stripAnnotation(valueAfterColon(line))
			versionSet = true
		case strings.Contains(line, "Latest version"):
			return finishCLI(title, version, languages), nil
		case strings.Contains(line, "Languages:"):
			languages = SplitLanguages(valueAfterColon(line))
		}
	}

	return finishCLI(title, version, languages), nil
}

func finishCLI(title Title, version string, languages []string) Record {
	title.Version = NormalizeVersion(version)
	return Record{
		Titles:    []Title{title},
		Languages: NormalizeLanguages(languages),
	}
}

// stripAnnotation drops a trailing parenthesised note: "65536 (1.0.1)" is 65536
func stripAnnotation(v string) string {
	if i := strings.Index(v, "("); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}
