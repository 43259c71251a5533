package metadata

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

// Dialect recognises and parses one tool output format
type Dialect interface {
	Name() string
	Match(input string) bool
	Parse(input string) (Record, error)
}

// dialects is ordered by priority: the first match wins
var dialects = []Dialect{
	csvDialect{},
	hactoolDialect{},
	cliDialect{},
}

// Dialects lists the registered dialect names in priority order
func Dialects() []string {
	names := make([]string, len(dialects))
	for i, d := range dialects {
		names[i] = d.Name()
	}
	return names
}

// Detect returns the highest priority dialect that recognises input
func Detect(input string) (Dialect, error) {
	input = normalizeNewlines(input)
	for _, d := range dialects {
		if d.Match(input) {
			return d, nil
		}
	}
	return nil, errors.ErrUnrecognizedMetadata
}

// Parse detects the dialect of input and parses it
func Parse(input string) (Record, error) {
	d, err := Detect(input)
	if err != nil {
		return Record{}, err
	}
	return parseWith(d, input)
}

// ParseAs parses input with the named dialect, skipping detection
func ParseAs(name, input string) (Record, error) {
	for _, d := range dialects {
		if strings.EqualFold(d.Name(), name) {
			return parseWith(d, input)
		}
	}
	return Record{}, fmt.Errorf("%w: %s (known: %s)", errors.ErrUnknownDialect, name, strings.Join(Dialects(), ", "))
}

// ParseFile reads and parses a metadata export
func ParseFile(path string) (Record, error) {
	data, err := fsutil.ReadFileString(path)
	if err != nil {
		return Record{}, err
	}

	record, err := Parse(data)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return record, nil
}

func parseWith(d Dialect, input string) (Record, error) {
	record, err := d.Parse(normalizeNewlines(input))
	if err != nil {
		return Record{}, err
	}
	record.Dialect = d.Name()

	logger.LogDebug("parsed metadata", map[string]interface{}{
		"dialect":   record.Dialect,
		"titles":    len(record.Titles),
		"languages": strings.Join(record.Languages, ","),
	})
	return record, nil
}

func normalizeNewlines(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// valueAfterColon returns the trimmed text after the first colon
func valueAfterColon(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}
