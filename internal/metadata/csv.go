package metadata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
)

const csvMarker = "# publisher NX Game Info"

// Column layout of the GUI export
const (
	csvColBaseTitleID    = 1
	csvColTitleName      = 2
	csvColDisplayVersion = 3
	csvColVersion        = 4
	csvColLanguages      = 12
)

// csvDialect parses the CSV export of the NX Game Info GUI. Older exports
// carry a three line preamble, newer ones comment every preamble line; both
// are skipped because preamble rows start with '#' or are the header row.
type csvDialect struct{}

func (csvDialect) Name() string { return "csv" }

func (csvDialect) Match(input string) bool {
	return strings.HasPrefix(strings.TrimLeft(input, " \t\n"), csvMarker)
}

func (csvDialect) Parse(input string) (Record, error) {
	reader := csv.NewReader(strings.NewReader(input))
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			return Record{}, nil
		}
		if err != nil {
			return Record{}, fmt.Errorf("%w: csv: %v", errors.ErrUnrecognizedMetadata, err)
		}
		if len(row) == 0 || strings.TrimSpace(row[0]) == "Title ID" {
			continue
		}

		title := Title{
			ID:             strings.ToUpper(column(row, csvColBaseTitleID)),
			Name:           FormatTitle(column(row, csvColTitleName)),
			DisplayVersion: NormalizeDisplayVersion(column(row, csvColDisplayVersion)),
			Version:        NormalizeVersion(column(row, csvColVersion)),
		}

		return Record{
			Titles:    []Title{title},
			Languages: NormalizeLanguages(SplitLanguages(column(row, csvColLanguages))),
		}, nil
	}
}

// column returns the trimmed field at i, or "" for short rows
func column(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
