package scene

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

// Entry is one "filename CRC32" line of a checksum list
type Entry struct {
	Name string
	CRC  string
}

// ParseSFV reads a checksum list. Blank lines and lines starting with ';'
// are skipped; each remaining line is split on its last space.
func ParseSFV(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, ";") {
			continue
		}

		i := strings.LastIndex(line, " ")
		if i < 0 {
			return nil, fmt.Errorf("%w: checksum line %q has no CRC", errors.ErrUnsupportedFile, line)
		}
		entries = append(entries, Entry{
			Name: line[:i],
			CRC:  strings.ToUpper(strings.TrimSpace(line[i+1:])),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrFileReadError, err)
	}
	return entries, nil
}

// Status is the outcome of checking one listed file
type Status int

const (
	Match Status = iota
	Mismatch
	Missing
)

func (s Status) String() string {
	switch s {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case Missing:
		return "missing"
	default:
		return "unknown"
	}
}

// Result is the check of one listed file. Actual is empty for a missing file.
type Result struct {
	Name     string
	Expected string
	Actual   string
	Status   Status
}

// Report aggregates a checksum-list verification
type Report struct {
	Results []Result
}

// Passed reports whether every listed file was present and matched
func (r *Report) Passed() bool {
	for _, res := range r.Results {
		if res.Status != Match {
			return false
		}
	}
	return true
}

// Mismatches names the files whose CRC differed
func (r *Report) Mismatches() []string {
	var names []string
	for _, res := range r.Results {
		if res.Status == Mismatch {
			names = append(names, res.Name)
		}
	}
	return names
}

// Err returns ErrIntegrityMismatch when the report did not pass
func (r *Report) Err() error {
	if r.Passed() {
		return nil
	}
	return fmt.Errorf("%w: %d of %d files failed", errors.ErrIntegrityMismatch, len(r.Results)-r.matched(), len(r.Results))
}

func (r *Report) matched() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == Match {
			n++
		}
	}
	return n
}

// Log renders the report as the line-by-line verification log
func (r *Report) Log() string {
	var lines []string
	for _, res := range r.Results {
		switch res.Status {
		case Missing:
			lines = append(lines, fmt.Sprintf("File %s not found.", res.Name))
		case Mismatch:
			lines = append(lines,
				fmt.Sprintf("Checking %s: Expected [%s] vs Actual [%s]", res.Name, res.Expected, res.Actual),
				fmt.Sprintf("CRC mismatch for %s", res.Name))
		default:
			lines = append(lines,
				fmt.Sprintf("Checking %s: Expected [%s] vs Actual [%s]", res.Name, res.Expected, res.Actual),
				fmt.Sprintf("%s: CRC matches", res.Name))
		}
	}

	if r.Passed() {
		lines = append(lines, "", "All CRCs matched successfully")
	} else {
		lines = append(lines, "", "Mismatched CRCs were found:")
		for _, name := range r.Mismatches() {
			lines = append(lines, "- "+name)
		}
	}
	return strings.Join(lines, "\n")
}

// Verify replays every CRC in the checksum list sfvName against the files in
// dir. Mismatches and missing files are recorded, never returned as errors.
func Verify(ctx context.Context, dir, sfvName string) (*Report, error) {
	if sfvName == "" {
		return nil, fmt.Errorf("%w: no archive in %s to derive a checksum list from", errors.ErrMissingArtifact, dir)
	}
	sfvPath := filepath.Join(dir, sfvName)
	if !fsutil.FileExists(sfvPath) {
		return nil, fmt.Errorf("%w: checksum list %s", errors.ErrMissingArtifact, sfvPath)
	}

	f, err := fsutil.OpenFile(sfvPath)
	if err != nil {
		return nil, err
	}
	entries, err := ParseSFV(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, entry := range entries {
		res, err := check(ctx, dir, entry)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, res)
	}

	logger.LogInfo("verified checksum list", map[string]interface{}{
		"sfv":        sfvPath,
		"files":      len(report.Results),
		"passed":     report.Passed(),
		"mismatches": strings.Join(report.Mismatches(), ", "),
	})
	return report, nil
}

func check(ctx context.Context, dir string, entry Entry) (Result, error) {
	res := Result{Name: entry.Name, Expected: entry.CRC}

	path := filepath.Join(dir, entry.Name)
	if _, err := os.Stat(path); err != nil {
		res.Status = Missing
		return res, nil
	}

	sum, err := digest.SumFile(ctx, path)
	if err != nil {
		return res, err
	}

	res.Actual = strings.ToUpper(sum.CRC32)
	if res.Actual == res.Expected {
		res.Status = Match
	} else {
		res.Status = Mismatch
	}
	return res, nil
}
