// Package cardid renders the Card ID set of a cartridge as the comment block
// carried in a submission.
package cardid

import (
	"context"
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
)

const (
	groupSize  = 4
	groupCount = 3
	// MinSize is the number of bytes the three groups are taken from
	MinSize = groupSize * groupCount
)

// Set is a decoded Card ID set
type Set struct {
	IDs   [groupCount]string `json:"ids"`
	CRC32 string             `json:"crc32"`
}

// Read decodes the Card ID set at path. The groups come from the first
// twelve bytes; the CRC32 covers the whole file.
func Read(ctx context.Context, path string) (*Set, error) {
	header, err := fsutil.ReadFileHeader(path, MinSize)
	if err != nil {
		return nil, err
	}
	if len(header) < MinSize {
		return nil, errors.Mismatch(path, fmt.Sprintf("at least %d bytes", MinSize),
			fmt.Errorf("%w: got %d bytes", errors.ErrCardIDTooShort, len(header)))
	}

	sum, err := digest.SumFile(ctx, path)
	if err != nil {
		return nil, err
	}

	set := &Set{CRC32: strings.ToUpper(sum.CRC32)}
	for i := range set.IDs {
		set.IDs[i] = fmt.Sprintf("%X", header[i*groupSize:(i+1)*groupSize])
	}
	return set, nil
}

// Lines returns the four comment lines
func (s *Set) Lines() []string {
	return []string{
		"Card ID 1: " + s.IDs[0],
		"Card ID 2: " + s.IDs[1],
		"Card ID 3: " + s.IDs[2],
		"CRC32: " + s.CRC32,
	}
}

// Comment joins the comment lines with newlines
func (s *Set) Comment() string {
	return strings.Join(s.Lines(), "\n")
}
