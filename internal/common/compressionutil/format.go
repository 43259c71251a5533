package compressionutil

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
)

// Format identifies a single-stream compression container
type Format string

const (
	FormatNone  Format = "none"
	FormatGzip  Format = "gzip"
	FormatBzip2 Format = "bzip2"
	FormatXZ    Format = "xz"
)

var magicNumbers = []struct {
	format Format
	magic  []byte
}{
	{FormatGzip, []byte{0x1F, 0x8B}},
	{FormatBzip2, []byte{0x42, 0x5A, 0x68}},
	{FormatXZ, []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}},
}

// DetectHeader determines the format from the leading bytes of a stream
func DetectHeader(header []byte) Format {
	for _, m := range magicNumbers {
		if bytes.HasPrefix(header, m.magic) {
			return m.format
		}
	}
	return FormatNone
}

// DetectFormat determines the compression format of a file using magic numbers
// and falls back to the file extension
func DetectFormat(path string) (Format, error) {
	header, err := fsutil.ReadFileHeader(path, 6)
	if err != nil {
		return FormatNone, err
	}

	if format := DetectHeader(header); format != FormatNone {
		return format, nil
	}

	return formatFromExt(path), nil
}

func formatFromExt(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".tgz":
		return FormatGzip
	case ".bz2", ".tbz2":
		return FormatBzip2
	case ".xz", ".txz":
		return FormatXZ
	default:
		return FormatNone
	}
}

// Extension is the file suffix conventionally used for the format
func (f Format) Extension() string {
	switch f {
	case FormatGzip:
		return ".gz"
	case FormatBzip2:
		return ".bz2"
	case FormatXZ:
		return ".xz"
	default:
		return ""
	}
}

// ParseFormat converts a user supplied format name
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatNone, "":
		return FormatNone, nil
	case FormatGzip, "gz":
		return FormatGzip, nil
	case FormatBzip2, "bz2":
		return FormatBzip2, nil
	case FormatXZ:
		return FormatXZ, nil
	default:
		return FormatNone, fmt.Errorf("%w: %s", errors.ErrUnsupportedCompression, name)
	}
}
