// Package xci builds and splits FullXCI images. A FullXCI is the 512 byte
// Initial Area, 3584 zero bytes and the Default image, concatenated.
package xci

import (
	"bytes"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
)

const (
	InitialAreaSize = 512
	PaddingSize     = 3584
	HeaderSize      = InitialAreaSize + PaddingSize

	probeOffset = 0x1A0
	probeSize   = 96
)

var zeroProbe = make([]byte, probeSize)

// Kind is the structural classification of a cartridge image
type Kind int

const (
	KindDefault Kind = iota
	KindFull
)

func (k Kind) String() string {
	switch k {
	case KindFull:
		return "FullXCI"
	default:
		return "Default XCI"
	}
}

// Source is a random access image with a known length. *bytes.Reader and
// *io.SectionReader satisfy it.
type Source interface {
	io.ReaderAt
	Size() int64
}

// Classify inspects the 96 bytes at 0x1A0. An image whose probe region is
// entirely zero is a FullXCI.
func Classify(r io.ReaderAt) (Kind, error) {
	probe := make([]byte, probeSize)
	n, err := r.ReadAt(probe, probeOffset)
	if n < probeSize {
		if err == nil || err == io.EOF {
			return KindDefault, fmt.Errorf("%w: need %d bytes, got %d", errors.ErrShortImage, probeOffset+probeSize, probeOffset+n)
		}
		return KindDefault, fmt.Errorf("%w: %v", errors.ErrFileReadError, err)
	}

	if bytes.Equal(probe, zeroProbe) {
		return KindFull, nil
	}
	return KindDefault, nil
}

// ClassifyFile classifies the image at path
func ClassifyFile(path string) (Kind, error) {
	file, err := fsutil.OpenFile(path)
	if err != nil {
		return KindDefault, err
	}
	defer file.Close()

	kind, err := Classify(file)
	if err != nil {
		return KindDefault, errors.Mismatch(path, fmt.Sprintf("at least %d bytes", probeOffset+probeSize), err)
	}
	return kind, nil
}

// initialAreaBlank reports whether the part of the Initial Area that overlaps
// the probe region is zero, which is what makes the assembled image
// classify as full.
func initialAreaBlank(ia []byte) bool {
	return bytes.Equal(ia[probeOffset:probeOffset+probeSize], zeroProbe)
}
