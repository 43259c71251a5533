// Package plistutil provides utilities for working with property list files
package plistutil

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"howett.net/plist"
)

// Format represents the plist format
type Format int

const (
	// FormatXML is the XML plist format
	FormatXML Format = iota
	// FormatBinary is the binary plist format
	FormatBinary
	// FormatOpenStep is the OpenStep plist format
	FormatOpenStep
)

// ReadPlist reads a property list file and decodes it into v
func ReadPlist(path string, v any) error {
	data, err := fsutil.ReadFile(path)
	if err != nil {
		return err
	}

	if _, err := plist.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedFile, err.Error())
	}

	return nil
}

// WritePlist writes v to a property list file in the specified format
func WritePlist(path string, v any, format Format) error {
	var buf bytes.Buffer

	var encoder *plist.Encoder
	switch format {
	case FormatBinary:
		encoder = plist.NewEncoderForFormat(&buf, plist.BinaryFormat)
	case FormatOpenStep:
		encoder = plist.NewEncoderForFormat(&buf, plist.OpenStepFormat)
	default:
		encoder = plist.NewEncoderForFormat(&buf, plist.XMLFormat)
		encoder.Indent("\t")
	}

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}

	return fsutil.WriteFile(path, buf.Bytes(), 0644)
}

// DetectFormat detects the format of a plist file
func DetectFormat(path string) (Format, error) {
	header, err := fsutil.ReadFileHeader(path, 8)
	if err != nil {
		return FormatXML, err
	}

	switch {
	case bytes.HasPrefix(header, []byte("bplist00")):
		return FormatBinary, nil
	case bytes.HasPrefix(header, []byte("{")) || bytes.HasPrefix(header, []byte("(")):
		return FormatOpenStep, nil
	default:
		return FormatXML, nil
	}
}
