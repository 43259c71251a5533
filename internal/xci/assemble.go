package xci

import (
	"context"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
)

// Options tunes the streaming copy
type Options struct {
	ChunkSize int
	Progress  digest.ProgressFunc
}

func (o Options) chunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return digest.DefaultChunkSize
}

var zeroPadding [PaddingSize]byte

// Assemble writes initialArea, the zero padding and img to w. img must
// classify as a Default image and the reserved tail of initialArea must be
// zero, otherwise the result would not classify as a FullXCI.
func Assemble(ctx context.Context, w io.Writer, initialArea []byte, img Source, opts Options) error {
	if len(initialArea) != InitialAreaSize {
		return fmt.Errorf("%w: got %d bytes, want %d", errors.ErrInvalidInitialAreaSize, len(initialArea), InitialAreaSize)
	}
	if !initialAreaBlank(initialArea) {
		return fmt.Errorf("%w: bytes 0x%X-0x%X must be zero", errors.ErrInitialAreaNotBlank, probeOffset, probeOffset+probeSize-1)
	}

	kind, err := Classify(img)
	if err != nil {
		return err
	}
	if kind != KindDefault {
		return fmt.Errorf("%w: image is already a %s", errors.ErrWrongImageKind, kind)
	}

	total := uint64(HeaderSize + img.Size())
	if _, err := w.Write(initialArea); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrFileWriteError, err)
	}
	if _, err := w.Write(zeroPadding[:]); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrFileWriteError, err)
	}

	return copyChunks(ctx, w, io.NewSectionReader(img, 0, img.Size()), opts, HeaderSize, total)
}

// Truncate splits a FullXCI into its Initial Area and Default image
func Truncate(ctx context.Context, img Source, initialArea, defaultImage io.Writer, opts Options) error {
	kind, err := Classify(img)
	if err != nil {
		return err
	}
	if kind != KindFull {
		return fmt.Errorf("%w: image is a %s", errors.ErrNotAFullImage, kind)
	}
	if img.Size() < HeaderSize {
		return fmt.Errorf("%w: need %d bytes, got %d", errors.ErrShortImage, HeaderSize, img.Size())
	}

	if _, err := io.Copy(initialArea, io.NewSectionReader(img, 0, InitialAreaSize)); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrFileWriteError, err)
	}

	body := io.NewSectionReader(img, HeaderSize, img.Size()-HeaderSize)
	return copyChunks(ctx, defaultImage, body, opts, 0, uint64(body.Size()))
}

// copyChunks streams r to w, checking ctx between chunks. Progress is
// reported relative to an offset already written.
func copyChunks(ctx context.Context, w io.Writer, r io.Reader, opts Options, offset, total uint64) error {
	buf := make([]byte, opts.chunkSize())
	processed := offset
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return fmt.Errorf("%w: %v", errors.ErrFileWriteError, werr)
			}
			processed += uint64(n)
			if opts.Progress != nil {
				opts.Progress(processed, total)
			}
		}

		switch err {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			return nil
		default:
			return fmt.Errorf("%w: %v", errors.ErrFileReadError, err)
		}
	}
}
