package compressionutil

import (
	"compress/gzip"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/dsnet/compress/bzip2"
	"github.com/ulikunitz/xz"
)

// ReadCloser is a decompressing reader over an open file. Size reports the
// size of the file on disk, which is the compressed size for every format
// other than FormatNone.
type ReadCloser struct {
	io.Reader
	Format Format
	Size   int64

	closers []io.Closer
}

// Close releases the decompressor and the underlying file
func (r *ReadCloser) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenReader opens path and wraps it in the decompressor matching its
// detected format. Files that are not compressed are returned unchanged.
func OpenReader(path string) (*ReadCloser, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return OpenReaderAs(path, format)
}

// OpenReaderAs opens path with an explicit format
func OpenReaderAs(path string, format Format) (*ReadCloser, error) {
	file, err := fsutil.OpenFile(path)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrFileReadError, path, err)
	}

	rc := &ReadCloser{Format: format, Size: info.Size(), closers: []io.Closer{file}}
	if err := rc.wrap(file); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %s: %v", errors.ErrDecompressionFailed, path, err)
	}

	return rc, nil
}

// NewReader wraps an arbitrary stream in the decompressor for format
func NewReader(r io.Reader, format Format) (*ReadCloser, error) {
	rc := &ReadCloser{Format: format, Size: -1}
	if err := rc.wrap(r); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecompressionFailed, err)
	}
	return rc, nil
}

func (rc *ReadCloser) wrap(r io.Reader) error {
	switch rc.Format {
	case FormatNone:
		rc.Reader = r
	case FormatGzip:
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return err
		}
		rc.Reader = gzipReader
		rc.closers = append(rc.closers, gzipReader)
	case FormatBzip2:
		bzip2Reader, err := bzip2.NewReader(r, nil)
		if err != nil {
			return err
		}
		rc.Reader = bzip2Reader
		rc.closers = append(rc.closers, bzip2Reader)
	case FormatXZ:
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return err
		}
		rc.Reader = xzReader
	default:
		return fmt.Errorf("%w: %s", errors.ErrUnsupportedCompression, rc.Format)
	}
	return nil
}

// NewWriter wraps w in the compressor for format. Closing the returned writer
// flushes the compressor but leaves w open.
func NewWriter(w io.Writer, format Format) (io.WriteCloser, error) {
	switch format {
	case FormatGzip:
		return gzip.NewWriter(w), nil
	case FormatBzip2:
		return bzip2.NewWriter(w, nil)
	case FormatXZ:
		return xz.NewWriter(w)
	default:
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedCompression, format)
	}
}

// CompressFile compresses src into dst
func CompressFile(src, dst string, format Format) error {
	inputFile, err := fsutil.OpenFile(src)
	if err != nil {
		return err
	}
	defer inputFile.Close()

	outputFile, err := fsutil.CreateAtomic(dst, 0644)
	if err != nil {
		return err
	}
	defer outputFile.Abort()

	writer, err := NewWriter(outputFile, format)
	if err != nil {
		return err
	}

	if _, err := io.Copy(writer, inputFile); err != nil {
		writer.Close()
		return fmt.Errorf("failed to compress file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to compress file: %w", err)
	}

	return outputFile.Commit()
}
