package digest

import (
	"context"
	"io"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/compressionutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

// SumBytes digests an in-memory buffer
func SumBytes(b []byte) Record {
	e := New()
	e.Write(b)
	return e.Sum()
}

// SumReader digests everything r yields
func SumReader(ctx context.Context, r io.Reader, opts ...Option) (Record, error) {
	e := New(opts...)
	if _, err := e.Consume(ctx, r); err != nil {
		return Record{}, err
	}
	return e.Sum(), nil
}

// SumFile digests the file at path. A progress option without a total gets
// the file size as its total.
func SumFile(ctx context.Context, path string, opts ...Option) (Record, error) {
	file, err := fsutil.OpenFile(path)
	if err != nil {
		return Record{}, err
	}
	defer file.Close()

	e := New(opts...)
	if e.progress != nil && e.total == 0 {
		if info, statErr := file.Stat(); statErr == nil {
			e.total = uint64(info.Size())
		}
	}

	if _, err := e.Consume(ctx, file); err != nil {
		return Record{}, err
	}

	record := e.Sum()
	logger.LogDebug("digested file", map[string]interface{}{
		"path":  path,
		"size":  record.Size,
		"crc32": record.CRC32,
	})
	return record, nil
}

// SumDecompressedFile digests the content of a gzip, bzip2 or xz file as if
// it were stored uncompressed. Other files are digested as they are. The
// detected container format is returned alongside the record.
func SumDecompressedFile(ctx context.Context, path string, opts ...Option) (Record, compressionutil.Format, error) {
	rc, err := compressionutil.OpenReader(path)
	if err != nil {
		return Record{}, compressionutil.FormatNone, err
	}
	defer rc.Close()

	e := New(opts...)
	if e.progress != nil && e.total == 0 && rc.Format == compressionutil.FormatNone {
		e.total = uint64(rc.Size)
	}

	if _, err := e.Consume(ctx, rc); err != nil {
		return Record{}, rc.Format, err
	}

	record := e.Sum()
	logger.LogDebug("digested decompressed file", map[string]interface{}{
		"path":   path,
		"format": string(rc.Format),
		"size":   record.Size,
	})
	return record, rc.Format, nil
}
