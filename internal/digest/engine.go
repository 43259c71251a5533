// Package digest computes size, CRC-32, MD5, SHA-1 and SHA-256 of a byte
// stream in a single sequential pass.
package digest

import (
	"context"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"

	commonerrors "github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
)

const (
	// DefaultChunkSize bounds the memory used while streaming a source
	DefaultChunkSize = 4 << 20

	zeroBlockSize = 64 << 10
)

var zeroBlock [zeroBlockSize]byte

// ProgressFunc receives the bytes consumed so far and the expected total
type ProgressFunc func(processed, total uint64)

// Engine accumulates every digest of one logical byte sequence. It is an
// io.Writer, so it can sit behind io.Copy or an io.MultiWriter.
type Engine struct {
	crc    hash.Hash32
	md5    hash.Hash
	sha1   hash.Hash
	sha256 hash.Hash
	size   uint64

	chunkSize int
	total     uint64
	progress  ProgressFunc
}

// Option configures an Engine
type Option func(*Engine)

// WithChunkSize sets the read size used by Consume. Non-positive values keep
// the default.
func WithChunkSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.chunkSize = n
		}
	}
}

// WithProgress reports (processed, total) after each chunk
func WithProgress(total uint64, fn ProgressFunc) Option {
	return func(e *Engine) {
		e.total = total
		e.progress = fn
	}
}

// New creates an Engine ready to accept bytes
func New(opts ...Option) *Engine {
	e := &Engine{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Reset discards all accumulated state
func (e *Engine) Reset() {
	e.crc = crc32.NewIEEE()
	e.md5 = md5.New()
	e.sha1 = sha1.New()
	e.sha256 = sha256.New()
	e.size = 0
}

// Write feeds p to every accumulator. It never fails.
func (e *Engine) Write(p []byte) (int, error) {
	e.crc.Write(p)
	e.md5.Write(p)
	e.sha1.Write(p)
	e.sha256.Write(p)
	e.size += uint64(len(p))
	e.report()
	return len(p), nil
}

// WriteZeros feeds a run of n zero bytes without allocating them
func (e *Engine) WriteZeros(n uint64) {
	for n > 0 {
		chunk := uint64(zeroBlockSize)
		if n < chunk {
			chunk = n
		}
		e.Write(zeroBlock[:chunk])
		n -= chunk
	}
}

// Consume streams r into the engine until EOF
func (e *Engine) Consume(ctx context.Context, r io.Reader) (int64, error) {
	return Fanout(ctx, r, e.chunkSize, e)
}

// Size returns the number of bytes fed so far
func (e *Engine) Size() uint64 {
	return e.size
}

// Sum returns the record for everything fed so far. The engine stays usable.
func (e *Engine) Sum() Record {
	return Record{
		Size:   e.size,
		CRC32:  fmt.Sprintf("%08x", e.crc.Sum32()),
		MD5:    hex.EncodeToString(e.md5.Sum(nil)),
		SHA1:   hex.EncodeToString(e.sha1.Sum(nil)),
		SHA256: hex.EncodeToString(e.sha256.Sum(nil)),
	}
}

func (e *Engine) report() {
	if e.progress != nil {
		e.progress(e.size, e.total)
	}
}

// Fanout reads r in chunks of chunkSize and writes each chunk to every engine.
// The context is checked between chunks.
func Fanout(ctx context.Context, r io.Reader, chunkSize int, engines ...*Engine) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	buf := make([]byte, chunkSize)
	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		n, err := io.ReadFull(r, buf)
		if n > 0 {
			for _, e := range engines {
				e.Write(buf[:n])
			}
			total += int64(n)
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return total, nil
		default:
			return total, fmt.Errorf("%w: %v", commonerrors.ErrFileReadError, err)
		}
	}
}
