package xci

import (
	"context"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
)

// DigestSet holds the records of one dump. InitialArea and Full are nil when
// the Initial Area is not part of the submission.
type DigestSet struct {
	Default     digest.Record  `json:"default"`
	InitialArea *digest.Record `json:"initial_area,omitempty"`
	Full        *digest.Record `json:"full,omitempty"`
}

// ComputeDigestSet digests the Default image at defaultPath and, when iaPath
// is set, the Initial Area and the FullXCI they would assemble into. Each
// input is read once; the FullXCI padding is fed virtually.
func ComputeDigestSet(ctx context.Context, iaPath, defaultPath string, opts Options) (*DigestSet, error) {
	file, img, err := openSource(defaultPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	kind, err := Classify(img)
	if err != nil {
		return nil, errors.Mismatch(defaultPath, KindDefault.String(), err)
	}
	if kind != KindDefault {
		return nil, errors.Mismatch(defaultPath, KindDefault.String(), errors.ErrWrongImageKind)
	}

	defaultEngine := digest.New()
	if iaPath == "" {
		if opts.Progress != nil {
			defaultEngine = digest.New(digest.WithProgress(uint64(img.Size()), opts.Progress))
		}
		if _, err := digest.Fanout(ctx, img, opts.chunkSize(), defaultEngine); err != nil {
			return nil, err
		}
		return &DigestSet{Default: defaultEngine.Sum()}, nil
	}

	initialArea, err := ReadInitialArea(iaPath)
	if err != nil {
		return nil, err
	}

	var fullOpts []digest.Option
	if opts.Progress != nil {
		fullOpts = append(fullOpts, digest.WithProgress(uint64(HeaderSize+img.Size()), opts.Progress))
	}
	fullEngine := digest.New(fullOpts...)
	fullEngine.Write(initialArea)
	fullEngine.WriteZeros(PaddingSize)

	if _, err := digest.Fanout(ctx, img, opts.chunkSize(), defaultEngine, fullEngine); err != nil {
		return nil, err
	}

	ia := digest.SumBytes(initialArea)
	full := fullEngine.Sum()
	set := &DigestSet{Default: defaultEngine.Sum(), InitialArea: &ia, Full: &full}

	logger.LogDebug("computed digest set", map[string]interface{}{
		"default":      defaultPath,
		"initial_area": iaPath,
		"full_size":    full.Size,
	})
	return set, nil
}
