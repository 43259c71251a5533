package xci

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultImage returns n bytes with a non-zero probe region
func defaultImage(n int) []byte {
	img := make([]byte, n)
	for i := range img {
		img[i] = byte(i*7 + 1)
	}
	return img
}

func initialArea() []byte {
	ia := make([]byte, InitialAreaSize)
	for i := 0; i < probeOffset; i++ {
		ia[i] = byte(i + 3)
	}
	return ia
}

func TestClassify(t *testing.T) {
	kind, err := Classify(bytes.NewReader(defaultImage(4096)))
	require.NoError(t, err)
	assert.Equal(t, KindDefault, kind)

	kind, err = Classify(bytes.NewReader(make([]byte, 4096)))
	require.NoError(t, err)
	assert.Equal(t, KindFull, kind)

	// a single non-zero byte anywhere in the probe makes it a Default image
	img := make([]byte, 0x200)
	img[probeOffset+probeSize-1] = 1
	kind, err = Classify(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, KindDefault, kind)

	_, err = Classify(bytes.NewReader(make([]byte, probeOffset+probeSize-1)))
	assert.ErrorIs(t, err, errors.ErrShortImage)
}

func TestAssembleTruncateRoundTrip(t *testing.T) {
	ctx := context.Background()
	for _, size := range []int{0x200, 4096, 10000} {
		ia, img := initialArea(), defaultImage(size)

		var full bytes.Buffer
		require.NoError(t, Assemble(ctx, &full, ia, bytes.NewReader(img), Options{ChunkSize: 1000}))
		require.Equal(t, HeaderSize+size, full.Len())

		kind, err := Classify(bytes.NewReader(full.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, KindFull, kind)

		var gotIA, gotImg bytes.Buffer
		require.NoError(t, Truncate(ctx, bytes.NewReader(full.Bytes()), &gotIA, &gotImg, Options{ChunkSize: 333}))
		assert.Equal(t, ia, gotIA.Bytes())
		assert.Equal(t, img, gotImg.Bytes())
	}
}

func TestAssembleRejectsInvalidInputs(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	err := Assemble(ctx, &out, make([]byte, 511), bytes.NewReader(defaultImage(4096)), Options{})
	assert.ErrorIs(t, err, errors.ErrInvalidInitialAreaSize)

	err = Assemble(ctx, &out, initialArea(), bytes.NewReader(make([]byte, 4096)), Options{})
	assert.ErrorIs(t, err, errors.ErrWrongImageKind)

	dirty := initialArea()
	dirty[probeOffset+5] = 0xFF
	err = Assemble(ctx, &out, dirty, bytes.NewReader(defaultImage(4096)), Options{})
	assert.ErrorIs(t, err, errors.ErrInitialAreaNotBlank)

	err = Assemble(ctx, &out, initialArea(), bytes.NewReader(defaultImage(100)), Options{})
	assert.ErrorIs(t, err, errors.ErrShortImage)

	assert.Zero(t, out.Len(), "nothing may be written when validation fails")
}

func TestTruncateRejectsInvalidInputs(t *testing.T) {
	ctx := context.Background()
	var ia, img bytes.Buffer

	err := Truncate(ctx, bytes.NewReader(defaultImage(8192)), &ia, &img, Options{})
	assert.ErrorIs(t, err, errors.ErrNotAFullImage)

	err = Truncate(ctx, bytes.NewReader(make([]byte, 1024)), &ia, &img, Options{})
	assert.ErrorIs(t, err, errors.ErrShortImage)
}

func TestAssembleHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := Assemble(ctx, &out, initialArea(), bytes.NewReader(defaultImage(4096)), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEightKilobyteEndToEnd(t *testing.T) {
	dir := t.TempDir()
	iaPath := filepath.Join(dir, "Game (Initial Area).bin")
	defaultPath := filepath.Join(dir, "Game.xci")

	ia := make([]byte, InitialAreaSize)
	img := defaultImage(4096)
	require.NoError(t, os.WriteFile(iaPath, ia, 0644))
	require.NoError(t, os.WriteFile(defaultPath, img, 0644))

	result, err := AssembleFile(context.Background(), iaPath, defaultPath, "", Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Game (Full XCI).xci"), result.Path)

	var concat bytes.Buffer
	concat.Write(ia)
	concat.Write(make([]byte, PaddingSize))
	concat.Write(img)
	want := digest.SumBytes(concat.Bytes())

	assert.Equal(t, uint64(8192), result.Digest.Size)
	assert.Equal(t, want, result.Digest)

	onDisk, err := digest.SumFile(context.Background(), result.Path)
	require.NoError(t, err)
	assert.Equal(t, want, onDisk)

	set, err := ComputeDigestSet(context.Background(), iaPath, defaultPath, Options{ChunkSize: 1000})
	require.NoError(t, err)
	assert.Equal(t, want, *set.Full)
	assert.Equal(t, digest.SumBytes(ia), *set.InitialArea)
	assert.Equal(t, digest.SumBytes(img), set.Default)
}

func TestComputeDigestSetWithoutInitialArea(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Game.xci")
	img := defaultImage(5000)
	require.NoError(t, os.WriteFile(path, img, 0644))

	set, err := ComputeDigestSet(context.Background(), "", path, Options{})
	require.NoError(t, err)
	assert.Equal(t, digest.SumBytes(img), set.Default)
	assert.Nil(t, set.InitialArea)
	assert.Nil(t, set.Full)
}

func TestTruncateFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	iaPath := filepath.Join(dir, "ia.bin")
	defaultPath := filepath.Join(dir, "Game.xci")
	ia, img := initialArea(), defaultImage(6000)
	require.NoError(t, os.WriteFile(iaPath, ia, 0644))
	require.NoError(t, os.WriteFile(defaultPath, img, 0644))

	assembled, err := AssembleFile(context.Background(), iaPath, defaultPath, "", Options{})
	require.NoError(t, err)

	outDir := filepath.Join(dir, "split")
	split, err := TruncateFile(context.Background(), assembled.Path, outDir, Options{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "Game (Initial Area).bin"), split.InitialAreaPath)
	assert.Equal(t, filepath.Join(outDir, "Game (Default XCI).xci"), split.DefaultPath)

	gotIA, err := os.ReadFile(split.InitialAreaPath)
	require.NoError(t, err)
	gotImg, err := os.ReadFile(split.DefaultPath)
	require.NoError(t, err)
	assert.Equal(t, ia, gotIA)
	assert.Equal(t, img, gotImg)
}

func TestFileOperationsNameTheOffendingFile(t *testing.T) {
	dir := t.TempDir()
	iaPath := filepath.Join(dir, "ia.bin")
	fullPath := filepath.Join(dir, "Full.xci")
	require.NoError(t, os.WriteFile(iaPath, make([]byte, 600), 0644))
	require.NoError(t, os.WriteFile(fullPath, make([]byte, 8192), 0644))

	_, err := AssembleFile(context.Background(), iaPath, fullPath, filepath.Join(dir, "out.xci"), Options{})
	var mismatch *errors.MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, iaPath, mismatch.Path)
	assert.ErrorIs(t, err, errors.ErrInvalidInitialAreaSize)

	require.NoError(t, os.WriteFile(iaPath, make([]byte, InitialAreaSize), 0644))
	_, err = AssembleFile(context.Background(), iaPath, fullPath, filepath.Join(dir, "out.xci"), Options{})
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, fullPath, mismatch.Path)
	assert.ErrorIs(t, err, errors.ErrWrongImageKind)
	assert.NoFileExists(t, filepath.Join(dir, "out.xci"))

	defaultPath := filepath.Join(dir, "Default.xci")
	require.NoError(t, os.WriteFile(defaultPath, defaultImage(8192), 0644))
	_, err = TruncateFile(context.Background(), defaultPath, "", Options{})
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, defaultPath, mismatch.Path)
	assert.ErrorIs(t, err, errors.ErrNotAFullImage)
}

func TestConcurrentWriteToSameDestinationIsRejected(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "busy.xci")

	release, err := fsutil.ClaimPaths(out)
	require.NoError(t, err)
	defer release()

	_, err = AssembleFile(context.Background(), filepath.Join(dir, "ia.bin"), filepath.Join(dir, "d.xci"), out, Options{})
	assert.ErrorIs(t, err, errors.ErrDestinationBusy)
}

func TestNaming(t *testing.T) {
	assert.Equal(t, filepath.Join("dumps", "Game (Full XCI).xci"), FullName(filepath.Join("dumps", "Game.xci")))

	ia, def := SplitNames(filepath.Join("dumps", "Game (Full XCI).xci"))
	assert.Equal(t, filepath.Join("dumps", "Game (Initial Area).bin"), ia)
	assert.Equal(t, filepath.Join("dumps", "Game (Default XCI).xci"), def)

	ia, def = SplitNames(filepath.Join("dumps", "Other.xci"))
	assert.Equal(t, filepath.Join("dumps", "Other (Initial Area).bin"), ia)
	assert.Equal(t, filepath.Join("dumps", "Other (Default XCI).xci"), def)

	// naming round trip
	ia, def = SplitNames(FullName("Game.xci"))
	assert.Equal(t, "Game (Initial Area).bin", ia)
	assert.Equal(t, "Game (Default XCI).xci", def)
}
