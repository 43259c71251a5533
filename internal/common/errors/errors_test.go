package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMismatchUnwrapsToSentinel(t *testing.T) {
	err := Mismatch("game.xci", "Default XCI", ErrWrongImageKind)
	wrapped := fmt.Errorf("assemble failed: %w", err)

	assert.True(t, Is(wrapped, ErrWrongImageKind))
	assert.False(t, Is(wrapped, ErrNotAFullImage))

	var mismatch *MismatchError
	require.True(t, As(wrapped, &mismatch))
	assert.Equal(t, "game.xci", mismatch.Path)
	assert.Equal(t, "Default XCI", mismatch.Expected)
	assert.Contains(t, err.Error(), "game.xci")
	assert.Contains(t, err.Error(), "expected Default XCI")
}

func TestMismatchWithoutExpectation(t *testing.T) {
	err := Mismatch("ia.bin", "", ErrInvalidInitialAreaSize)
	assert.Equal(t, "ia.bin: initial area must be exactly 512 bytes", err.Error())
}
