package osutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutableNameFor(t *testing.T) {
	assert.Equal(t, "hactoolnet.exe", executableNameFor(Windows, "hactoolnet"))
	assert.Equal(t, "UnRAR.EXE", executableNameFor(Windows, "UnRAR.EXE"))
	assert.Equal(t, "hactoolnet", executableNameFor(Linux, "hactoolnet"))
	assert.Equal(t, "unrar", executableNameFor(MacOS, "unrar"))
}
