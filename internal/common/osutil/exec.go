package osutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	commonerrors "github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
)

// Runner runs an external program and captures its output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, err error)
}

// CommandRunner runs programs with os/exec
type CommandRunner struct {
	// Dir is the working directory of the child; empty inherits ours
	Dir string
}

// Run executes name and returns its standard output. A non-zero exit is
// reported as ErrExternalToolFailed carrying the exit code and stderr.
func (r CommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.Bytes(), ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), fmt.Errorf("%w: %s exited with code %d: %s",
			commonerrors.ErrExternalToolFailed, name, exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), fmt.Errorf("%w: %s: %v", commonerrors.ErrExternalToolFailed, name, err)
}
