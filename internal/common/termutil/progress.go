// Package termutil renders progress and verification output for interactive terminals
package termutil

import (
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"golang.org/x/term"
)

// Progress prints a single self-overwriting percentage line when attached to
// a terminal. Otherwise updates go to the debug log.
type Progress struct {
	out   io.Writer
	label string
	tty   bool
	last  int
}

// NewProgress creates a progress line on f
func NewProgress(f *os.File, label string) *Progress {
	return &Progress{
		out:   f,
		label: label,
		tty:   IsTerminal(f),
		last:  -1,
	}
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Update records processed of total bytes. The line is only redrawn when the
// whole percentage changes.
func (p *Progress) Update(processed, total uint64) {
	if p == nil || total == 0 {
		return
	}

	pct := int(processed * 100 / total)
	if pct > 100 {
		pct = 100
	}
	if pct == p.last {
		return
	}
	p.last = pct

	if !p.tty {
		logger.LogDebug("progress", map[string]interface{}{
			"label":     p.label,
			"processed": processed,
			"total":     total,
		})
		return
	}

	fmt.Fprintf(p.out, "\r%s... %3d%%", p.label, pct)
}

// Done terminates the progress line
func (p *Progress) Done() {
	if p == nil || !p.tty || p.last < 0 {
		return
	}
	fmt.Fprintln(p.out)
}
