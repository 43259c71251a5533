package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/jsonutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/termutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
)

// progressFor returns a progress callback drawing on stderr, and the func
// that ends the line
func progressFor(label string) (digest.ProgressFunc, func()) {
	p := termutil.NewProgress(os.Stderr, label)
	return p.Update, p.Done
}

func printRecord(w io.Writer, label string, rec digest.Record) {
	fmt.Fprintln(w, termutil.Label(label))
	fmt.Fprintf(w, "  size:   %d\n", rec.Size)
	fmt.Fprintf(w, "  crc32:  %s\n", rec.CRC32)
	fmt.Fprintf(w, "  md5:    %s\n", rec.MD5)
	fmt.Fprintf(w, "  sha1:   %s\n", rec.SHA1)
	fmt.Fprintf(w, "  sha256: %s\n", rec.SHA256)
}

func printJSON(w io.Writer, v any) error {
	return jsonutil.Write(w, v)
}
