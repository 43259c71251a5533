package jsonutil

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
)

// Write encodes v as indented JSON followed by a newline
func Write(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("%w: %s", errors.ErrFileWriteError, err.Error())
	}
	return nil
}
