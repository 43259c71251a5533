package submission

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/scene"
)

// RemainingFields counts the required fields the form still leaves blank.
// Dumper and tool count as filled when the settings supply them. The Card ID
// comment and PCB serial are optional.
func (b *Builder) RemainingFields(form Form) int {
	if strings.TrimSpace(form.Dumper) == "" {
		form.Dumper = b.Settings.Dumper
	}
	if strings.TrimSpace(form.Tool) == "" {
		form.Tool = b.Settings.Tool
	}

	fields := []string{
		form.GameName,
		form.Languages,
		form.GameID1,
		form.ResolvedRegion(),
		form.Version,
		form.Update,
	}
	missing := blank(fields...) + missingDigest(form.Files.Default)

	if form.Scene {
		group := form.CustomSceneGroup
		if strings.TrimSpace(group) == "" {
			group = form.SceneGroup
		}
		return missing + blank(group)
	}

	missing += blank(form.Dumper, form.Tool, form.MediaSerial1, form.MediaSerial2)
	if !form.LooseCart {
		missing += blank(form.BoxSerial, form.BoxBarcode)
	}
	if form.IncludeInitialArea {
		missing += missingDigest(form.Files.InitialArea) + missingDigest(form.Files.Full)
	}
	return missing
}

// Ready reports whether the document can be generated: nothing is missing
// and a scene release has its directory.
func (b *Builder) Ready(form Form, info *scene.Info) error {
	if form.Scene && info == nil {
		return fmt.Errorf("%w: no scene directory selected", errors.ErrSubmissionNotReady)
	}
	if n := b.RemainingFields(form); n > 0 {
		return fmt.Errorf("%w: %d fields left", errors.ErrSubmissionNotReady, n)
	}
	return nil
}

func blank(values ...string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			n++
		}
	}
	return n
}

// missingDigest counts the blank fields of one file: size and four checksums
func missingDigest(rec digest.Record) int {
	n := blank(rec.CRC32, rec.MD5, rec.SHA1, rec.SHA256)
	if rec.Size == 0 {
		n++
	}
	return n
}
