package composition

import (
	"context"
	"fmt"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/cardid"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/metadata"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/scene"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/submission"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/xci"
)

// SubmissionRequest names the inputs of one submission
type SubmissionRequest struct {
	Form submission.Form

	DefaultImage string
	InitialArea  string

	// MetadataFile is a text export; MetadataImage is imported through
	// hactoolnet. The file wins when both are set.
	MetadataFile  string
	MetadataImage string

	CardID   string
	SceneDir string

	OutputDir string

	// Force writes the document even when fields are still missing
	Force bool
}

// SubmissionResult describes a written submission
type SubmissionResult struct {
	Path      string
	Form      submission.Form
	Remaining int
	Datafile  *submission.Datafile
}

// PrepareSubmission fills the form from every input the request names and
// returns it together with the scene directory details, if any
func PrepareSubmission(ctx context.Context, env *Env, req SubmissionRequest) (submission.Form, *scene.Info, error) {
	form := req.Form

	switch {
	case req.MetadataFile != "":
		rec, err := metadata.ParseFile(req.MetadataFile)
		if err != nil {
			return form, nil, err
		}
		form.ApplyMetadata(rec)
	case req.MetadataImage != "":
		rec, err := env.Hactool.Import(ctx, req.MetadataImage)
		if err != nil {
			return form, nil, err
		}
		form.ApplyMetadata(rec)
	}

	if req.CardID != "" && !form.Scene {
		set, err := cardid.Read(ctx, req.CardID)
		if err != nil {
			return form, nil, err
		}
		form.ApplyCardID(set)
	}

	if req.DefaultImage != "" {
		ia := ""
		if !form.Scene && form.IncludeInitialArea {
			ia = req.InitialArea
		}
		set, err := xci.ComputeDigestSet(ctx, ia, req.DefaultImage, env.xciOptions())
		if err != nil {
			return form, nil, err
		}
		form.ApplyDigests(set)
	}

	var info *scene.Info
	if form.Scene && req.SceneDir != "" {
		var err error
		info, err = scene.Inspect(ctx, req.SceneDir)
		if err != nil {
			return form, nil, err
		}
	}

	return form, info, nil
}

// GenerateSubmission prepares the form, checks it is complete and writes the
// submission document into the output directory
func GenerateSubmission(ctx context.Context, env *Env, req SubmissionRequest) (*SubmissionResult, error) {
	form, info, err := PrepareSubmission(ctx, env, req)
	if err != nil {
		return nil, err
	}

	form, err = env.Builder.Resolve(form)
	if err != nil {
		return nil, err
	}

	remaining := env.Builder.RemainingFields(form)
	if !req.Force {
		if err := env.Builder.Ready(form, info); err != nil {
			return nil, err
		}
	} else if remaining > 0 {
		logger.LogWarn("writing incomplete submission", map[string]interface{}{
			"remaining": remaining,
		})
	}

	df, err := env.Builder.Build(form, info)
	if err != nil {
		return nil, err
	}

	outDir := req.OutputDir
	if outDir == "" {
		outDir = env.OutputDir
	}
	if outDir == "" {
		return nil, fmt.Errorf("%w: no output directory", errors.ErrInvalidArgument)
	}

	path, err := submission.Write(outDir, form, df)
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{
		Path:      path,
		Form:      form,
		Remaining: remaining,
		Datafile:  df,
	}, nil
}
