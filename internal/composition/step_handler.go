package composition

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/cardid"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/errors"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/metadata"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/scene"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/submission"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/xci"
	"github.com/spf13/cast"
)

// StepHandler is a function that executes a workflow step. Parameters have
// already been rendered; the returned values are merged into the workflow
// variables.
type StepHandler func(ctx context.Context, env *Env, step Step, variables map[string]interface{}) (map[string]interface{}, error)

type stepDef struct {
	handler  StepHandler
	required []string
}

func (s stepDef) validate(step Step) []error {
	var errs []error
	for _, key := range s.required {
		if _, ok := lookup(step.Parameters, key); !ok {
			errs = append(errs, fmt.Errorf("missing required parameter '%s'", key))
		}
	}
	return errs
}

var stepRegistry = map[string]stepDef{
	"hash":          {handler: handleHashStep, required: []string{"input"}},
	"classify":      {handler: handleClassifyStep, required: []string{"input"}},
	"assemble":      {handler: handleAssembleStep, required: []string{"initial_area", "default"}},
	"truncate":      {handler: handleTruncateStep, required: []string{"input"}},
	"cardid":        {handler: handleCardIDStep, required: []string{"input"}},
	"metadata":      {handler: handleMetadataStep},
	"scene_verify":  {handler: handleSceneVerifyStep, required: []string{"dir"}},
	"scene_extract": {handler: handleSceneExtractStep, required: []string{"dir"}},
	"submission":    {handler: handleSubmissionStep},
}

// StepTypes lists the step types a workflow may use
func StepTypes() []string {
	types := make([]string, 0, len(stepRegistry))
	for t := range stepRegistry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func recordVariables(prefix string, rec digest.Record) map[string]interface{} {
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return map[string]interface{}{
		prefix + "size":   rec.Size,
		prefix + "crc32":  rec.CRC32,
		prefix + "md5":    rec.MD5,
		prefix + "sha1":   rec.SHA1,
		prefix + "sha256": rec.SHA256,
	}
}

func handleHashStep(ctx context.Context, env *Env, step Step, _ map[string]interface{}) (map[string]interface{}, error) {
	input, err := requireString(step.Parameters, "input")
	if err != nil {
		return nil, err
	}
	decompress, err := boolParam(step.Parameters, "decompress", false)
	if err != nil {
		return nil, err
	}
	prefix := stringParam(step.Parameters, "prefix")
	if prefix == "" {
		prefix = "hash"
	}

	var rec digest.Record
	if decompress {
		rec, _, err = digest.SumDecompressedFile(ctx, input, env.digestOptions()...)
	} else {
		rec, err = digest.SumFile(ctx, input, env.digestOptions()...)
	}
	if err != nil {
		return nil, err
	}

	logger.LogInfo("hashed file", map[string]interface{}{
		"path":  input,
		"crc32": rec.CRC32,
	})
	return recordVariables(prefix, rec), nil
}

func handleClassifyStep(_ context.Context, _ *Env, step Step, _ map[string]interface{}) (map[string]interface{}, error) {
	input, err := requireString(step.Parameters, "input")
	if err != nil {
		return nil, err
	}
	kind, err := xci.ClassifyFile(input)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"kind": kind.String()}, nil
}

func handleAssembleStep(ctx context.Context, env *Env, step Step, _ map[string]interface{}) (map[string]interface{}, error) {
	ia, err := requireString(step.Parameters, "initial_area")
	if err != nil {
		return nil, err
	}
	def, err := requireString(step.Parameters, "default")
	if err != nil {
		return nil, err
	}

	res, err := xci.AssembleFile(ctx, ia, def, stringParam(step.Parameters, "output"), env.xciOptions())
	if err != nil {
		return nil, err
	}

	out := recordVariables("full", res.Digest)
	out["full_xci"] = res.Path
	return out, nil
}

func handleTruncateStep(ctx context.Context, env *Env, step Step, _ map[string]interface{}) (map[string]interface{}, error) {
	input, err := requireString(step.Parameters, "input")
	if err != nil {
		return nil, err
	}

	res, err := xci.TruncateFile(ctx, input, stringParam(step.Parameters, "output_dir"), env.xciOptions())
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"initial_area": res.InitialAreaPath,
		"default_xci":  res.DefaultPath,
	}, nil
}

func handleCardIDStep(ctx context.Context, _ *Env, step Step, _ map[string]interface{}) (map[string]interface{}, error) {
	input, err := requireString(step.Parameters, "input")
	if err != nil {
		return nil, err
	}
	set, err := cardid.Read(ctx, input)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"card_id_comment": set.Comment(),
		"card_id_crc32":   set.CRC32,
	}, nil
}

func handleMetadataStep(ctx context.Context, env *Env, step Step, _ map[string]interface{}) (map[string]interface{}, error) {
	input := stringParam(step.Parameters, "input")
	image := stringParam(step.Parameters, "image")

	var (
		rec metadata.Record
		err error
	)
	switch {
	case input != "":
		rec, err = metadata.ParseFile(input)
	case image != "":
		rec, err = env.Hactool.Import(ctx, image)
	default:
		err = fmt.Errorf("%w: metadata step needs 'input' or 'image'", errors.ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}

	s := rec.Summary()
	return map[string]interface{}{
		"game_name":  s.GameName,
		"languages":  s.Languages,
		"game_id1":   s.GameID1,
		"version":    s.Version,
		"update":     s.Update,
		"update_ids": s.UpdateIDs,
	}, nil
}

func handleSceneVerifyStep(ctx context.Context, _ *Env, step Step, _ map[string]interface{}) (map[string]interface{}, error) {
	dir, err := requireString(step.Parameters, "dir")
	if err != nil {
		return nil, err
	}
	failOnMismatch, err := boolParam(step.Parameters, "fail_on_mismatch", true)
	if err != nil {
		return nil, err
	}

	info, err := scene.Inspect(ctx, dir)
	if err != nil {
		return nil, err
	}
	report, err := scene.Verify(ctx, dir, info.SFVName)
	if err != nil {
		return nil, err
	}

	if failOnMismatch {
		if err := report.Err(); err != nil {
			return nil, err
		}
	}
	return map[string]interface{}{
		"scene_passed":     report.Passed(),
		"scene_mismatches": strings.Join(report.Mismatches(), ","),
	}, nil
}

func handleSceneExtractStep(ctx context.Context, env *Env, step Step, _ map[string]interface{}) (map[string]interface{}, error) {
	dir, err := requireString(step.Parameters, "dir")
	if err != nil {
		return nil, err
	}
	keep, err := boolParam(step.Parameters, "keep", false)
	if err != nil {
		return nil, err
	}

	info, err := scene.Inspect(ctx, dir)
	if err != nil {
		return nil, err
	}
	if err := env.Extractor.Extract(ctx, dir, info.ArchiveName, stringParam(step.Parameters, "password"), keep); err != nil {
		return nil, err
	}
	return map[string]interface{}{"extracted_dir": dir}, nil
}

func handleSubmissionStep(ctx context.Context, env *Env, step Step, variables map[string]interface{}) (map[string]interface{}, error) {
	form := submission.NewForm()
	if path := stringParam(step.Parameters, "form"); path != "" {
		loaded, err := submission.LoadForm(path)
		if err != nil {
			return nil, err
		}
		form = loaded
	}
	applyVariables(&form, variables)

	force, err := boolParam(step.Parameters, "force", false)
	if err != nil {
		return nil, err
	}

	res, err := GenerateSubmission(ctx, env, SubmissionRequest{
		Form:          form,
		DefaultImage:  stringParam(step.Parameters, "default"),
		InitialArea:   stringParam(step.Parameters, "initial_area"),
		MetadataFile:  stringParam(step.Parameters, "metadata"),
		MetadataImage: stringParam(step.Parameters, "metadata_image"),
		CardID:        stringParam(step.Parameters, "card_id"),
		SceneDir:      stringParam(step.Parameters, "scene_dir"),
		OutputDir:     stringParam(step.Parameters, "output_dir"),
		Force:         force,
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"submission_path":      res.Path,
		"submission_remaining": res.Remaining,
	}, nil
}

// applyVariables fills blank title fields and the comment from values earlier
// steps produced
func applyVariables(form *submission.Form, variables map[string]interface{}) {
	fields := map[string]*string{
		"game_name":       &form.GameName,
		"languages":       &form.Languages,
		"game_id1":        &form.GameID1,
		"version":         &form.Version,
		"update":          &form.Update,
		"card_id_comment": &form.Comment,
	}
	for key, dst := range fields {
		v, ok := variables[key]
		if !ok || strings.TrimSpace(*dst) != "" {
			continue
		}
		*dst = cast.ToString(v)
	}
}
