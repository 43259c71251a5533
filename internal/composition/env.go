package composition

import (
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/config"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/digest"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/hactool"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/prefs"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/scene"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/submission"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/xci"
)

// Env carries the collaborators shared by every step of a run
type Env struct {
	ChunkSize int
	OutputDir string

	// Progress, when set, receives byte counts from long digest and copy
	// operations
	Progress digest.ProgressFunc

	Hactool   *hactool.Tool
	Extractor *scene.Extractor
	Builder   *submission.Builder
}

// NewEnv wires an Env from the loaded configuration and remembered settings
func NewEnv(cfg config.AppConfig, settings prefs.Settings) *Env {
	outputDir := cfg.Output.Dir
	if outputDir == "" {
		outputDir = "."
	}
	return &Env{
		ChunkSize: cfg.Digest.ChunkSize,
		OutputDir: outputDir,
		Hactool:   hactool.New(cfg.Tools.Dir, cfg.Tools.Hactoolnet, cfg.Tools.Keys),
		Extractor: scene.NewExtractor(cfg.Tools.Dir, cfg.Tools.Unrar),
		Builder:   submission.NewBuilder(settings),
	}
}

func (e *Env) xciOptions() xci.Options {
	return xci.Options{ChunkSize: e.ChunkSize, Progress: e.Progress}
}

func (e *Env) digestOptions() []digest.Option {
	var opts []digest.Option
	if e.ChunkSize > 0 {
		opts = append(opts, digest.WithChunkSize(e.ChunkSize))
	}
	return opts
}
