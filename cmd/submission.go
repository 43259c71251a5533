package cmd

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/termutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/composition"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/config"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/submission"
	"github.com/deploymenttheory/go-nx-cart-submitter/pkg/tooling"
	"github.com/spf13/cobra"
)

var submissionCmd = &cobra.Command{
	Use:   "submission",
	Short: "Generate submission documents",
}

var submissionGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the XML submission document for a dump",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := submissionRequest(cmd)
		if err != nil {
			return err
		}

		env := tooling.NewEnv()
		progress, done := progressFor("Hashing")
		env.Progress = progress
		res, err := composition.GenerateSubmission(cmd.Context(), env, req)
		done()
		if err != nil {
			return err
		}

		if res.Remaining > 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), termutil.Warn(fmt.Sprintf("%d fields left", res.Remaining)))
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Path)
		return nil
	},
}

var submissionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report how many fields a submission is still missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := submissionRequest(cmd)
		if err != nil {
			return err
		}

		env := tooling.NewEnv()
		form, info, err := composition.PrepareSubmission(cmd.Context(), env, req)
		if err != nil {
			return err
		}
		form, err = env.Builder.Resolve(form)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %d\n", termutil.Label("Fields left:"), env.Builder.RemainingFields(form))
		if err := env.Builder.Ready(form, info); err != nil {
			fmt.Fprintln(w, termutil.Fail(err.Error()))
			return nil
		}
		fmt.Fprintf(w, "%s %s\n", termutil.Pass("Ready:"), submission.FileName(form))
		return nil
	},
}

var submissionShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Summarise a written submission document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		df, err := submission.Load(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Game:    "), df.Game.Name)
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Kind:    "), df.Kind())
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Region:  "), df.Game.Archive.Region)
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Title ID:"), df.Game.Archive.GameID1)
		for _, f := range df.FileEntries() {
			fmt.Fprintf(w, "  %-12s %-4s %12s %s\n", f.Format, f.Extension, f.Size, f.CRC32)
		}
		return nil
	},
}

var submissionOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the known regions, dump tools and scene groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"regions":      submission.Regions,
				"tools":        submission.Tools,
				"scene_groups": submission.SceneGroups,
			})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, termutil.Label("Regions"))
		for _, r := range submission.Regions {
			fmt.Fprintf(w, "  %-32s %s\n", r.Label, r.Value)
		}
		fmt.Fprintln(w, termutil.Label("Tools"))
		for _, t := range submission.Tools {
			fmt.Fprintf(w, "  %s\n", t)
		}
		fmt.Fprintln(w, termutil.Label("Scene groups"))
		fmt.Fprintf(w, "  %s\n", strings.Join(submission.SceneGroups, ", "))
		return nil
	},
}

// submissionRequest reads the form file and the input flags shared by
// generate and status
func submissionRequest(cmd *cobra.Command) (composition.SubmissionRequest, error) {
	flags := cmd.Flags()
	formPath, _ := flags.GetString("form")

	form := submission.NewForm()
	if formPath != "" {
		loaded, err := submission.LoadForm(formPath)
		if err != nil {
			return composition.SubmissionRequest{}, err
		}
		form = loaded
	}
	if flags.Changed("scene") {
		form.Scene, _ = flags.GetBool("scene")
	}
	if flags.Changed("no-initial-area") {
		noIA, _ := flags.GetBool("no-initial-area")
		form.IncludeInitialArea = !noIA
	}

	req := composition.SubmissionRequest{Form: form}
	req.DefaultImage, _ = flags.GetString("default")
	req.InitialArea, _ = flags.GetString("initial-area")
	req.MetadataFile, _ = flags.GetString("metadata")
	req.MetadataImage, _ = flags.GetString("metadata-image")
	req.CardID, _ = flags.GetString("card-id")
	req.SceneDir, _ = flags.GetString("scene-dir")
	req.OutputDir, _ = flags.GetString("output-dir")
	req.Force, _ = flags.GetBool("force")
	if req.OutputDir == "" {
		req.OutputDir = config.Instance.Output.Dir
	}
	return req, nil
}

func init() {
	for _, c := range []*cobra.Command{submissionGenerateCmd, submissionStatusCmd} {
		f := c.Flags()
		f.String("form", "", "Form file (YAML, JSON or TOML)")
		f.String("default", "", "Default XCI to digest")
		f.String("initial-area", "", "Initial Area file")
		f.String("metadata", "", "Metadata export to fill the title fields from")
		f.String("metadata-image", "", "Cartridge image to import title fields from with hactoolnet")
		f.String("card-id", "", "Card ID set whose block becomes the comment")
		f.String("scene-dir", "", "Scene release directory")
		f.String("output-dir", "", "Directory the document is written to")
		f.Bool("scene", false, "Submit a scene release instead of a trusted dump")
		f.Bool("no-initial-area", false, "Leave the Initial Area and FullXCI out")
	}
	submissionGenerateCmd.Flags().Bool("force", false, "Write the document even when fields are missing")
	submissionOptionsCmd.Flags().Bool("json", false, "Print the lists as JSON")

	submissionCmd.AddCommand(submissionGenerateCmd, submissionStatusCmd, submissionShowCmd, submissionOptionsCmd)
	rootCmd.AddCommand(submissionCmd)
}
