package cmd

import (
	"fmt"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/termutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/scene"
	"github.com/deploymenttheory/go-nx-cart-submitter/pkg/tooling"
	"github.com/spf13/cobra"
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Inspect, verify and extract scene release directories",
}

var sceneInfoCmd = &cobra.Command{
	Use:   "info <dir>",
	Short: "Show the release details recorded in a submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		info, err := scene.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if asJSON {
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"dirname":     info.DirName(),
				"archivename": info.ArchiveBase(),
				"nfoname":     info.NFOBase(),
				"nfosize":     info.NFOSizeString(),
				"nfocrc":      info.NFOCRC,
				"date":        info.Date,
				"sfv":         info.SFVName,
			})
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Directory:"), info.DirName())
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Archive:  "), info.ArchiveBase())
		fmt.Fprintf(w, "%s %s\n", termutil.Label("NFO:      "), info.NFOBase())
		fmt.Fprintf(w, "%s %s\n", termutil.Label("NFO size: "), info.NFOSizeString())
		fmt.Fprintf(w, "%s %s\n", termutil.Label("NFO CRC:  "), info.NFOCRC)
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Date:     "), info.Date)
		return nil
	},
}

var sceneNFOCmd = &cobra.Command{
	Use:   "nfo <dir>",
	Short: "Print the release NFO",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := scene.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		text, err := scene.ReadNFO(info)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), termutil.Label(info.NFOName))
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

var sceneVerifyCmd = &cobra.Command{
	Use:   "verify <dir>",
	Short: "Check every file in the release against its SFV checksum list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := scene.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		report, err := scene.Verify(cmd.Context(), args[0], info.SFVName)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), report.Log())
		if report.Passed() {
			fmt.Fprintln(cmd.OutOrStdout(), termutil.Pass("PASS"))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), termutil.Fail("FAIL"))
		return report.Err()
	},
}

var sceneExtractCmd = &cobra.Command{
	Use:   "extract <dir>",
	Short: "Unpack the release archive with unrar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		keep, _ := cmd.Flags().GetBool("keep")

		info, err := scene.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := tooling.NewEnv().Extractor.Extract(cmd.Context(), args[0], info.ArchiveName, password, keep); err != nil {
			return err
		}
		if !keep {
			fmt.Fprintln(cmd.OutOrStdout(), termutil.Warn("archive volumes removed"))
		}
		return nil
	},
}

func init() {
	sceneInfoCmd.Flags().Bool("json", false, "Print details as JSON")
	sceneExtractCmd.Flags().String("password", "", "Archive password")
	sceneExtractCmd.Flags().Bool("keep", false, "Keep the archive volumes after extracting")

	sceneCmd.AddCommand(sceneInfoCmd, sceneNFOCmd, sceneVerifyCmd, sceneExtractCmd)
	rootCmd.AddCommand(sceneCmd)
}
