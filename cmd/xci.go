package cmd

import (
	"fmt"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/compressionutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/config"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/xci"
	"github.com/spf13/cobra"
)

var xciCmd = &cobra.Command{
	Use:   "xci",
	Short: "Classify, assemble and truncate cartridge images",
}

var xciClassifyCmd = &cobra.Command{
	Use:   "classify <image>...",
	Short: "Report whether images are Default XCIs or FullXCIs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			kind, err := xci.ClassifyFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, kind)
		}
		return nil
	},
}

var xciAssembleCmd = &cobra.Command{
	Use:   "assemble <initial-area> <default-xci>",
	Short: "Build a FullXCI from an Initial Area and a Default XCI",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		progress, done := progressFor("Assembling")
		res, err := xci.AssembleFile(cmd.Context(), args[0], args[1], output, xci.Options{
			ChunkSize: config.Instance.Digest.ChunkSize,
			Progress:  progress,
		})
		done()
		if err != nil {
			return err
		}

		printRecord(cmd.OutOrStdout(), res.Path, res.Digest)
		return nil
	},
}

var xciTruncateCmd = &cobra.Command{
	Use:   "truncate <full-xci>",
	Short: "Split a FullXCI into its Initial Area and Default XCI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outDir, _ := cmd.Flags().GetString("output-dir")
		compress, _ := cmd.Flags().GetString("compress")
		format, err := compressionutil.ParseFormat(compress)
		if err != nil {
			return err
		}

		progress, done := progressFor("Truncating")
		res, err := xci.TruncateFile(cmd.Context(), args[0], outDir, xci.Options{
			ChunkSize: config.Instance.Digest.ChunkSize,
			Progress:  progress,
		})
		done()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", res.InitialAreaPath, res.DefaultPath)

		if format == compressionutil.FormatNone {
			return nil
		}
		packed := res.DefaultPath + format.Extension()
		if err := compressionutil.CompressFile(res.DefaultPath, packed, format); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), packed)
		return nil
	},
}

var xciDigestCmd = &cobra.Command{
	Use:   "digest <default-xci> [initial-area]",
	Short: "Digest a Default XCI and, with an Initial Area, the FullXCI it would assemble into",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		ia := ""
		if len(args) == 2 {
			ia = args[1]
		}

		progress, done := progressFor("Digesting")
		set, err := xci.ComputeDigestSet(cmd.Context(), ia, args[0], xci.Options{
			ChunkSize: config.Instance.Digest.ChunkSize,
			Progress:  progress,
		})
		done()
		if err != nil {
			return err
		}

		if asJSON {
			return printJSON(cmd.OutOrStdout(), set)
		}
		printRecord(cmd.OutOrStdout(), "Default XCI", set.Default)
		if set.InitialArea != nil {
			printRecord(cmd.OutOrStdout(), "Initial Area", *set.InitialArea)
		}
		if set.Full != nil {
			printRecord(cmd.OutOrStdout(), "FullXCI", *set.Full)
		}
		return nil
	},
}

func init() {
	xciAssembleCmd.Flags().StringP("output", "o", "", "FullXCI path (default: next to the Default XCI)")
	xciTruncateCmd.Flags().String("output-dir", "", "Directory for the split files (default: next to the input)")
	xciTruncateCmd.Flags().String("compress", "", "Also keep a gzip, bzip2 or xz copy of the Default XCI")
	xciDigestCmd.Flags().Bool("json", false, "Print results as JSON")

	xciCmd.AddCommand(xciClassifyCmd, xciAssembleCmd, xciTruncateCmd, xciDigestCmd)
	rootCmd.AddCommand(xciCmd)
}
