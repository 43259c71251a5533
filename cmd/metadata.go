package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/fsutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/metadata"
	"github.com/deploymenttheory/go-nx-cart-submitter/pkg/tooling"
	"github.com/spf13/cobra"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Read title metadata from tool exports or cartridge images",
}

var metadataParseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a metadata export; reads stdin when no file is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dialect, _ := cmd.Flags().GetString("dialect")
		asJSON, _ := cmd.Flags().GetBool("json")

		var input string
		if len(args) == 1 {
			data, err := fsutil.ReadFileString(args[0])
			if err != nil {
				return err
			}
			input = data
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			input = string(data)
		}

		var (
			rec metadata.Record
			err error
		)
		if dialect != "" {
			rec, err = metadata.ParseAs(dialect, input)
		} else {
			rec, err = metadata.Parse(input)
		}
		if err != nil {
			return err
		}
		return printMetadata(cmd, rec, asJSON)
	},
}

var metadataImportCmd = &cobra.Command{
	Use:   "import <image>",
	Short: "List the titles of a cartridge image with hactoolnet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		rec, err := tooling.NewEnv().Hactool.Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printMetadata(cmd, rec, asJSON)
	},
}

func printMetadata(cmd *cobra.Command, rec metadata.Record, asJSON bool) error {
	s := rec.Summary()
	if asJSON {
		return printJSON(cmd.OutOrStdout(), s)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Game name: %s\n", s.GameName)
	fmt.Fprintf(w, "Languages: %s\n", s.Languages)
	fmt.Fprintf(w, "Title ID:  %s\n", s.GameID1)
	fmt.Fprintf(w, "Version:   %s\n", s.Version)
	fmt.Fprintf(w, "Update:    %s\n", s.Update)
	if s.UpdateIDs != "" {
		fmt.Fprintf(w, "Update ID: %s\n", s.UpdateIDs)
	}
	return nil
}

func init() {
	metadataParseCmd.Flags().String("dialect", "", "Skip detection and parse as one of: "+strings.Join(metadata.Dialects(), ", "))
	metadataCmd.PersistentFlags().Bool("json", false, "Print the summary as JSON")

	metadataCmd.AddCommand(metadataParseCmd, metadataImportCmd)
	rootCmd.AddCommand(metadataCmd)
}
