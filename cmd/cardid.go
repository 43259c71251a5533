package cmd

import (
	"fmt"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/cardid"
	"github.com/spf13/cobra"
)

var cardIDCmd = &cobra.Command{
	Use:   "cardid <file>",
	Short: "Print the Card ID block of a dumped Card ID set",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := cardid.Read(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), set.Comment())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cardIDCmd)
}
