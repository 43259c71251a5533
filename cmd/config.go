package cmd

import (
	"fmt"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write the effective configuration to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SaveConfig(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configSaveCmd)
	rootCmd.AddCommand(configCmd)
}
