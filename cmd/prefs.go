package cmd

import (
	"fmt"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/common/termutil"
	"github.com/deploymenttheory/go-nx-cart-submitter/pkg/tooling"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change the remembered dumper and dump tool",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the remembered preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := tooling.PreferencesStore()
		if err != nil {
			return err
		}
		settings, err := store.Load()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s %s\n", termutil.Label("File:  "), store.Path)
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Dumper:"), settings.Dumper)
		fmt.Fprintf(w, "%s %s\n", termutil.Label("Tool:  "), settings.Tool)
		return nil
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Remember a dumper and dump tool for new submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		newDumper, _ := cmd.Flags().GetString("dumper")
		newTool, _ := cmd.Flags().GetString("tool")
		if newDumper == "" && newTool == "" {
			return fmt.Errorf("nothing to set: pass --dumper or --tool")
		}

		store, err := tooling.PreferencesStore()
		if err != nil {
			return err
		}
		settings, err := store.Load()
		if err != nil {
			return err
		}
		return store.Save(settings.Override(newDumper, newTool))
	},
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}
