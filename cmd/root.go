package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/config"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/deploymenttheory/go-nx-cart-submitter/pkg/tooling"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	debug     bool
	logFormat string
	logFile   string
	dumper    string
	tool      string
)

// rootCmd represents the base CLI command
var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Prepare Nintendo Switch cartridge dump submissions",
	Long: `nx-cart-submitter hashes cartridge dumps, builds and splits FullXCI
images, imports title metadata, verifies scene releases and writes the
XML submission document for a dump database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return tooling.Initialize(tooling.InitOptions{
			ConfigFile: cfgFile,
			Debug:      debug,
			LogFormat:  logFormat,
			LogFile:    logFile,
			Dumper:     dumper,
			Tool:       tool,
		})
	},
}

// Execute runs the root command, cancelling on interrupt
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.LogError("Command execution failed", err, nil)
		rootCmd.PrintErrln("Error:", err)
		return err
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", os.Getenv(config.EnvPrefix+"_CONFIG"), "config file (default is search in standard locations)")
	flags.BoolVar(&debug, "debug", false, "Enable debug logging")
	flags.StringVar(&logFormat, "log-format", "", "Log format: json or human")
	flags.StringVar(&logFile, "log-file", "", "Also write logs to this file")
	flags.StringVar(&dumper, "dumper", "", "Dumper name, overriding the remembered one")
	flags.StringVar(&tool, "tool", "", "Dump tool, overriding the remembered one")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows the application version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", config.AppName, tooling.GetVersion())
	},
}
