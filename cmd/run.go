package cmd

import (
	"fmt"
	"sort"

	"github.com/deploymenttheory/go-nx-cart-submitter/internal/composition"
	"github.com/deploymenttheory/go-nx-cart-submitter/internal/logger"
	"github.com/deploymenttheory/go-nx-cart-submitter/pkg/tooling"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <workflow>",
	Short: "Execute a workflow file",
	Long: fmt.Sprintf(`Execute the steps of a YAML or JSON workflow in order. String parameters
are Go templates over the workflow variables and the outputs of earlier
steps.

Step types: %v`, composition.StepTypes()),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := tooling.ExecuteWorkflow(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(result.Variables))
		for k := range result.Variables {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			logger.LogDebug("workflow variable", map[string]interface{}{k: result.Variables[k]})
		}

		if path, ok := result.Variables["submission_path"]; ok {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
