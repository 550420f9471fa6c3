package cmd

import (
	"fmt"
	"os"

	"azure-cost-reconciler/pkg/errors"
	"azure-cost-reconciler/pkg/logger"

	"github.com/spf13/viper"
)

// HandleError prints a user-friendly message for a failed command and
// returns the process exit code. Run-level failures (missing input root,
// zero subscriptions) exit with 1 per the CLI contract.
func HandleError(err error) int {
	if err == nil {
		return 0
	}

	logger.GetGlobalLogger().WithComponent("cli").WithError(err).Error("Command failed")

	if reconErr, ok := errors.AsCostReconError(err); ok {
		return handleCostReconError(reconErr)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func handleCostReconError(err *errors.CostReconError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "Suggestion: %s\n", err.Suggestion)
	}

	if viper.GetBool("verbose") {
		if len(err.Context) > 0 {
			fmt.Fprintf(os.Stderr, "Context:\n")
			for key, value := range err.Context {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
			}
		}
		if err.Cause != nil {
			fmt.Fprintf(os.Stderr, "Underlying error: %v\n", err.Cause)
		}
	}

	return err.GetExitCode()
}
