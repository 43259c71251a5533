package main

import (
	"os"

	"github.com/deploymenttheory/go-nx-cart-submitter/cmd"
	"github.com/deploymenttheory/go-nx-cart-submitter/pkg/tooling"
)

func main() {
	err := cmd.Execute()

	// Ensure logs are flushed before exit
	_ = tooling.Shutdown()

	if err != nil {
		os.Exit(1)
	}
}
