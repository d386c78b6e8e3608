package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/agentlink/internal/cli"
	"github.com/arthur-debert/agentlink/pkg/clients"
	"github.com/arthur-debert/agentlink/pkg/style"
)

func main() {
	clients.MustValidate()

	rootCmd := cli.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
