// cmd/hiringctl/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "hiringctl",
		Short: "Operator tooling for the hiring workers",
		Long: `hiringctl prepares the stores the hiring workers depend on:
schema migrations, the search index, reference data, and the activity registry.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: configs/config.yaml with environment overlay)")

	root.AddCommand(migrateCmd(&configPath))
	root.AddCommand(seedCmd(&configPath))
	root.AddCommand(registryCmd())
	return root
}
