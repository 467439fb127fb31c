package main

import (
	"os"

	"github.com/spf13/cobra"

	"prepwise/internal/interfaces/cli/migrate"
	"prepwise/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prepwise",
		Short: "Prepwise - exam preparation backend",
		Long:  `Prepwise serves the exam preparation API: subject and topic catalogs, subscription gating, daily test quotas and mastery tracking.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
