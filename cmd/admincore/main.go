package main

import (
	"os"

	"github.com/spf13/cobra"

	"admincore/internal/interfaces/cli/migrate"
	"admincore/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "admincore",
		Short: "Admincore - authentication and session backend",
		Long:  `Admincore provides credential, lockout, session and authorization services for the admin platform, with built-in server and migration tools.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
