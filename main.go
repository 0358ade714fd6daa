package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/debasish218/pg-manager/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "pg-manager",
		Short:         "Paying-guest accommodation manager",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String(commands.ConfigFlag, "", "path to a YAML config file")

	rootCmd.AddCommand(
		commands.ServeCmd(),
		commands.MigrateCmd(),
		commands.RegisterCmd(),
		commands.TokenCmd(),
		commands.CheckOccupancyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
