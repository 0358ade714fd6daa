package commands

import (
	"github.com/spf13/cobra"

	"github.com/debasish218/pg-manager/config"
)

func MigrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			if seed || cfg.Seed {
				return config.SeedDatabase(cmd.Context(), db)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo data into an empty database")
	return cmd
}
