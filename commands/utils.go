package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/debasish218/pg-manager/config"
)

// ConfigFlag is the persistent flag holding the optional YAML config path.
const ConfigFlag = "config"

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(ConfigFlag)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	config.SetupLogger(cfg.Log)
	return cfg, nil
}

// openDB connects and migrates, which every command that touches data needs.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := config.ConnectDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
