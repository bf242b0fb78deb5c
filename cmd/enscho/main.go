package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"enscho/internal/config"
	"enscho/internal/database"
	"enscho/migrations"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "enscho",
	Short: "School website and PPDB admission portal",
	Long:  "enscho serves the public school site, PPDB registration and the role dashboards.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB loads the configuration and opens a migrated database.
func openDB(ctx context.Context) (*config.Config, *database.DB) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		db.Close()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	return cfg, db
}
