package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, db := openDB(cmd.Context())
		defer db.Close()
		fmt.Printf("Database (%s) is up to date\n", cfg.Database.Driver)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
