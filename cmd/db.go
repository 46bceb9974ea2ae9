package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/yt-notes/internal/config"
	"github.com/Taichi-iskw/yt-notes/internal/repository/common"
)

// dbCmd groups database maintenance commands
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

// dbMigrateCmd applies the history schema
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply history database migrations",
	Long:  `Apply the embedded migrations to the database named by database_url (PostgreSQL or sqlite://).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cfg.IsSQLite() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			db, err := config.NewSQLiteDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := common.RunSQLiteMigrations(db); err != nil {
				return err
			}
		} else if err := common.RunPostgresMigrations(cfg.DatabaseURL); err != nil {
			return err
		}

		cmd.Println("✅ History database is up to date")
		return nil
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	rootCmd.AddCommand(dbCmd)
}
