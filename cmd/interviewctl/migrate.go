package main

import (
	"github.com/Lisdexico96/Telegram-interview-bot/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the candidates, responses and reviewers tables",
	Run: func(cmd *cobra.Command, _ []string) {
		zlog := newLogger()
		defer zlog.Sync()

		db, err := openDB()
		if err != nil {
			zlog.Fatal("opening database", zap.Error(err))
		}

		if err := database.AutoMigrate(db); err != nil {
			zlog.Fatal("migrating", zap.Error(err))
		}

		zlog.Info("database migrated")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
