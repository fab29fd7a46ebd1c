package main

import (
	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe interview state for one candidate (--user) or the whole database (--all --yes)",
	Run: func(cmd *cobra.Command, _ []string) {
		zlog := newLogger()
		defer zlog.Sync()

		userID, _ := cmd.Flags().GetInt64("user")
		all, _ := cmd.Flags().GetBool("all")
		yes, _ := cmd.Flags().GetBool("yes")

		if userID == 0 && !all {
			zlog.Fatal("either --user or --all is required")
		}
		if all && !yes {
			zlog.Fatal("refusing to wipe every candidate without --yes")
		}

		db, err := openDB()
		if err != nil {
			zlog.Fatal("opening database", zap.Error(err))
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if all {
				if err := tx.Where("1 = 1").Delete(&models.Response{}).Error; err != nil {
					return err
				}
				return tx.Where("1 = 1").Delete(&models.Candidate{}).Error
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Response{}).Error; err != nil {
				return err
			}
			return tx.Where("user_id = ?", userID).Delete(&models.Candidate{}).Error
		})
		if err != nil {
			zlog.Fatal("resetting", zap.Error(err))
		}

		if all {
			zlog.Info("all candidates and responses deleted")
		} else {
			zlog.Info("candidate state deleted", zap.Int64("user_id", userID))
		}
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Int64("user", 0, "candidate user id to reset")
	resetCmd.Flags().Bool("all", false, "reset every candidate")
	resetCmd.Flags().BoolP("yes", "y", false, "skip confirmation for --all")
}
