package main

import (
	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// fixCmd repairs rows that violate the completion invariants:
// completed candidates without the lock flag, locked candidates
// without a decision, and scores above the theoretical maximum.
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Repair inconsistent completion state (missing locks, missing decisions, overflowed scores)",
	Run: func(cmd *cobra.Command, _ []string) {
		zlog := newLogger()
		defer zlog.Sync()

		db, err := openDB()
		if err != nil {
			zlog.Fatal("opening database", zap.Error(err))
		}

		decider := services.NewDecisionService()
		maxScore := services.QuestionsPerInterview * 10

		res := db.Model(&models.Candidate{}).
			Where("completed = ? AND locked = ?", true, false).
			Update("locked", true)
		if res.Error != nil {
			zlog.Fatal("locking completed candidates", zap.Error(res.Error))
		}
		zlog.Info("locks restored", zap.Int64("rows", res.RowsAffected))

		res = db.Model(&models.Candidate{}).
			Where("score > ?", maxScore).
			Update("score", maxScore)
		if res.Error != nil {
			zlog.Fatal("capping scores", zap.Error(res.Error))
		}
		zlog.Info("scores capped", zap.Int64("rows", res.RowsAffected))

		var missing []models.Candidate
		if err := db.Where("locked = ? AND (decision IS NULL OR decision = '')", true).
			Find(&missing).Error; err != nil {
			zlog.Fatal("loading candidates without decision", zap.Error(err))
		}

		for _, cand := range missing {
			decision := decider.Determine(cand.Score, cand.AIScore)
			feedback := decider.Feedback(decision)
			if err := db.Model(&models.Candidate{}).
				Where("user_id = ?", cand.UserID).
				Updates(map[string]interface{}{"decision": decision, "feedback": feedback}).Error; err != nil {
				zlog.Error("repairing decision", zap.Int64("user_id", cand.UserID), zap.Error(err))
				continue
			}
			zlog.Info("decision repaired",
				zap.Int64("user_id", cand.UserID), zap.String("decision", decision))
		}

		zlog.Info("fix complete")
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
}
