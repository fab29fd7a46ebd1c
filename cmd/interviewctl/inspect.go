package main

import (
	"fmt"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print row counts and report invariant violations",
	Run: func(cmd *cobra.Command, _ []string) {
		zlog := newLogger()
		defer zlog.Sync()

		db, err := openDB()
		if err != nil {
			zlog.Fatal("opening database", zap.Error(err))
		}

		var candidates, responses, completed, locked int64
		db.Model(&models.Candidate{}).Count(&candidates)
		db.Model(&models.Response{}).Count(&responses)
		db.Model(&models.Candidate{}).Where("completed = ?", true).Count(&completed)
		db.Model(&models.Candidate{}).Where("locked = ?", true).Count(&locked)

		fmt.Printf("candidates: %d (completed: %d, locked: %d)\n", candidates, completed, locked)
		fmt.Printf("responses:  %d\n", responses)

		maxScore := services.QuestionsPerInterview * 10
		anomalies := 0

		var overflowed []models.Candidate
		db.Where("score > ?", maxScore).Find(&overflowed)
		for _, c := range overflowed {
			anomalies++
			fmt.Printf("ANOMALY: user %d score %d exceeds maximum %d\n", c.UserID, c.Score, maxScore)
		}

		var unlockedCompleted []models.Candidate
		db.Where("completed = ? AND locked = ?", true, false).Find(&unlockedCompleted)
		for _, c := range unlockedCompleted {
			anomalies++
			fmt.Printf("ANOMALY: user %d completed but not locked\n", c.UserID)
		}

		var noDecision []models.Candidate
		db.Where("locked = ? AND (decision IS NULL OR decision = '')", true).Find(&noDecision)
		for _, c := range noDecision {
			anomalies++
			fmt.Printf("ANOMALY: user %d locked without decision\n", c.UserID)
		}

		type overCount struct {
			UserID int64
			N      int64
		}
		var over []overCount
		db.Model(&models.Response{}).
			Select("user_id, count(*) as n").
			Group("user_id").
			Having("count(*) > ?", services.QuestionsPerInterview).
			Scan(&over)
		for _, o := range over {
			anomalies++
			fmt.Printf("ANOMALY: user %d has %d responses (max %d)\n", o.UserID, o.N, services.QuestionsPerInterview)
		}

		if anomalies == 0 {
			fmt.Println("no anomalies found")
		} else {
			fmt.Printf("%d anomalies found - run '%s fix' to repair\n", anomalies, app)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
