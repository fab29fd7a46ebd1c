package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Print completed interviews with transcripts, or export them to CSV with --csv",
	Run: func(cmd *cobra.Command, _ []string) {
		zlog := newLogger()
		defer zlog.Sync()

		csvPath, _ := cmd.Flags().GetString("csv")

		db, err := openDB()
		if err != nil {
			zlog.Fatal("opening database", zap.Error(err))
		}

		var candidates []models.Candidate
		if err := db.Where("completed = ?", true).
			Order("last_time DESC").
			Find(&candidates).Error; err != nil {
			zlog.Fatal("loading candidates", zap.Error(err))
		}

		if len(candidates) == 0 {
			fmt.Println("No completed interviews found.")
			return
		}

		if csvPath != "" {
			if err := writeCSV(db, candidates, csvPath); err != nil {
				zlog.Fatal("writing csv", zap.Error(err))
			}
			zlog.Info("results exported", zap.String("path", csvPath), zap.Int("candidates", len(candidates)))
			return
		}

		fmt.Printf("INTERVIEW RESULTS - %d completed interview(s)\n", len(candidates))
		for _, cand := range candidates {
			fmt.Printf("\n================================================================================\n")
			fmt.Printf("Candidate: %s\n", cand.DisplayName())
			fmt.Printf("User ID: %d\n", cand.UserID)
			fmt.Printf("Completed: %s\n", cand.LastTime.Format("2006-01-02 15:04:05"))
			fmt.Printf("Decision: %s\n", cand.Decision)
			fmt.Printf("Score: %d | AI Score: %d\n", cand.Score, cand.AIScore)

			var responses []models.Response
			db.Where("user_id = ?", cand.UserID).Order("question_number ASC").Find(&responses)
			for _, r := range responses {
				fmt.Printf("\nQ%d: %s\n", r.QuestionNumber+1, r.QuestionText)
				fmt.Printf("A: %s\n", r.ResponseText)
				fmt.Printf("Response time: %.1fs\n", r.ResponseTime)
			}
		}
	},
}

func writeCSV(db *gorm.DB, candidates []models.Candidate, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{
		"user_id", "username", "name", "decision", "score", "ai_score",
		"completed_at", "question_number", "question", "answer", "response_time_seconds",
	}); err != nil {
		return err
	}

	for _, cand := range candidates {
		var responses []models.Response
		db.Where("user_id = ?", cand.UserID).Order("question_number ASC").Find(&responses)

		base := []string{
			strconv.FormatInt(cand.UserID, 10),
			cand.Username,
			cand.Name,
			cand.Decision,
			strconv.Itoa(cand.Score),
			strconv.Itoa(cand.AIScore),
			cand.LastTime.Format("2006-01-02 15:04:05"),
		}

		if len(responses) == 0 {
			if err := w.Write(append(base, "", "", "", "")); err != nil {
				return err
			}
			continue
		}

		for _, r := range responses {
			row := append(append([]string{}, base...),
				strconv.Itoa(r.QuestionNumber+1),
				r.QuestionText,
				r.ResponseText,
				fmt.Sprintf("%.1f", r.ResponseTime),
			)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(resultsCmd)

	resultsCmd.Flags().String("csv", "", "write results to this CSV file instead of printing")
}
