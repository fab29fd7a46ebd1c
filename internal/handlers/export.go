package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"

	"github.com/gin-gonic/gin"
)

// ExportResults streams all completed interviews as CSV, one row per
// answered question.
func (h *CandidateHandler) ExportResults(c *gin.Context) {
	var candidates []models.Candidate
	if err := h.db.Where("completed = ?", true).
		Order("last_time DESC").
		Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load results"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="interview_results.csv"`)

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{
		"user_id", "username", "name", "decision", "score", "ai_score",
		"completed_at", "question_number", "question", "answer", "response_time_seconds",
	})

	for _, cand := range candidates {
		var responses []models.Response
		h.db.Where("user_id = ?", cand.UserID).Order("question_number ASC").Find(&responses)

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
			w.Write(append(base, "", "", "", ""))
			continue
		}

		for _, r := range responses {
			row := append(append([]string{}, base...),
				strconv.Itoa(r.QuestionNumber+1),
				r.QuestionText,
				r.ResponseText,
				fmt.Sprintf("%.1f", r.ResponseTime),
			)
			w.Write(row)
		}
	}
}
