package handlers

import (
	"net/http"
	"strconv"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CandidateHandler struct {
	db *gorm.DB
}

func NewCandidateHandler(db *gorm.DB) *CandidateHandler {
	return &CandidateHandler{db: db}
}

type CandidateDetail struct {
	models.Candidate
	Responses []models.Response `json:"responses"`
}

type CandidateStats struct {
	Total       int64 `json:"total"`
	Completed   int64 `json:"completed"`
	InProgress  int64 `json:"in_progress"`
	Approved    int64 `json:"approved"`
	Borderline  int64 `json:"borderline"`
	NotEligible int64 `json:"not_eligible"`
}

func (h *CandidateHandler) ListCandidates(c *gin.Context) {
	query := h.db.Model(&models.Candidate{}).Order("last_time DESC")

	switch c.Query("status") {
	case "completed":
		query = query.Where("completed = ?", true)
	case "in_progress":
		query = query.Where("completed = ? AND question_index >= 0", false)
	}
	if decision := c.Query("decision"); decision != "" {
		query = query.Where("decision = ?", decision)
	}

	var candidates []models.Candidate
	if err := query.Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load candidates"})
		return
	}

	c.JSON(http.StatusOK, candidates)
}

func (h *CandidateHandler) GetCandidate(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	var cand models.Candidate
	if err := h.db.Where("user_id = ?", userID).First(&cand).Error; err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "candidate not found"})
		return
	}

	var responses []models.Response
	h.db.Where("user_id = ?", userID).Order("question_number ASC").Find(&responses)

	c.JSON(http.StatusOK, CandidateDetail{Candidate: cand, Responses: responses})
}

func (h *CandidateHandler) GetStats(c *gin.Context) {
	var stats CandidateStats

	h.db.Model(&models.Candidate{}).Count(&stats.Total)
	h.db.Model(&models.Candidate{}).Where("completed = ?", true).Count(&stats.Completed)
	h.db.Model(&models.Candidate{}).Where("completed = ? AND question_index >= 0", false).Count(&stats.InProgress)
	h.db.Model(&models.Candidate{}).Where("decision = ?", models.DecisionApproved).Count(&stats.Approved)
	h.db.Model(&models.Candidate{}).Where("decision = ?", models.DecisionBorderline).Count(&stats.Borderline)
	h.db.Model(&models.Candidate{}).Where("decision = ?", models.DecisionNotEligible).Count(&stats.NotEligible)

	c.JSON(http.StatusOK, stats)
}
