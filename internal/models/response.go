package models

import "time"

// Response rows are append-only: one per answered question,
// never mutated after insertion.
type Response struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         int64     `gorm:"not null;uniqueIndex:idx_user_question" json:"user_id"`
	QuestionNumber int       `gorm:"not null;uniqueIndex:idx_user_question" json:"question_number"`
	QuestionText   string    `gorm:"type:text" json:"question_text"`
	ResponseText   string    `gorm:"type:text" json:"response_text"`
	ResponseTime   float64   `gorm:"not null;default:0" json:"response_time"`
	Timestamp      time.Time `json:"timestamp"`
}
