package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// Decision values stored on a completed candidate.
const (
	DecisionApproved    = "APPROVED"
	DecisionBorderline  = "BORDERLINE"
	DecisionNotEligible = "NOT ELIGIBLE"
)

// Phase is the interview state derived from the candidate row.
type Phase int

const (
	PhaseAwaitingName Phase = iota
	PhaseAwaitingDispatch
	PhaseAnswering
	PhaseLocked
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingName:
		return "awaiting_name"
	case PhaseAwaitingDispatch:
		return "awaiting_dispatch"
	case PhaseAnswering:
		return "answering"
	case PhaseLocked:
		return "locked"
	}
	return "unknown"
}

type Candidate struct {
	UserID            int64     `gorm:"primaryKey" json:"user_id"`
	Username          string    `gorm:"size:100" json:"username"`
	Name              string    `gorm:"size:100" json:"name"`
	QuestionIndex     int       `gorm:"not null;default:-1" json:"question_index"`
	Score             int       `gorm:"not null;default:0" json:"score"`
	AIScore           int       `gorm:"not null;default:0" json:"ai_score"`
	LastTime          time.Time `json:"last_time"`
	Completed         bool      `gorm:"not null;default:false" json:"completed"`
	Locked            bool      `gorm:"not null;default:false" json:"locked"`
	Decision          string    `gorm:"size:20" json:"decision,omitempty"`
	Feedback          string    `gorm:"type:text" json:"-"`
	SelectedQuestions string    `gorm:"type:text" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Phase maps the cursor and lock flag to the tagged interview state.
func (c *Candidate) Phase() Phase {
	if c.Locked {
		return PhaseLocked
	}
	switch {
	case c.QuestionIndex < 0:
		return PhaseAwaitingName
	case c.QuestionIndex == 0:
		return PhaseAwaitingDispatch
	default:
		return PhaseAnswering
	}
}

// Questions decodes the per-session question list. An empty column
// yields an empty slice, not an error.
func (c *Candidate) Questions() ([]string, error) {
	if c.SelectedQuestions == "" {
		return nil, nil
	}
	var qs []string
	if err := json.Unmarshal([]byte(c.SelectedQuestions), &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// DisplayName picks the best available identity for reports.
func (c *Candidate) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Username != "" {
		return "@" + c.Username
	}
	return "User " + strconv.FormatInt(c.UserID, 10)
}
