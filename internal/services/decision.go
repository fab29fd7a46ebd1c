package services

import "github.com/Lisdexico96/Telegram-interview-bot/internal/models"

// DecisionService maps cumulative interview totals to a hire decision
// and renders the candidate-facing feedback for it. Thresholds operate
// on a 0-50 range (QuestionsPerInterview * 10).
type DecisionService struct{}

func NewDecisionService() *DecisionService {
	return &DecisionService{}
}

// Determine applies the fixed decision thresholds. An approval-range
// score with a breached AI ceiling reads as scripted output rather
// than skill and is not demoted to borderline.
func (s *DecisionService) Determine(score, aiScore int) string {
	switch {
	case score >= 17 && aiScore <= 8:
		return models.DecisionApproved
	case score >= 17:
		return models.DecisionNotEligible
	case score >= 13 && aiScore <= 10:
		return models.DecisionBorderline
	default:
		return models.DecisionNotEligible
	}
}

// Feedback renders the candidate-facing message for a decision. Raw
// scores and AI detection are never exposed to candidates.
func (s *DecisionService) Feedback(decision string) string {
	switch decision {
	case models.DecisionApproved:
		return "Thank you for completing the interview! 🎉\n\n" +
			"We're pleased to let you know that we'd like to move forward with your application. " +
			"You demonstrated strong emotional control, escalation skills, and understanding of monetization strategy.\n\n" +
			"Next steps:\n" +
			"• You'll receive onboarding information within the next 24-48 hours\n" +
			"• Our team will reach out with training details and access credentials\n" +
			"• Please keep an eye on your messages for further instructions\n\n" +
			"Welcome to the team! We're excited to work with you."
	case models.DecisionBorderline:
		return "Thank you for completing the interview! 👋\n\n" +
			"You showed good potential in your responses. While we're not moving forward immediately, " +
			"we'd like to keep your application on file for future opportunities.\n\n" +
			"Your communication style shows promise, but may benefit from additional training in pacing or objection handling.\n\n" +
			"We appreciate your interest and wish you the best in your search."
	default:
		return "Thank you for taking the time to complete our interview process.\n\n" +
			"After careful consideration, we've decided to move forward with other candidates at this time. " +
			"This doesn't reflect on you personally, but rather on finding the right fit for our specific needs.\n\n" +
			"We appreciate your interest and wish you the best in your search."
	}
}
