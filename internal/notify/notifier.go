package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/logger"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/services"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/ws"

	"go.uber.org/zap"
)

// maxMessageLen is the transport ceiling for a single outbound
// message; reports above it fall back to a transcript-free summary.
const maxMessageLen = 4000

// Sender delivers one outbound message to a chat.
type Sender interface {
	SendMessage(chatID int64, text string) (int64, error)
}

// Notifier consumes completion events and delivers the evaluation
// report to every admin chat, keeping the state machine free of
// transport concerns. The full transcript always stays in the
// database regardless of what fits in the message.
type Notifier struct {
	sender   Sender
	hub      *ws.Hub
	adminIDs []int64
	log      *zap.Logger
	events   <-chan services.CompletionEvent
}

func New(sender Sender, hub *ws.Hub, adminIDs []int64, log *zap.Logger, events <-chan services.CompletionEvent) *Notifier {
	return &Notifier{
		sender:   sender,
		hub:      hub,
		adminIDs: adminIDs,
		log:      log,
		events:   events,
	}
}

func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-n.events:
			if !ok {
				return
			}
			n.dispatch(ev)
		}
	}
}

func (n *Notifier) dispatch(ev services.CompletionEvent) {
	report := BuildReport(ev)
	if len(report) > maxMessageLen {
		report = BuildSummary(ev)
	}

	for _, admin := range n.adminIDs {
		if _, err := n.sender.SendMessage(admin, report); err != nil {
			n.log.Error("send admin notification",
				zap.Int64("admin_id", admin), zap.String("event_id", ev.EventID), zap.Error(err))
			continue
		}
		n.log.Info("admin notified",
			zap.Int64("admin_id", admin), zap.String("event_id", ev.EventID))
	}

	if n.hub != nil {
		n.hub.Broadcast(ws.WSMessage{
			Type: "interview_completed",
			Data: map[string]interface{}{
				"event_id": ev.EventID,
				"user_id":  ev.UserID,
				"name":     ev.Name,
				"username": ev.Username,
				"decision": ev.Decision,
				"score":    ev.Score,
				"ai_score": ev.AIScore,
			},
		})
	}

	// Durable trace of the full transcript, independent of message size.
	n.log.Info("interview evaluation",
		zap.Int64("user_id", ev.UserID),
		zap.String("name", ev.Name),
		zap.String("decision", ev.Decision),
		zap.Int("score", ev.Score),
		zap.Int("ai_score", ev.AIScore))
	for _, r := range ev.Responses {
		n.log.Info("transcript entry",
			zap.Int64("user_id", ev.UserID),
			zap.Int("question_number", r.QuestionNumber),
			zap.String("question", r.QuestionText),
			zap.String("answer", r.ResponseText),
			zap.Float64("response_time", r.ResponseTime))
	}
}

// AIRiskNote folds the AI score into a coarse reviewer-facing label.
func AIRiskNote(aiScore int) string {
	switch {
	case aiScore <= 3:
		return "Low AI risk."
	case aiScore <= 6:
		return "Moderate AI risk."
	default:
		return "High AI risk."
	}
}

func displayName(ev services.CompletionEvent) string {
	if ev.Name != "" {
		return ev.Name
	}
	if ev.Username != "" {
		return "@" + ev.Username
	}
	return fmt.Sprintf("User %d", ev.UserID)
}

func reviewerFeedback(ev services.CompletionEvent) string {
	maxScore := services.QuestionsPerInterview * 10
	percentage := 0.0
	if maxScore > 0 {
		percentage = float64(ev.Score) / float64(maxScore) * 100
	}
	note := AIRiskNote(ev.AIScore)

	switch ev.Decision {
	case "APPROVED":
		return fmt.Sprintf(
			"Candidate demonstrates strong emotional control, escalation skills, and monetization understanding. "+
				"Score: %d/%d (%.1f%%). %s Recommend onboarding and training.",
			ev.Score, maxScore, percentage, note)
	case "BORDERLINE":
		return fmt.Sprintf(
			"Candidate shows good potential but needs training in pacing or rebuttals. "+
				"Score: %d/%d (%.1f%%). %s Consider for future opportunities after additional training.",
			ev.Score, maxScore, percentage, note)
	default:
		return fmt.Sprintf(
			"Candidate lacks control, realism, or monetization logic. Score: %d/%d (%.1f%%). %s",
			ev.Score, maxScore, percentage, note)
	}
}

func header(ev services.CompletionEvent) string {
	username := ev.Username
	if username == "" {
		username = "N/A"
	}
	return fmt.Sprintf(
		"📋 Interview Evaluation\n\n"+
			"Candidate: %s\n"+
			"Username: @%s\n"+
			"User ID: %d\n"+
			"Decision: %s\n"+
			"Score: %d\n"+
			"AI Assessment: %s\n\n"+
			"Feedback:\n%s",
		displayName(ev), username, ev.UserID, ev.Decision, ev.Score, AIRiskNote(ev.AIScore), reviewerFeedback(ev))
}

// BuildReport renders the full admin report including the transcript.
func BuildReport(ev services.CompletionEvent) string {
	var b strings.Builder
	b.WriteString(header(ev))
	b.WriteString("\n\n📝 Responses:\n")
	for _, r := range ev.Responses {
		answer := logger.Truncate(r.ResponseText, 100)
		fmt.Fprintf(&b, "\nQ%d: %s\n", r.QuestionNumber+1, r.QuestionText)
		fmt.Fprintf(&b, "A: %s\n", answer)
		fmt.Fprintf(&b, "Response time: %.1fs\n", r.ResponseTime)
	}
	return b.String()
}

// BuildSummary renders the transcript-free fallback used when the full
// report would exceed the message size ceiling.
func BuildSummary(ev services.CompletionEvent) string {
	return header(ev) + "\n\nSee detailed responses in the dashboard or interviewctl results."
}
