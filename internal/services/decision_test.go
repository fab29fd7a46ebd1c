package services

import (
	"strings"
	"testing"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"
)

func TestDetermineThresholds(t *testing.T) {
	svc := NewDecisionService()

	cases := []struct {
		name    string
		score   int
		aiScore int
		want    string
	}{
		{"approved at exact floor", 17, 8, models.DecisionApproved},
		{"one below approval floor", 16, 8, models.DecisionBorderline},
		{"borderline at exact floor", 13, 10, models.DecisionBorderline},
		{"one below borderline floor", 12, 10, models.DecisionNotEligible},
		{"high score rejected by ai ceiling", 20, 9, models.DecisionNotEligible},
		{"high score rejected by both ceilings", 20, 11, models.DecisionNotEligible},
		{"max score clean", 50, 0, models.DecisionApproved},
		{"zero everything", 0, 0, models.DecisionNotEligible},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := svc.Determine(tc.score, tc.aiScore)
			if got != tc.want {
				t.Fatalf("Determine(%d, %d) = %q, want %q", tc.score, tc.aiScore, got, tc.want)
			}
		})
	}
}

func TestDetermineIsDeterministic(t *testing.T) {
	svc := NewDecisionService()
	first := svc.Determine(17, 8)
	for i := 0; i < 10; i++ {
		if got := svc.Determine(17, 8); got != first {
			t.Fatalf("Determine varied across calls: %q vs %q", got, first)
		}
	}
}

func TestFeedbackNeverExposesScores(t *testing.T) {
	svc := NewDecisionService()

	for _, decision := range []string{models.DecisionApproved, models.DecisionBorderline, models.DecisionNotEligible} {
		fb := svc.Feedback(decision)
		if fb == "" {
			t.Fatalf("empty feedback for %q", decision)
		}
		if strings.Contains(strings.ToLower(fb), "score") || strings.Contains(fb, "AI") {
			t.Fatalf("feedback for %q leaks evaluation internals: %q", decision, fb)
		}
	}
}

func TestFeedbackMatchesDecision(t *testing.T) {
	svc := NewDecisionService()

	if fb := svc.Feedback(models.DecisionApproved); !strings.Contains(fb, "move forward with your application") {
		t.Fatalf("approved feedback missing onboarding promise: %q", fb)
	}
	if fb := svc.Feedback(models.DecisionBorderline); !strings.Contains(fb, "on file for future opportunities") {
		t.Fatalf("borderline feedback missing on-file note: %q", fb)
	}
	if fb := svc.Feedback(models.DecisionNotEligible); !strings.Contains(fb, "other candidates") {
		t.Fatalf("rejection feedback missing other-candidates note: %q", fb)
	}
	// Unknown decisions fall back to the rejection template.
	if got, want := svc.Feedback("bogus"), svc.Feedback(models.DecisionNotEligible); got != want {
		t.Fatalf("unknown decision did not fall back to rejection feedback")
	}
}
