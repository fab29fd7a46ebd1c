package services

import (
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"

	"go.uber.org/zap"
)

var testQuestions = []string{
	"test question one",
	"test question two",
	"test question three",
	"test question four",
	"test question five",
}

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeStore is an in-memory CandidateStore with the same guarded-write
// semantics as the gorm implementation: non-bypass writes against a
// locked row affect zero rows.
type fakeStore struct {
	cand      *models.Candidate
	responses []models.Response

	// dropNextWrite makes the next guarded write report zero affected
	// rows, simulating a concurrent writer winning the race.
	dropNextWrite bool
}

func (f *fakeStore) guard(bypassLock bool) bool {
	if f.cand == nil {
		return false
	}
	if f.dropNextWrite && !bypassLock {
		f.dropNextWrite = false
		return false
	}
	if !bypassLock && f.cand.Locked {
		return false
	}
	return true
}

func (f *fakeStore) Get(userID int64) (*models.Candidate, error) {
	if f.cand == nil || f.cand.UserID != userID {
		return nil, nil
	}
	snapshot := *f.cand
	return &snapshot, nil
}

func (f *fakeStore) Update(userID int64, bypassLock bool, fields map[string]interface{}) (int64, error) {
	if !f.guard(bypassLock) {
		return 0, nil
	}
	for key, value := range fields {
		switch key {
		case "username":
			f.cand.Username = value.(string)
		case "name":
			f.cand.Name = value.(string)
		case "question_index":
			f.cand.QuestionIndex = value.(int)
		case "score":
			f.cand.Score = value.(int)
		case "ai_score":
			f.cand.AIScore = value.(int)
		case "last_time":
			f.cand.LastTime = value.(time.Time)
		case "completed":
			f.cand.Completed = value.(bool)
		case "locked":
			f.cand.Locked = value.(bool)
		case "decision":
			f.cand.Decision = value.(string)
		case "feedback":
			f.cand.Feedback = value.(string)
		case "selected_questions":
			f.cand.SelectedQuestions = value.(string)
		}
	}
	return 1, nil
}

func (f *fakeStore) AddScore(userID int64, bypassLock bool, score, aiScore int, now time.Time) (int64, error) {
	if !f.guard(bypassLock) {
		return 0, nil
	}
	f.cand.Score += score
	f.cand.AIScore += aiScore
	f.cand.QuestionIndex++
	f.cand.LastTime = now
	return 1, nil
}

func (f *fakeStore) Advance(userID int64, bypassLock bool, now time.Time) (int64, error) {
	if !f.guard(bypassLock) {
		return 0, nil
	}
	f.cand.QuestionIndex++
	f.cand.LastTime = now
	return 1, nil
}

func (f *fakeStore) Reset(userID int64, username string, now time.Time) error {
	f.responses = nil
	f.cand = &models.Candidate{
		UserID:        userID,
		Username:      username,
		QuestionIndex: -1,
		LastTime:      now,
	}
	return nil
}

func (f *fakeStore) InsertResponse(r *models.Response) error {
	f.responses = append(f.responses, *r)
	return nil
}

func (f *fakeStore) HasResponse(userID int64, questionNumber int) (bool, error) {
	for _, r := range f.responses {
		if r.UserID == userID && r.QuestionNumber == questionNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListResponses(userID int64) ([]models.Response, error) {
	out := make([]models.Response, 0, len(f.responses))
	for _, r := range f.responses {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionNumber < out[j].QuestionNumber })
	return out, nil
}

func newTestService(store *fakeStore, events chan CompletionEvent, adminIDs ...int64) *InterviewService {
	svc := NewInterviewService(
		store,
		NewScoringService(),
		NewDecisionService(),
		NewAdminList(adminIDs),
		zap.NewNop(),
		events,
	)
	svc.now = func() time.Time { return testStart }
	svc.pick = func() []string { return append([]string(nil), testQuestions...) }
	return svc
}

func TestStartCreatesFreshSession(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	replies, err := svc.Start(7, "cand")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(replies) != 1 || replies[0] != msgNamePrompt {
		t.Fatalf("got %q, want name prompt", replies)
	}
	if store.cand == nil || store.cand.QuestionIndex != -1 {
		t.Fatalf("candidate not reset to name intake: %+v", store.cand)
	}
	if store.cand.Phase() != models.PhaseAwaitingName {
		t.Fatalf("phase = %v, want awaiting_name", store.cand.Phase())
	}
}

func TestNameAcceptedStartsQuestions(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	if _, err := svc.Start(7, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}

	replies, err := svc.HandleMessage(7, "cand", "Al")
	if err != nil {
		t.Fatalf("handle name: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("got %d replies, want welcome plus first question", len(replies))
	}
	if !strings.Contains(replies[0], "Hello Al") {
		t.Fatalf("welcome does not address the candidate: %q", replies[0])
	}
	if replies[1] != testQuestions[0] {
		t.Fatalf("first question = %q, want %q", replies[1], testQuestions[0])
	}
	if store.cand.QuestionIndex != 1 {
		t.Fatalf("cursor = %d, want 1 after first question sent", store.cand.QuestionIndex)
	}
	if store.cand.Phase() != models.PhaseAnswering {
		t.Fatalf("phase = %v, want answering", store.cand.Phase())
	}
}

func TestNameValidation(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"too short", "A", msgNameTooShort},
		{"whitespace only", "   ", msgNameTooShort},
		{"too long", strings.Repeat("a", 21), msgNameTooLong},
		{"contains a period", "Dr. Al", msgNameNotPlain},
		{"contains a newline", "Al\nSmith", msgNameNotPlain},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := newTestService(store, nil)
			if _, err := svc.Start(7, "cand"); err != nil {
				t.Fatalf("start: %v", err)
			}

			replies, err := svc.HandleMessage(7, "cand", tc.input)
			if err != nil {
				t.Fatalf("handle name: %v", err)
			}
			if len(replies) != 1 || replies[0] != tc.want {
				t.Fatalf("got %q, want %q", replies, tc.want)
			}
			if store.cand.QuestionIndex != -1 {
				t.Fatalf("cursor moved to %d on invalid name", store.cand.QuestionIndex)
			}
		})
	}
}

func TestTwoRuneNameAccepted(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)
	if _, err := svc.Start(7, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}

	replies, err := svc.HandleMessage(7, "cand", "Al")
	if err != nil {
		t.Fatalf("handle name: %v", err)
	}
	if len(replies) != 2 {
		t.Fatalf("two-rune name rejected: %q", replies)
	}
	if store.cand.Name != "Al" {
		t.Fatalf("stored name = %q, want Al", store.cand.Name)
	}
}

func TestMessageBeforeStart(t *testing.T) {
	svc := newTestService(&fakeStore{}, nil)

	replies, err := svc.HandleMessage(7, "cand", "hello")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(replies) != 1 || replies[0] != msgStartFirst {
		t.Fatalf("got %q, want start-first prompt", replies)
	}
}

func runFullInterview(t *testing.T, svc *InterviewService, store *fakeStore, userID int64, answer string) []string {
	t.Helper()

	if _, err := svc.Start(userID, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.HandleMessage(userID, "cand", "Alex"); err != nil {
		t.Fatalf("name: %v", err)
	}

	var last []string
	for i := 0; i < QuestionsPerInterview; i++ {
		replies, err := svc.HandleMessage(userID, "cand", answer)
		if err != nil {
			t.Fatalf("answer %d: %v", i+1, err)
		}
		last = replies
	}
	return last
}

func TestFullInterviewNeutralAnswersRejected(t *testing.T) {
	store := &fakeStore{}
	events := make(chan CompletionEvent, 1)
	svc := newTestService(store, events)

	final := runFullInterview(t, svc, store, 7, "box cart stone")

	if len(final) != 1 {
		t.Fatalf("final replies = %q, want single feedback message", final)
	}
	if !strings.Contains(final[0], "other candidates") {
		t.Fatalf("final message is not the rejection feedback: %q", final[0])
	}

	cand := store.cand
	if !cand.Locked || !cand.Completed {
		t.Fatalf("candidate not locked after completion: %+v", cand)
	}
	if cand.Decision != models.DecisionNotEligible {
		t.Fatalf("decision = %q, want %q", cand.Decision, models.DecisionNotEligible)
	}
	// Five neutral answers: one control point each, instant replies add
	// one AI point each.
	if cand.Score != 5 || cand.AIScore != 5 {
		t.Fatalf("totals = %d/%d, want 5/5", cand.Score, cand.AIScore)
	}
	if len(store.responses) != QuestionsPerInterview {
		t.Fatalf("stored %d responses, want %d", len(store.responses), QuestionsPerInterview)
	}
	if cand.Phase() != models.PhaseLocked {
		t.Fatalf("phase = %v, want locked", cand.Phase())
	}

	select {
	case ev := <-events:
		if ev.UserID != 7 || ev.Decision != models.DecisionNotEligible {
			t.Fatalf("event = %+v", ev)
		}
		if ev.Score != 5 || ev.AIScore != 5 {
			t.Fatalf("event totals = %d/%d, want 5/5", ev.Score, ev.AIScore)
		}
		if len(ev.Responses) != QuestionsPerInterview {
			t.Fatalf("event carries %d responses, want %d", len(ev.Responses), QuestionsPerInterview)
		}
		if ev.EventID == "" {
			t.Fatal("event has no id")
		}
	default:
		t.Fatal("no completion event emitted")
	}
}

func TestLockedCandidateBlocked(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	runFullInterview(t, svc, store, 7, "box cart stone")

	replies, err := svc.HandleMessage(7, "cand", "one more thing")
	if err != nil {
		t.Fatalf("handle after lock: %v", err)
	}
	if len(replies) != 1 || replies[0] != msgAlreadyCompleted {
		t.Fatalf("got %q, want already-completed message", replies)
	}
	if len(store.responses) != QuestionsPerInterview {
		t.Fatalf("locked candidate gained responses: %d", len(store.responses))
	}

	// /start after rejection replays the stored feedback, never resets.
	replies, err = svc.Start(7, "cand")
	if err != nil {
		t.Fatalf("start after lock: %v", err)
	}
	if len(replies) != 1 || replies[0] != store.cand.Feedback {
		t.Fatalf("got %q, want stored feedback replay", replies)
	}
	if !store.cand.Locked {
		t.Fatal("start unlocked a completed candidate")
	}
}

func TestStartAfterApprovalShowsOnFileMessage(t *testing.T) {
	store := &fakeStore{
		cand: &models.Candidate{
			UserID:        7,
			QuestionIndex: 6,
			Completed:     true,
			Locked:        true,
			Decision:      models.DecisionApproved,
			Feedback:      "approved feedback",
		},
	}
	svc := newTestService(store, nil)

	replies, err := svc.Start(7, "cand")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(replies) != 1 || replies[0] != msgApprovedOnFile {
		t.Fatalf("got %q, want approved-on-file message", replies)
	}
}

func TestStartMidInterviewBlockedForNonAdmin(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	if _, err := svc.Start(7, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.HandleMessage(7, "cand", "Alex"); err != nil {
		t.Fatalf("name: %v", err)
	}
	if _, err := svc.HandleMessage(7, "cand", "box cart stone"); err != nil {
		t.Fatalf("first answer: %v", err)
	}
	cursorBefore := store.cand.QuestionIndex

	replies, err := svc.Start(7, "cand")
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if len(replies) != 1 || !strings.Contains(replies[0], "question 2 of 5") {
		t.Fatalf("got %q, want in-progress block naming question 2 of 5", replies)
	}
	if store.cand.QuestionIndex != cursorBefore {
		t.Fatal("blocked restart still moved the cursor")
	}
	if len(store.responses) != 1 {
		t.Fatal("blocked restart touched stored responses")
	}
}

func TestAdminRetakesAfterCompletion(t *testing.T) {
	store := &fakeStore{}
	events := make(chan CompletionEvent, 1)
	svc := newTestService(store, events, 99)

	final := runFullInterview(t, svc, store, 99, "box cart stone")

	if !strings.Contains(final[0], "Admin Test Mode") {
		t.Fatalf("admin completion missing retake note: %q", final[0])
	}
	select {
	case ev := <-events:
		t.Fatalf("admin dry run emitted an event: %+v", ev)
	default:
	}

	replies, err := svc.Start(99, "cand")
	if err != nil {
		t.Fatalf("admin restart: %v", err)
	}
	if len(replies) != 2 || replies[0] != msgAdminRestart || replies[1] != msgNamePromptAdmin {
		t.Fatalf("admin restart replies = %q", replies)
	}
	if store.cand.QuestionIndex != -1 || store.cand.Locked {
		t.Fatalf("admin restart did not reset: %+v", store.cand)
	}
	if len(store.responses) != 0 {
		t.Fatalf("admin restart kept %d old responses", len(store.responses))
	}
}

func TestAdminMessageAfterLockClearsLock(t *testing.T) {
	encoded, _ := json.Marshal(testQuestions)
	store := &fakeStore{
		cand: &models.Candidate{
			UserID:            99,
			QuestionIndex:     1,
			LastTime:          testStart,
			Completed:         true,
			Locked:            true,
			SelectedQuestions: string(encoded),
		},
	}
	svc := newTestService(store, nil, 99)

	replies, err := svc.HandleMessage(99, "cand", "box cart stone")
	if err != nil {
		t.Fatalf("admin message after lock: %v", err)
	}
	if store.cand.Locked {
		t.Fatal("admin message did not clear the lock")
	}
	// The message then flows through as the answer to question one.
	if len(replies) != 1 || replies[0] != testQuestions[1] {
		t.Fatalf("got %q, want question two", replies)
	}
	if len(store.responses) != 1 {
		t.Fatalf("answer not recorded: %d responses", len(store.responses))
	}
}

func TestDuplicateAnswerNotRescored(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	if _, err := svc.Start(7, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.HandleMessage(7, "cand", "Alex"); err != nil {
		t.Fatalf("name: %v", err)
	}
	if _, err := svc.HandleMessage(7, "cand", "box cart stone"); err != nil {
		t.Fatalf("first answer: %v", err)
	}

	// Rewind the cursor to replay the delivery of answer one.
	store.cand.QuestionIndex = 1
	scoreBefore := store.cand.Score

	replies, err := svc.HandleMessage(7, "cand", "box cart stone")
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if len(replies) != 1 || replies[0] != testQuestions[1] {
		t.Fatalf("duplicate reply = %q, want resent question two", replies)
	}
	if store.cand.Score != scoreBefore {
		t.Fatalf("duplicate changed score from %d to %d", scoreBefore, store.cand.Score)
	}
	if len(store.responses) != 1 {
		t.Fatalf("duplicate inserted a response: %d stored", len(store.responses))
	}
	if store.cand.QuestionIndex != 2 {
		t.Fatalf("cursor = %d, want recovered to 2", store.cand.QuestionIndex)
	}
}

func TestNameWriteRaceRejected(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	if _, err := svc.Start(7, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}
	store.dropNextWrite = true

	replies, err := svc.HandleMessage(7, "cand", "Alex")
	if err != nil {
		t.Fatalf("name during race: %v", err)
	}
	if len(replies) != 1 || replies[0] != msgStartRaceError {
		t.Fatalf("got %q, want race retry message", replies)
	}
}

func TestScoreWriteRaceRejected(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	if _, err := svc.Start(7, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.HandleMessage(7, "cand", "Alex"); err != nil {
		t.Fatalf("name: %v", err)
	}
	store.dropNextWrite = true

	replies, err := svc.HandleMessage(7, "cand", "box cart stone")
	if err != nil {
		t.Fatalf("answer during race: %v", err)
	}
	if len(replies) != 1 || replies[0] != msgContactSupport {
		t.Fatalf("got %q, want contact-support message", replies)
	}
	// The response row landed but the totals never moved.
	if store.cand.Score != 0 {
		t.Fatalf("racing write still scored: %d", store.cand.Score)
	}
}

func TestScoreOverflowResets(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, nil)

	if _, err := svc.Start(7, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.HandleMessage(7, "cand", "Alex"); err != nil {
		t.Fatalf("name: %v", err)
	}

	// Corrupt the totals past the theoretical maximum.
	store.cand.Score = 73
	store.cand.AIScore = 12

	if _, err := svc.HandleMessage(7, "cand", "box cart stone"); err != nil {
		t.Fatalf("answer with corrupt totals: %v", err)
	}
	// 73 was wiped; only the fresh answer's single point remains.
	if store.cand.Score != 1 {
		t.Fatalf("score after overflow reset = %d, want 1", store.cand.Score)
	}
	if store.cand.AIScore != 1 {
		t.Fatalf("ai score after overflow reset = %d, want 1", store.cand.AIScore)
	}
}

func TestCorruptQuestionsAskForRestart(t *testing.T) {
	store := &fakeStore{
		cand: &models.Candidate{
			UserID:            7,
			QuestionIndex:     2,
			LastTime:          testStart,
			SelectedQuestions: "{not json",
		},
	}
	svc := newTestService(store, nil)

	replies, err := svc.HandleMessage(7, "cand", "an answer")
	if err != nil {
		t.Fatalf("handle with corrupt questions: %v", err)
	}
	if len(replies) != 1 || replies[0] != msgRestartError {
		t.Fatalf("got %q, want restart prompt", replies)
	}
}

func TestDispatchAssignsQuestionsWhenMissing(t *testing.T) {
	store := &fakeStore{
		cand: &models.Candidate{
			UserID:        7,
			QuestionIndex: 0,
			LastTime:      testStart,
		},
	}
	svc := newTestService(store, nil)

	replies, err := svc.HandleMessage(7, "cand", "anything")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(replies) != 1 || replies[0] != testQuestions[0] {
		t.Fatalf("got %q, want first question", replies)
	}
	if store.cand.SelectedQuestions == "" {
		t.Fatal("dispatch did not persist a question set")
	}
	if store.cand.QuestionIndex != 1 {
		t.Fatalf("cursor = %d, want 1", store.cand.QuestionIndex)
	}
}

func TestCompletionCapsRunawayScore(t *testing.T) {
	store := &fakeStore{}
	events := make(chan CompletionEvent, 1)
	svc := newTestService(store, events)

	if _, err := svc.Start(7, "cand"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.HandleMessage(7, "cand", "Alex"); err != nil {
		t.Fatalf("name: %v", err)
	}
	for i := 0; i < QuestionsPerInterview-1; i++ {
		if _, err := svc.HandleMessage(7, "cand", "box cart stone"); err != nil {
			t.Fatalf("answer %d: %v", i+1, err)
		}
	}

	// Inflate to exactly the maximum so the per-answer overflow check
	// stays quiet and only the completion cap fires after the final
	// point lands.
	store.cand.Score = 50

	if _, err := svc.HandleMessage(7, "cand", "box cart stone"); err != nil {
		t.Fatalf("final answer: %v", err)
	}
	if store.cand.Score != QuestionsPerInterview*10 {
		t.Fatalf("final score = %d, want capped at %d", store.cand.Score, QuestionsPerInterview*10)
	}
	ev := <-events
	if ev.Score != QuestionsPerInterview*10 {
		t.Fatalf("event score = %d, want capped", ev.Score)
	}
}
