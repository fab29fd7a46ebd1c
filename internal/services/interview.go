package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/logger"
	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgStartFirst = "Please start the bot first by sending /start"

	msgAlreadyCompleted = "You have already completed the interview. Please use /start to see your results."

	msgApprovedOnFile = "You have already completed the interview and were accepted.\n\n" +
		"Our team will be in touch with onboarding details. " +
		"If you have any questions, please contact an administrator."

	msgCompletedGeneric = "You have already completed the interview. " +
		"We appreciate your interest, but we've decided to move forward with other candidates at this time."

	msgNamePrompt = "Hello! 👋\n\nPlease tell us your first name to get started."

	msgNamePromptAdmin = "Hello! 👋 (Admin Test Mode)\n\n" +
		"You can retake this interview as many times as needed for testing.\n\n" +
		"Please tell us your first name to get started."

	msgAdminRestart = "🛠️ Admin Test Mode: Restarting interview for testing.\n\n" +
		"You can retake the interview as many times as needed for testing purposes."

	msgAdminRestartInProgress = "🛠️ Admin Test Mode: Restarting interview (previous interview was in progress).\n\n" +
		"You can retake the interview as many times as needed for testing purposes."

	msgNameTooShort = "Please provide a valid first name (at least 2 characters)."
	msgNameTooLong  = "Please provide just your first name (not a long message)."
	msgNameNotPlain = "Please provide just your first name (not a sentence or paragraph)."

	msgGenericError   = "Sorry, an error occurred. Please try again."
	msgRestartError   = "Sorry, an error occurred. Please start over with /start"
	msgStartRaceError = "Sorry, an error occurred. Please try /start again."
	msgContactSupport = "Sorry, an error occurred. Please contact support."

	adminRetakeNote = "\n\n🛠️ Admin Test Mode: You can retake this interview anytime using /start"
)

// CompletionEvent is handed off when a non-admin interview locks.
// The notifier consumes it outside the state machine.
type CompletionEvent struct {
	EventID   string
	UserID    int64
	Username  string
	Name      string
	Decision  string
	Score     int
	AIScore   int
	Responses []models.Response
}

// InterviewService owns the per-candidate interview state machine.
// One logical dispatcher feeds it, but every write still carries the
// lock predicate so transport retries cannot double-count.
type InterviewService struct {
	store   CandidateStore
	scorer  *ScoringService
	decider *DecisionService
	admins  AdminCapability
	log     *zap.Logger
	events  chan<- CompletionEvent

	now  func() time.Time
	pick func() []string
}

func NewInterviewService(
	store CandidateStore,
	scorer *ScoringService,
	decider *DecisionService,
	admins AdminCapability,
	log *zap.Logger,
	events chan<- CompletionEvent,
) *InterviewService {
	return &InterviewService{
		store:   store,
		scorer:  scorer,
		decider: decider,
		admins:  admins,
		log:     log,
		events:  events,
		now:     time.Now,
		pick:    PickQuestions,
	}
}

// Start handles the session-reset trigger. Non-admins are blocked when
// locked or mid-interview; admins always get a full reset.
func (s *InterviewService) Start(userID int64, username string) ([]string, error) {
	admin := s.admins.IsAdmin(userID)
	var replies []string

	cand, err := s.store.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("load candidate %d: %w", userID, err)
	}

	if cand != nil && cand.Locked {
		if !admin {
			s.log.Warn("start blocked after completion",
				zap.Int64("user_id", userID), zap.String("decision", cand.Decision))
			if cand.Decision == models.DecisionApproved {
				return []string{msgApprovedOnFile}, nil
			}
			if cand.Feedback != "" {
				return []string{cand.Feedback}, nil
			}
			return []string{msgCompletedGeneric}, nil
		}
		replies = append(replies, msgAdminRestart)
	}

	if cand != nil && !cand.Locked && cand.QuestionIndex >= 0 {
		if !admin {
			qs, qErr := cand.Questions()
			if qErr == nil && len(qs) > 0 && cand.QuestionIndex <= len(qs) {
				shown := cand.QuestionIndex
				if shown == 0 {
					shown = 1
				}
				s.log.Info("start blocked mid-interview",
					zap.Int64("user_id", userID), zap.Int("question_index", cand.QuestionIndex))
				return []string{fmt.Sprintf(
					"You already have an interview in progress.\n\n"+
						"You're on question %d of %d.\n"+
						"Please continue by answering the current question.", shown, len(qs))}, nil
			}
		} else if len(replies) == 0 {
			replies = append(replies, msgAdminRestartInProgress)
		}
	}

	if err := s.store.Reset(userID, username, s.now()); err != nil {
		return nil, fmt.Errorf("reset candidate %d: %w", userID, err)
	}
	s.log.Info("fresh interview started", zap.Int64("user_id", userID), zap.Bool("admin", admin))

	if admin {
		replies = append(replies, msgNamePromptAdmin)
	} else {
		replies = append(replies, msgNamePrompt)
	}
	return replies, nil
}

// HandleMessage routes an inbound text by the candidate's phase.
func (s *InterviewService) HandleMessage(userID int64, username, text string) ([]string, error) {
	admin := s.admins.IsAdmin(userID)

	cand, err := s.store.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("load candidate %d: %w", userID, err)
	}
	if cand == nil {
		return []string{msgStartFirst}, nil
	}

	if cand.Locked {
		if !admin {
			return []string{msgAlreadyCompleted}, nil
		}
		// Admins keep testing past completion: drop the lock and carry on.
		s.log.Info("admin continuing after completion, clearing lock", zap.Int64("user_id", userID))
		if _, err := s.store.Update(userID, true, map[string]interface{}{
			"locked": false, "completed": false,
		}); err != nil {
			return nil, fmt.Errorf("clear lock for admin %d: %w", userID, err)
		}
		cand.Locked = false
		cand.Completed = false
	}

	switch cand.Phase() {
	case models.PhaseAwaitingName:
		return s.handleName(cand, text, admin)
	case models.PhaseAwaitingDispatch:
		return s.handleDispatch(cand, admin)
	case models.PhaseAnswering:
		return s.handleAnswer(cand, text, admin)
	default:
		return []string{msgGenericError}, nil
	}
}

func (s *InterviewService) handleName(cand *models.Candidate, text string, admin bool) ([]string, error) {
	name := strings.TrimSpace(text)

	switch {
	case utf8.RuneCountInString(name) < 2:
		return []string{msgNameTooShort}, nil
	case utf8.RuneCountInString(name) > 20:
		return []string{msgNameTooLong}, nil
	case strings.ContainsAny(name, ".\n"):
		return []string{msgNameNotPlain}, nil
	}

	questions := s.pick()
	encoded, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("encode questions: %w", err)
	}

	rows, err := s.store.Update(cand.UserID, admin, map[string]interface{}{
		"name":               name,
		"question_index":     0,
		"last_time":          s.now(),
		"score":              0,
		"ai_score":           0,
		"completed":          false,
		"locked":             false,
		"decision":           "",
		"feedback":           "",
		"selected_questions": string(encoded),
	})
	if err != nil {
		return nil, fmt.Errorf("store name for %d: %w", cand.UserID, err)
	}
	if rows == 0 {
		s.log.Warn("name write lost race", zap.Int64("user_id", cand.UserID))
		return []string{msgStartRaceError}, nil
	}

	s.log.Info("name accepted, questions sampled",
		zap.Int64("user_id", cand.UserID), zap.String("name", name), zap.Int("questions", len(questions)))

	welcome := fmt.Sprintf(
		"Hello %s 👋\n\n"+
			"We're happy to see you're interested in becoming part of our team.\n\n"+
			"We'll now proceed with the interview phase. This consists of a few short questions designed to understand "+
			"how you communicate, handle different fan situations, and whether your style aligns with what we're looking for.\n\n"+
			"There are no trick questions. Just be yourself and answer naturally.", name)

	if _, err := s.store.Advance(cand.UserID, admin, s.now()); err != nil {
		return nil, fmt.Errorf("advance %d to first question: %w", cand.UserID, err)
	}

	return []string{welcome, questions[0]}, nil
}

func (s *InterviewService) handleDispatch(cand *models.Candidate, admin bool) ([]string, error) {
	questions, err := cand.Questions()
	if err != nil {
		s.log.Error("stored questions undecodable", zap.Int64("user_id", cand.UserID), zap.Error(err))
		return []string{msgRestartError}, nil
	}

	if len(questions) == 0 {
		questions = s.pick()
		encoded, mErr := json.Marshal(questions)
		if mErr != nil {
			return nil, fmt.Errorf("encode questions: %w", mErr)
		}
		if _, err := s.store.Update(cand.UserID, admin, map[string]interface{}{
			"selected_questions": string(encoded),
		}); err != nil {
			return nil, fmt.Errorf("assign questions for %d: %w", cand.UserID, err)
		}
		s.log.Info("questions assigned at dispatch", zap.Int64("user_id", cand.UserID))
	}

	if _, err := s.store.Advance(cand.UserID, admin, s.now()); err != nil {
		return nil, fmt.Errorf("advance %d to first question: %w", cand.UserID, err)
	}

	return []string{questions[0]}, nil
}

func (s *InterviewService) handleAnswer(cand *models.Candidate, text string, admin bool) ([]string, error) {
	questions, err := cand.Questions()
	if err != nil || len(questions) == 0 {
		s.log.Error("selected questions missing or undecodable",
			zap.Int64("user_id", cand.UserID), zap.Error(err))
		return []string{msgRestartError}, nil
	}

	index := cand.QuestionIndex
	answered := index - 1

	// Idempotency: a scored question is never scored twice. A duplicate
	// delivery just re-advances and resends the next prompt once.
	exists, err := s.store.HasResponse(cand.UserID, answered)
	if err != nil {
		return nil, fmt.Errorf("check response %d/%d: %w", cand.UserID, answered, err)
	}
	if exists {
		s.log.Warn("duplicate answer for already scored question",
			zap.Int64("user_id", cand.UserID), zap.Int("question_number", answered))
		if index < len(questions) {
			if _, err := s.store.Advance(cand.UserID, admin, s.now()); err != nil {
				return nil, fmt.Errorf("advance after duplicate %d: %w", cand.UserID, err)
			}
			return []string{questions[index]}, nil
		}
		return nil, nil
	}

	now := s.now()
	responseTime := now.Sub(cand.LastTime).Seconds()
	if responseTime < 0 {
		responseTime = 0
	}

	questionText := "Initial message"
	if answered >= 0 && answered < len(questions) {
		questionText = questions[answered]
	}

	score, aiScore := s.scorer.Analyze(text, responseTime)

	if err := s.store.InsertResponse(&models.Response{
		UserID:         cand.UserID,
		QuestionNumber: answered,
		QuestionText:   questionText,
		ResponseText:   text,
		ResponseTime:   responseTime,
		Timestamp:      now,
	}); err != nil {
		return nil, fmt.Errorf("insert response %d/%d: %w", cand.UserID, answered, err)
	}

	// Unreachable while guarded writes hold; a triggered reset here
	// means a correctness bug upstream.
	if cand.Score > QuestionsPerInterview*10 {
		s.log.Error("score overflow detected, resetting totals",
			zap.Int64("user_id", cand.UserID), zap.Int("score", cand.Score))
		if _, err := s.store.Update(cand.UserID, true, map[string]interface{}{
			"score": 0, "ai_score": 0,
		}); err != nil {
			return nil, fmt.Errorf("reset overflowed score for %d: %w", cand.UserID, err)
		}
	}

	rows, err := s.store.AddScore(cand.UserID, admin, score, aiScore, now)
	if err != nil {
		return nil, fmt.Errorf("accumulate score for %d: %w", cand.UserID, err)
	}
	if rows == 0 {
		s.log.Warn("score write lost race", zap.Int64("user_id", cand.UserID))
		return []string{msgContactSupport}, nil
	}

	s.log.Info("answer scored",
		zap.Int64("user_id", cand.UserID),
		zap.Int("question_number", answered),
		zap.Int("score", score),
		zap.Int("ai_score", aiScore),
		zap.Float64("response_time", responseTime),
		zap.String("answer", logger.Truncate(text, 50)))

	if index < len(questions) {
		return []string{questions[index]}, nil
	}
	return s.complete(cand.UserID, admin)
}

func (s *InterviewService) complete(userID int64, admin bool) ([]string, error) {
	cand, err := s.store.Get(userID)
	if err != nil {
		return nil, fmt.Errorf("load candidate %d for completion: %w", userID, err)
	}
	if cand == nil {
		return []string{msgContactSupport}, nil
	}
	if cand.Locked && !admin {
		return []string{msgAlreadyCompleted}, nil
	}

	finalScore, finalAI := cand.Score, cand.AIScore
	if maxScore := QuestionsPerInterview * 10; finalScore > maxScore {
		s.log.Error("final score above maximum, capping",
			zap.Int64("user_id", userID), zap.Int("score", finalScore), zap.Int("max", maxScore))
		if _, err := s.store.Update(userID, true, map[string]interface{}{"score": maxScore}); err != nil {
			return nil, fmt.Errorf("cap score for %d: %w", userID, err)
		}
		finalScore = maxScore
	}

	decision := s.decider.Determine(finalScore, finalAI)
	feedback := s.decider.Feedback(decision)

	rows, err := s.store.Update(userID, admin, map[string]interface{}{
		"completed": true,
		"locked":    true,
		"decision":  decision,
		"feedback":  feedback,
		"last_time": s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("lock candidate %d: %w", userID, err)
	}
	if rows == 0 && !admin {
		s.log.Warn("completion write lost race", zap.Int64("user_id", userID))
		return []string{msgAlreadyCompleted}, nil
	}

	s.log.Info("interview completed",
		zap.Int64("user_id", userID),
		zap.String("decision", decision),
		zap.Int("score", finalScore),
		zap.Int("ai_score", finalAI),
		zap.Bool("admin", admin))

	if admin {
		// Admin dry runs never notify anyone.
		return []string{feedback + adminRetakeNote}, nil
	}

	s.emit(cand, decision, finalScore, finalAI)
	return []string{feedback}, nil
}

func (s *InterviewService) emit(cand *models.Candidate, decision string, score, aiScore int) {
	if s.events == nil {
		return
	}

	responses, err := s.store.ListResponses(cand.UserID)
	if err != nil {
		s.log.Error("load transcript for notification", zap.Int64("user_id", cand.UserID), zap.Error(err))
	}

	ev := CompletionEvent{
		EventID:   uuid.NewString(),
		UserID:    cand.UserID,
		Username:  cand.Username,
		Name:      cand.Name,
		Decision:  decision,
		Score:     score,
		AIScore:   aiScore,
		Responses: responses,
	}

	select {
	case s.events <- ev:
	default:
		s.log.Warn("completion event dropped, notifier backlogged", zap.Int64("user_id", cand.UserID))
	}
}
