package services

import (
	"errors"
	"time"

	"github.com/Lisdexico96/Telegram-interview-bot/internal/models"

	"gorm.io/gorm"
)

// CandidateStore is the persistence surface the state machine needs.
// Every mutating call takes bypassLock: when false the write carries a
// locked = false predicate and reports zero affected rows if the
// session was locked or advanced elsewhere; when true (admin paths)
// the predicate is dropped entirely.
type CandidateStore interface {
	Get(userID int64) (*models.Candidate, error)
	Update(userID int64, bypassLock bool, fields map[string]interface{}) (int64, error)
	AddScore(userID int64, bypassLock bool, score, aiScore int, now time.Time) (int64, error)
	Advance(userID int64, bypassLock bool, now time.Time) (int64, error)
	Reset(userID int64, username string, now time.Time) error
	InsertResponse(r *models.Response) error
	HasResponse(userID int64, questionNumber int) (bool, error)
	ListResponses(userID int64) ([]models.Response, error)
}

type GormCandidateStore struct {
	db *gorm.DB
}

func NewCandidateStore(db *gorm.DB) *GormCandidateStore {
	return &GormCandidateStore{db: db}
}

// Get returns (nil, nil) when the candidate row does not exist.
func (s *GormCandidateStore) Get(userID int64) (*models.Candidate, error) {
	var cand models.Candidate
	err := s.db.Where("user_id = ?", userID).First(&cand).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cand, nil
}

func (s *GormCandidateStore) guarded(userID int64, bypassLock bool) *gorm.DB {
	tx := s.db.Model(&models.Candidate{}).Where("user_id = ?", userID)
	if !bypassLock {
		tx = tx.Where("locked = ?", false)
	}
	return tx
}

func (s *GormCandidateStore) Update(userID int64, bypassLock bool, fields map[string]interface{}) (int64, error) {
	res := s.guarded(userID, bypassLock).Updates(fields)
	return res.RowsAffected, res.Error
}

// AddScore accumulates scores and advances the cursor in one write so
// a duplicate delivery cannot double-count.
func (s *GormCandidateStore) AddScore(userID int64, bypassLock bool, score, aiScore int, now time.Time) (int64, error) {
	res := s.guarded(userID, bypassLock).Updates(map[string]interface{}{
		"score":          gorm.Expr("score + ?", score),
		"ai_score":       gorm.Expr("ai_score + ?", aiScore),
		"question_index": gorm.Expr("question_index + 1"),
		"last_time":      now,
	})
	return res.RowsAffected, res.Error
}

func (s *GormCandidateStore) Advance(userID int64, bypassLock bool, now time.Time) (int64, error) {
	res := s.guarded(userID, bypassLock).Updates(map[string]interface{}{
		"question_index": gorm.Expr("question_index + 1"),
		"last_time":      now,
	})
	return res.RowsAffected, res.Error
}

// Reset wipes a candidate back to the name-intake state and deletes
// all prior responses. It is the one write that never carries the lock
// predicate; callers gate it on AdminCapability.
func (s *GormCandidateStore) Reset(userID int64, username string, now time.Time) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Response{}).Error; err != nil {
			return err
		}

		cleared := map[string]interface{}{
			"username":           username,
			"name":               "",
			"question_index":     -1,
			"score":              0,
			"ai_score":           0,
			"last_time":          now,
			"completed":          false,
			"locked":             false,
			"decision":           "",
			"feedback":           "",
			"selected_questions": "",
		}

		res := tx.Model(&models.Candidate{}).Where("user_id = ?", userID).Updates(cleared)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return tx.Create(&models.Candidate{
				UserID:        userID,
				Username:      username,
				QuestionIndex: -1,
				LastTime:      now,
			}).Error
		}
		return nil
	})
}

func (s *GormCandidateStore) InsertResponse(r *models.Response) error {
	return s.db.Create(r).Error
}

func (s *GormCandidateStore) HasResponse(userID int64, questionNumber int) (bool, error) {
	var count int64
	err := s.db.Model(&models.Response{}).
		Where("user_id = ? AND question_number = ?", userID, questionNumber).
		Count(&count).Error
	return count > 0, err
}

func (s *GormCandidateStore) ListResponses(userID int64) ([]models.Response, error) {
	var responses []models.Response
	err := s.db.Where("user_id = ?", userID).
		Order("question_number ASC").
		Find(&responses).Error
	return responses, err
}
