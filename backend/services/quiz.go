package services

import (
	"context"
	"fmt"
	"time"

	"skillforge/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MinMasteryScore = 1
	MaxMasteryScore = 5
)

// Ratings below weakMasteryScore are offered again for review.
const (
	weakMasteryScore = 4
	weakSpotsLimit   = 3
)

type QuizResult struct {
	Attempt models.QuizAttempt `json:"attempt"`
	XP      models.UserXP      `json:"xp"`
}

// WeakSpot is a self-rated video the user should revisit.
type WeakSpot struct {
	VideoPath   string    `json:"video_path"`
	VideoTitle  string    `json:"video_title"`
	CourseID    uint      `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	Score       int       `json:"mastery_score"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Quiz struct {
	DB    *gorm.DB
	XP    *XP
	Clock Clock
}

func NewQuiz(db *gorm.DB, xp *XP, clock Clock) *Quiz {
	return &Quiz{DB: db, XP: xp, Clock: clock}
}

// Submit records an attempt and awards XPPerCorrectAnswer for every correct answer.
func (q *Quiz) Submit(ctx context.Context, userID, courseID uint, correct, total int) (QuizResult, error) {
	if userID == models.AnonymousUserID {
		return QuizResult{}, ErrAnonymousUser
	}
	if total < 0 || correct < 0 || correct > total {
		return QuizResult{}, ErrInvalidQuiz
	}

	attempt := models.QuizAttempt{
		UserID:         userID,
		CourseID:       courseID,
		CorrectAnswers: correct,
		TotalQuestions: total,
		CreatedAt:      q.Clock(),
	}
	if err := q.DB.WithContext(ctx).Create(&attempt).Error; err != nil {
		return QuizResult{}, fmt.Errorf("save quiz attempt: %w", err)
	}

	xp, err := q.XP.Award(ctx, userID, correct*XPPerCorrectAnswer)
	if err != nil {
		return QuizResult{Attempt: attempt}, err
	}
	return QuizResult{Attempt: attempt, XP: xp}, nil
}

// SetMastery stores the user's self-rating for a video, replacing the previous one.
func (q *Quiz) SetMastery(ctx context.Context, userID uint, videoPath string, score int) error {
	if userID == models.AnonymousUserID {
		return ErrAnonymousUser
	}
	if videoPath == "" {
		return ErrMissingVideoPath
	}
	if score < MinMasteryScore || score > MaxMasteryScore {
		return ErrInvalidMastery
	}
	row := models.VideoMastery{UserID: userID, VideoPath: videoPath, Score: score, UpdatedAt: q.Clock()}
	return q.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_path"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(&row).Error
}

// MasteryMap returns the user's ratings keyed by video path.
func (q *Quiz) MasteryMap(ctx context.Context, userID uint) (map[string]int, error) {
	var rows []models.VideoMastery
	if err := q.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.VideoPath] = r.Score
	}
	return out, nil
}

// WeakSpots returns the least recently rated videos with a low score.
func (q *Quiz) WeakSpots(ctx context.Context, userID uint) ([]WeakSpot, error) {
	var out []WeakSpot
	err := q.DB.WithContext(ctx).Table("video_mastery AS m").
		Select("m.video_path, v.title AS video_title, c.id AS course_id, c.title AS course_title, m.score, m.updated_at").
		Joins("JOIN videos v ON v.path = m.video_path").
		Joins("JOIN modules mo ON mo.id = v.module_id").
		Joins("JOIN courses c ON c.id = mo.course_id").
		Where("m.user_id = ? AND m.score > 0 AND m.score < ?", userID, weakMasteryScore).
		Order("m.updated_at ASC").
		Limit(weakSpotsLimit).
		Scan(&out).Error
	return out, err
}
