package services

import (
	"context"
	"errors"
	"fmt"

	"skillforge/backend/models"

	"gorm.io/gorm"
)

type NewFlashcard struct {
	CourseID  uint   `json:"course_id"`
	VideoPath string `json:"video_path"`
	Front     string `json:"front" validate:"required"`
	Back      string `json:"back" validate:"required"`
}

type Flashcards struct {
	DB    *gorm.DB
	Clock Clock
}

func NewFlashcards(db *gorm.DB, clock Clock) *Flashcards {
	return &Flashcards{DB: db, Clock: clock}
}

// Add creates cards that are due today.
func (f *Flashcards) Add(ctx context.Context, userID uint, cards ...NewFlashcard) ([]models.Flashcard, error) {
	if userID == models.AnonymousUserID {
		return nil, ErrAnonymousUser
	}
	if len(cards) == 0 {
		return nil, nil
	}

	today := DateKey(f.Clock())
	rows := make([]models.Flashcard, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, models.Flashcard{
			UserID:         userID,
			CourseID:       c.CourseID,
			VideoPath:      c.VideoPath,
			Front:          c.Front,
			Back:           c.Back,
			NextReviewDate: today,
			Interval:       InitialInterval,
			EaseFactor:     DefaultEaseFactor,
		})
	}
	if err := f.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("create flashcards: %w", err)
	}
	return rows, nil
}

// Due lists the user's cards whose review date is today or earlier, oldest first.
func (f *Flashcards) Due(ctx context.Context, userID uint) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := f.DB.WithContext(ctx).
		Where("user_id = ? AND next_review_date <= ?", userID, DateKey(f.Clock())).
		Order("next_review_date ASC, id ASC").
		Find(&cards).Error
	return cards, err
}

// FlashcardView is a card annotated with whether it is due today.
type FlashcardView struct {
	models.Flashcard
	Due bool `json:"due"`
}

// List returns all of the user's cards, optionally limited to one course.
func (f *Flashcards) List(ctx context.Context, userID, courseID uint) ([]FlashcardView, error) {
	q := f.DB.WithContext(ctx).Where("user_id = ?", userID)
	if courseID != 0 {
		q = q.Where("course_id = ?", courseID)
	}
	var cards []models.Flashcard
	if err := q.Order("next_review_date ASC, id ASC").Find(&cards).Error; err != nil {
		return nil, err
	}

	today := f.Clock()
	out := make([]FlashcardView, 0, len(cards))
	for _, card := range cards {
		out = append(out, FlashcardView{Flashcard: card, Due: IsDue(card.NextReviewDate, today)})
	}
	return out, nil
}

// CountDueByUser groups due cards per user for the reminder digest.
func (f *Flashcards) CountDueByUser(ctx context.Context) (map[uint]int64, error) {
	var rows []struct {
		UserID uint
		Count  int64
	}
	err := f.DB.WithContext(ctx).Model(&models.Flashcard{}).
		Select("user_id, COUNT(*) AS count").
		Where("next_review_date <= ?", DateKey(f.Clock())).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.UserID] = r.Count
	}
	return out, nil
}

// Review grades one of the user's cards. Cards of other users are reported as not found.
func (f *Flashcards) Review(ctx context.Context, userID, cardID uint, quality int) (Schedule, error) {
	if quality < QualityForgot || quality > QualityEasy {
		return Schedule{}, ErrInvalidQuality
	}

	var sched Schedule
	err := f.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var card models.Flashcard
		err := tx.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFlashcardNotFound
		}
		if err != nil {
			return err
		}

		sched, err = Review(card.Interval, card.EaseFactor, quality, f.Clock())
		if err != nil {
			return err
		}
		return tx.Model(&card).Updates(map[string]interface{}{
			"interval":         sched.Interval,
			"ease_factor":      sched.EaseFactor,
			"next_review_date": sched.NextReviewDate,
		}).Error
	})
	if err != nil {
		return Schedule{}, err
	}
	return sched, nil
}

// Delete removes one of the user's cards.
func (f *Flashcards) Delete(ctx context.Context, userID, cardID uint) error {
	res := f.DB.WithContext(ctx).Where("id = ? AND user_id = ?", cardID, userID).Delete(&models.Flashcard{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFlashcardNotFound
	}
	return nil
}
