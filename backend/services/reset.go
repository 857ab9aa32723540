package services

import (
	"context"
	"fmt"

	"skillforge/backend/models"

	"gorm.io/gorm"
)

type ResetScope string

const (
	ResetAll    ResetScope = "all"
	ResetCourse ResetScope = "course"
	ResetVideo  ResetScope = "video"
)

type ResetRequest struct {
	Scope     ResetScope
	CourseID  uint
	VideoPath string
}

// Resetter clears progress. A full reset of a registered user also wipes
// xp, achievements, quizzes, mastery, notes, bookmarks and flashcards; the
// anonymous bucket only ever holds the ledger and resume pointers.
type Resetter struct {
	DB *gorm.DB
}

func NewResetter(db *gorm.DB) *Resetter {
	return &Resetter{DB: db}
}

func (r *Resetter) Reset(ctx context.Context, userID uint, req ResetRequest) error {
	switch req.Scope {
	case ResetAll:
	case ResetCourse:
		if req.CourseID == 0 {
			return ErrMissingCourseID
		}
	case ResetVideo:
		if req.VideoPath == "" {
			return ErrMissingVideoPath
		}
	default:
		return ErrInvalidResetScope
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch req.Scope {
		case ResetAll:
			return resetAll(tx, userID)
		case ResetCourse:
			return resetCourse(tx, userID, req.CourseID)
		default:
			return resetVideo(tx, userID, req.VideoPath)
		}
	})
}

func resetAll(tx *gorm.DB, userID uint) error {
	tables := []interface{}{
		&models.CourseProgress{},
		&models.WatchedVideo{},
		&models.VideoProgress{},
	}
	if userID != models.AnonymousUserID {
		tables = append(tables,
			&models.DailyActivity{},
			&models.UserXP{},
			&models.UserAchievement{},
			&models.QuizAttempt{},
			&models.VideoMastery{},
			&models.Bookmark{},
			&models.VideoNote{},
			&models.Flashcard{},
		)
	}
	for _, t := range tables {
		if err := tx.Where("user_id = ?", userID).Delete(t).Error; err != nil {
			return fmt.Errorf("reset %T: %w", t, err)
		}
	}
	return nil
}

func resetCourse(tx *gorm.DB, userID, courseID uint) error {
	if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.CourseProgress{}).Error; err != nil {
		return fmt.Errorf("reset resume pointer: %w", err)
	}
	coursePaths := tx.Table("videos").
		Select("videos.path").
		Joins("JOIN modules ON modules.id = videos.module_id").
		Where("modules.course_id = ?", courseID)
	if err := tx.Where("user_id = ? AND video_path IN (?)", userID, coursePaths).Delete(&models.VideoProgress{}).Error; err != nil {
		return fmt.Errorf("reset course ledger: %w", err)
	}
	if err := tx.Where("user_id = ? AND course_id = ?", userID, courseID).Delete(&models.WatchedVideo{}).Error; err != nil {
		return fmt.Errorf("reset watched markers: %w", err)
	}
	return nil
}

func resetVideo(tx *gorm.DB, userID uint, videoPath string) error {
	if err := tx.Where("user_id = ? AND video_path = ?", userID, videoPath).Delete(&models.VideoProgress{}).Error; err != nil {
		return fmt.Errorf("reset video ledger: %w", err)
	}
	if err := tx.Where("user_id = ? AND video_path = ?", userID, videoPath).Delete(&models.WatchedVideo{}).Error; err != nil {
		return fmt.Errorf("reset watched marker: %w", err)
	}
	err := tx.Model(&models.CourseProgress{}).
		Where("user_id = ? AND last_video_path = ?", userID, videoPath).
		Updates(map[string]interface{}{"last_video_path": "", "last_video_title": "", "last_video_timestamp": 0}).Error
	if err != nil {
		return fmt.Errorf("clear resume pointer: %w", err)
	}
	return nil
}
