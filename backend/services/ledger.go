package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"skillforge/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompletionThreshold is the fraction of a video's duration a tick must reach to complete it.
const CompletionThreshold = 0.90

// Tick is one playback position report.
type Tick struct {
	UserID     uint
	VideoPath  string
	CourseID   uint
	Position   float64
	VideoTitle string
}

// TickResult is what the ledger learned from one tick.
type TickResult struct {
	// IsCompleted reports whether this tick reached the completion threshold.
	IsCompleted bool
	// JustCompleted is true only for the tick that moved the ledger row from incomplete to complete.
	JustCompleted bool
	CourseID      uint
}

// IsCompletion applies the completion rule to a single position.
func IsCompletion(position, duration float64) bool {
	return duration > 0 && position/duration >= CompletionThreshold
}

// Ledger owns VideoProgress rows. Writes merge with max() and OR so ticks
// are commutative and safe to replay.
type Ledger struct {
	DB      *gorm.DB
	Catalog CatalogReader
	Clock   Clock
}

// NewLedger builds a ledger that resolves durations through catalog.
func NewLedger(db *gorm.DB, catalog CatalogReader, clock Clock) *Ledger {
	return &Ledger{DB: db, Catalog: catalog, Clock: clock}
}

// RecordTick validates the tick, moves the resume pointer and merges the
// position into the ledger row in one transaction. JustCompleted is set for
// exactly one tick per (user, video) even when ticks race or are replayed.
func (l *Ledger) RecordTick(ctx context.Context, tick Tick) (TickResult, error) {
	if tick.VideoPath == "" {
		return TickResult{}, ErrMissingVideoPath
	}
	if tick.Position < 0 || math.IsNaN(tick.Position) || math.IsInf(tick.Position, 0) {
		return TickResult{}, ErrInvalidPosition
	}

	video, err := l.Catalog.Lookup(ctx, tick.VideoPath)
	if err != nil {
		return TickResult{}, err
	}
	courseID := tick.CourseID
	if courseID == 0 {
		courseID = video.CourseID
	}
	title := tick.VideoTitle
	if title == "" {
		title = video.Title
	}

	result := TickResult{
		IsCompleted: IsCompletion(tick.Position, video.Duration),
		CourseID:    courseID,
	}
	now := l.Clock()

	err = l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsertResumePointer(tx, tick.UserID, courseID, tick.VideoPath, title, tick.Position, now); err != nil {
			return err
		}

		prev, err := lockProgressRow(tx, tick.UserID, tick.VideoPath, now)
		if err != nil {
			return err
		}
		result.JustCompleted = result.IsCompleted && !prev.IsCompleted

		row := models.VideoProgress{
			UserID:      tick.UserID,
			VideoPath:   tick.VideoPath,
			WatchedTime: tick.Position,
			IsCompleted: result.IsCompleted,
			UpdatedAt:   now,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "video_path"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"watched_time": gorm.Expr(greatest(tx) + "(video_progress.watched_time, excluded.watched_time)"),
				"is_completed": gorm.Expr("video_progress.is_completed OR excluded.is_completed"),
				"updated_at":   gorm.Expr("excluded.updated_at"),
			}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("upsert video progress: %w", err)
		}

		if result.JustCompleted {
			marker := models.WatchedVideo{UserID: tick.UserID, CourseID: courseID, VideoPath: tick.VideoPath}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker).Error; err != nil {
				return fmt.Errorf("record watched marker: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return TickResult{}, err
	}
	return result, nil
}

// Get returns the ledger row, or a zero row when the user has not watched the video.
func (l *Ledger) Get(ctx context.Context, userID uint, videoPath string) (models.VideoProgress, error) {
	var row models.VideoProgress
	err := l.DB.WithContext(ctx).Where("user_id = ? AND video_path = ?", userID, videoPath).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.VideoProgress{UserID: userID, VideoPath: videoPath}, nil
	}
	return row, err
}

// ProgressMap returns every ledger row of a user keyed by video path.
func (l *Ledger) ProgressMap(ctx context.Context, userID uint) (map[string]models.VideoProgress, error) {
	var rows []models.VideoProgress
	if err := l.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]models.VideoProgress, len(rows))
	for _, r := range rows {
		out[r.VideoPath] = r
	}
	return out, nil
}

// ResumePointer returns where the user left off in a course.
func (l *Ledger) ResumePointer(ctx context.Context, userID, courseID uint) (*models.CourseProgress, error) {
	var cp models.CourseProgress
	err := l.DB.WithContext(ctx).Where("user_id = ? AND course_id = ?", userID, courseID).First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

func upsertResumePointer(tx *gorm.DB, userID, courseID uint, path, title string, position float64, now time.Time) error {
	cp := models.CourseProgress{
		UserID:             userID,
		CourseID:           courseID,
		LastVideoPath:      path,
		LastVideoTitle:     title,
		LastVideoTimestamp: position,
		UpdatedAt:          now,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_video_path", "last_video_title", "last_video_timestamp", "updated_at"}),
	}).Create(&cp).Error
	if err != nil {
		return fmt.Errorf("upsert resume pointer: %w", err)
	}
	return nil
}

// lockProgressRow makes sure the ledger row exists and reads it under a row
// lock, so concurrent ticks for the same video observe each other's
// completion. sqlite has no FOR UPDATE; its single connection already
// serializes the transaction.
func lockProgressRow(tx *gorm.DB, userID uint, path string, now time.Time) (models.VideoProgress, error) {
	seed := models.VideoProgress{UserID: userID, VideoPath: path, UpdatedAt: now}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return models.VideoProgress{}, fmt.Errorf("seed video progress: %w", err)
	}

	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var prev models.VideoProgress
	if err := q.Where("user_id = ? AND video_path = ?", userID, path).First(&prev).Error; err != nil {
		return models.VideoProgress{}, fmt.Errorf("load video progress: %w", err)
	}
	return prev, nil
}

// greatest names the scalar max function of the current dialect.
func greatest(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "GREATEST"
	}
	return "MAX"
}
