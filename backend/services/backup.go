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

const BackupVersion = 1

type BackupUser struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Backup is the portable per-user export. Playlists are exported for reference
// but restore does not recreate them.
type Backup struct {
	Version        int                     `json:"version"`
	ExportedAt     time.Time               `json:"exported_at"`
	User           BackupUser              `json:"user"`
	Progress       []models.VideoProgress  `json:"progress"`
	CourseProgress []models.CourseProgress `json:"course_progress"`
	Notes          []models.VideoNote      `json:"notes"`
	Bookmarks      []models.Bookmark       `json:"bookmarks"`
	Playlists      []models.Playlist       `json:"playlists"`
	Activity       []models.DailyActivity  `json:"activity"`
}

type RestoreReport struct {
	Progress  int `json:"progress"`
	Notes     int `json:"notes"`
	Bookmarks int `json:"bookmarks"`
	Activity  int `json:"activity"`
}

type Backups struct {
	DB    *gorm.DB
	Clock Clock
}

func NewBackups(db *gorm.DB, clock Clock) *Backups {
	return &Backups{DB: db, Clock: clock}
}

func (b *Backups) Export(ctx context.Context, userID uint) (Backup, error) {
	db := b.DB.WithContext(ctx)
	out := Backup{Version: BackupVersion, ExportedAt: b.Clock()}

	var user models.User
	err := db.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Backup{}, ErrNotFound
	}
	if err != nil {
		return Backup{}, err
	}
	out.User = BackupUser{Username: user.Username, Name: user.Name}

	queries := []struct {
		name string
		dest interface{}
		db   *gorm.DB
	}{
		{"progress", &out.Progress, db},
		{"course progress", &out.CourseProgress, db},
		{"notes", &out.Notes, db},
		{"bookmarks", &out.Bookmarks, db},
		{"playlists", &out.Playlists, db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_index ASC")
		})},
		{"activity", &out.Activity, db.Order("date ASC")},
	}
	for _, q := range queries {
		if err := q.db.Where("user_id = ?", userID).Find(q.dest).Error; err != nil {
			return Backup{}, fmt.Errorf("export %s: %w", q.name, err)
		}
	}
	return out, nil
}

// Restore merges a backup into the user's data. Ledger and activity rows
// merge with max() and OR, so restoring the same file twice changes nothing.
func (b *Backups) Restore(ctx context.Context, userID uint, in Backup) (RestoreReport, error) {
	if userID == models.AnonymousUserID {
		return RestoreReport{}, ErrAnonymousUser
	}
	if in.Version != BackupVersion {
		return RestoreReport{}, ErrUnsupportedBackup
	}
	if err := validateBackup(in); err != nil {
		return RestoreReport{}, err
	}

	var report RestoreReport
	err := b.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range in.Progress {
			if p.VideoPath == "" {
				continue
			}
			row := models.VideoProgress{
				UserID:      userID,
				VideoPath:   p.VideoPath,
				WatchedTime: p.WatchedTime,
				IsCompleted: p.IsCompleted,
				UpdatedAt:   p.UpdatedAt,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "video_path"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"watched_time": gorm.Expr(greatest(tx) + "(video_progress.watched_time, excluded.watched_time)"),
					"is_completed": gorm.Expr("video_progress.is_completed OR excluded.is_completed"),
				}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("restore progress: %w", err)
			}
			report.Progress++
		}

		for _, n := range in.Notes {
			if n.VideoPath == "" {
				continue
			}
			row := models.VideoNote{
				UserID:    userID,
				VideoPath: n.VideoPath,
				Content:   n.Content,
				CreatedAt: n.CreatedAt,
				UpdatedAt: n.UpdatedAt,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_path"}},
				DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("restore note: %w", err)
			}
			report.Notes++
		}

		for _, bm := range in.Bookmarks {
			var n int64
			err := tx.Model(&models.Bookmark{}).
				Where("user_id = ? AND video_path = ? AND timestamp = ?", userID, bm.VideoPath, bm.Timestamp).
				Count(&n).Error
			if err != nil {
				return fmt.Errorf("restore bookmark: %w", err)
			}
			if n > 0 {
				continue
			}
			row := models.Bookmark{
				UserID:     userID,
				CourseID:   bm.CourseID,
				VideoPath:  bm.VideoPath,
				VideoTitle: bm.VideoTitle,
				Timestamp:  bm.Timestamp,
				Note:       bm.Note,
				CreatedAt:  bm.CreatedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("restore bookmark: %w", err)
			}
			report.Bookmarks++
		}

		for _, a := range in.Activity {
			row := models.DailyActivity{
				UserID:          userID,
				Date:            a.Date,
				SecondsWatched:  a.SecondsWatched,
				VideosCompleted: a.VideosCompleted,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"seconds_watched":  gorm.Expr(greatest(tx) + "(daily_activity.seconds_watched, excluded.seconds_watched)"),
					"videos_completed": gorm.Expr(greatest(tx) + "(daily_activity.videos_completed, excluded.videos_completed)"),
				}),
			}).Create(&row).Error
			if err != nil {
				return fmt.Errorf("restore activity: %w", err)
			}
			report.Activity++
		}
		return nil
	})
	if err != nil {
		return RestoreReport{}, err
	}
	return report, nil
}

func validSeconds(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// validateBackup rejects the whole file when any row is malformed, so a bad
// backup never writes anything.
func validateBackup(in Backup) error {
	for i, p := range in.Progress {
		if !validSeconds(p.WatchedTime) {
			return fmt.Errorf("%w: progress[%d] watched_time %v", ErrInvalidBackup, i, p.WatchedTime)
		}
	}
	for i, bm := range in.Bookmarks {
		if bm.VideoPath == "" || !validSeconds(bm.Timestamp) {
			return fmt.Errorf("%w: bookmarks[%d]", ErrInvalidBackup, i)
		}
	}
	for i, a := range in.Activity {
		if _, err := time.Parse(dateLayout, a.Date); err != nil {
			return fmt.Errorf("%w: activity[%d] date %q", ErrInvalidBackup, i, a.Date)
		}
		if !validSeconds(a.SecondsWatched) || a.VideosCompleted < 0 {
			return fmt.Errorf("%w: activity[%d] on %s", ErrInvalidBackup, i, a.Date)
		}
	}
	return nil
}
