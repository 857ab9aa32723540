package services

import (
	"context"
	"errors"
	"fmt"

	"skillforge/backend/models"

	"gorm.io/gorm"
)

// CatalogReader is the read-only view of the video catalog the core depends on.
type CatalogReader interface {
	Lookup(ctx context.Context, videoPath string) (VideoInfo, error)
}

type VideoInfo struct {
	Path     string
	Title    string
	Duration float64
	CourseID uint
}

// CatalogStore serves catalog reads from the videos/modules/courses tables.
type CatalogStore struct {
	DB *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{DB: db}
}

func (s *CatalogStore) Lookup(ctx context.Context, videoPath string) (VideoInfo, error) {
	var info VideoInfo
	err := s.DB.WithContext(ctx).
		Table("videos").
		Select("videos.path, videos.title, videos.duration, modules.course_id").
		Joins("JOIN modules ON modules.id = videos.module_id").
		Where("videos.path = ?", videoPath).
		Limit(1).
		Scan(&info).Error
	if err != nil {
		return VideoInfo{}, fmt.Errorf("lookup video %q: %w", videoPath, err)
	}
	if info.Path == "" {
		return VideoInfo{}, ErrVideoNotFound
	}
	return info, nil
}

// GetDuration returns the video's duration in seconds, 0 when unknown.
func (s *CatalogStore) GetDuration(ctx context.Context, videoPath string) (float64, error) {
	info, err := s.Lookup(ctx, videoPath)
	if errors.Is(err, ErrVideoNotFound) {
		return 0, nil
	}
	return info.Duration, err
}

func (s *CatalogStore) GetCourseID(ctx context.Context, videoPath string) (uint, error) {
	info, err := s.Lookup(ctx, videoPath)
	if err != nil {
		return 0, err
	}
	return info.CourseID, nil
}

// CourseStats summarises how much of a course a user has seen. Percentage is
// time-weighted when durations are known and falls back to video counts.
func (s *CatalogStore) CourseStats(ctx context.Context, courseID, userID uint) (models.CourseStats, error) {
	db := s.DB.WithContext(ctx)
	var stats models.CourseStats

	var totals struct {
		Count    int64
		Duration float64
	}
	err := db.Table("videos").
		Select("COUNT(videos.id) AS count, COALESCE(SUM(videos.duration), 0) AS duration").
		Joins("JOIN modules ON modules.id = videos.module_id").
		Where("modules.course_id = ?", courseID).
		Scan(&totals).Error
	if err != nil {
		return stats, fmt.Errorf("course totals: %w", err)
	}
	stats.TotalVideos = totals.Count
	stats.TotalDuration = totals.Duration

	var watched struct {
		Count int64
		Time  float64
	}
	err = db.Table("video_progress").
		Select(`COUNT(DISTINCT video_progress.video_path) AS count,
			COALESCE(SUM(CASE WHEN video_progress.is_completed THEN videos.duration ELSE video_progress.watched_time END), 0) AS time`).
		Joins("JOIN videos ON videos.path = video_progress.video_path").
		Joins("JOIN modules ON modules.id = videos.module_id").
		Where("modules.course_id = ? AND video_progress.user_id = ?", courseID, userID).
		Scan(&watched).Error
	if err != nil {
		return stats, fmt.Errorf("course watched: %w", err)
	}
	stats.WatchedCount = watched.Count
	stats.WatchedTime = watched.Time

	if stats.WatchedCount == 0 {
		if err := db.Model(&models.WatchedVideo{}).
			Where("course_id = ? AND user_id = ?", courseID, userID).
			Count(&stats.WatchedCount).Error; err != nil {
			return stats, fmt.Errorf("legacy watched count: %w", err)
		}
	}

	switch {
	case stats.TotalDuration > 0:
		stats.Percentage = int(stats.WatchedTime / stats.TotalDuration * 100)
		if stats.Percentage == 0 && stats.WatchedCount > 0 && stats.TotalVideos > 0 {
			stats.Percentage = int(stats.WatchedCount * 100 / stats.TotalVideos)
		}
	case stats.TotalVideos > 0:
		stats.Percentage = int(stats.WatchedCount * 100 / stats.TotalVideos)
	}
	if stats.Percentage > 100 {
		stats.Percentage = 100
	}
	return stats, nil
}
