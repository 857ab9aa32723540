package models

import "time"

type Course struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"not null" json:"title"`
	FolderName     string    `gorm:"not null;uniqueIndex" json:"folder_name"`
	IsFavorite     bool      `gorm:"not null;default:false" json:"is_favorite"`
	Description    string    `json:"description"`
	AlternateTitle string    `json:"alternate_title"`
	Modules        []Module  `gorm:"constraint:OnDelete:CASCADE" json:"modules,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Module struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	CourseID   uint    `gorm:"index;not null" json:"course_id"`
	Title      string  `gorm:"not null" json:"title"`
	OrderIndex int     `json:"order_index"`
	Videos     []Video `gorm:"constraint:OnDelete:CASCADE" json:"videos,omitempty"`
}

// Video is a catalog entry. Path is the persistent identifier, relative to the courses root.
type Video struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ModuleID   uint    `gorm:"index;not null" json:"module_id"`
	Title      string  `gorm:"not null" json:"title"`
	Filename   string  `gorm:"not null" json:"filename"`
	Path       string  `gorm:"not null;index" json:"path"`
	OrderIndex int     `json:"order_index"`
	Duration   float64 `gorm:"not null;default:0" json:"duration"`
	ItemType   string  `gorm:"not null;default:video" json:"item_type"` // video, quiz
}

// CourseProgress is the resume pointer: the last video a user played in a course.
type CourseProgress struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_course_progress_user_course" json:"user_id"`
	CourseID           uint      `gorm:"not null;uniqueIndex:idx_course_progress_user_course" json:"course_id"`
	LastVideoPath      string    `json:"last_video_path"`
	LastVideoTitle     string    `json:"last_video_title"`
	LastVideoTimestamp float64   `gorm:"not null;default:0" json:"last_video_timestamp"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// WatchedVideo is the legacy completion marker, still used for completion counts.
type WatchedVideo struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	CourseID  uint   `gorm:"primaryKey;autoIncrement:false"`
	VideoPath string `gorm:"primaryKey"`
}

// CourseStats is the per-user summary shown on course cards.
type CourseStats struct {
	TotalVideos   int64   `json:"total_videos"`
	WatchedCount  int64   `json:"watched_count"`
	Percentage    int     `json:"percentage"`
	TotalDuration float64 `json:"total_duration"`
	WatchedTime   float64 `json:"watched_time"`
}
