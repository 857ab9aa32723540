package models

import "time"

type VideoNote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_video_notes_user_path" json:"user_id"`
	VideoPath string    `gorm:"not null;uniqueIndex:idx_video_notes_user_path" json:"video_path"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Bookmark struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	CourseID   uint      `gorm:"index" json:"course_id"`
	VideoPath  string    `gorm:"not null" json:"video_path"`
	VideoTitle string    `json:"video_title"`
	Timestamp  float64   `gorm:"not null" json:"timestamp"`
	Note       string    `json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}

type Playlist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Title     string         `gorm:"not null" json:"title"`
	Items     []PlaylistItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type PlaylistItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PlaylistID uint   `gorm:"not null;index" json:"playlist_id"`
	VideoPath  string `json:"video_path"`
	VideoTitle string `json:"video_title"`
	CourseID   uint   `json:"course_id"`
	OrderIndex int    `json:"order_index"`
}
