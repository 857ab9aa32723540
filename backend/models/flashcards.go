package models

import "time"

type Flashcard struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	CourseID       uint      `json:"course_id"`
	VideoPath      string    `json:"video_path"`
	Front          string    `gorm:"not null" json:"front"`
	Back           string    `gorm:"not null" json:"back"`
	NextReviewDate string    `gorm:"size:10;index" json:"next_review_date"` // YYYY-MM-DD
	Interval       int       `gorm:"not null;default:1" json:"interval"`
	EaseFactor     float64   `gorm:"not null;default:2.5" json:"ease_factor"`
	CreatedAt      time.Time `json:"created_at"`
}
