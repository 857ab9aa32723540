package models

import "time"

// VideoProgress is the ledger row for a (user, video) pair.
// WatchedTime never decreases and IsCompleted is never cleared except by a reset.
type VideoProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_video_progress_user_path" json:"user_id"`
	VideoPath   string    `gorm:"not null;uniqueIndex:idx_video_progress_user_path" json:"video_path"`
	WatchedTime float64   `gorm:"not null;default:0" json:"watched_time"`
	IsCompleted bool      `gorm:"not null;default:false" json:"is_completed"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DailyActivity is the per-user, per-day rollup. Date is YYYY-MM-DD in server local time.
type DailyActivity struct {
	UserID          uint    `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Date            string  `gorm:"primaryKey;size:10" json:"date"`
	SecondsWatched  float64 `gorm:"not null;default:0" json:"seconds_watched"`
	VideosCompleted int     `gorm:"not null;default:0" json:"videos_completed"`
}

type UserAchievement struct {
	UserID        uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	AchievementID string    `gorm:"primaryKey" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// UserXP holds the experience total. Level is always derived from TotalXP in the same write.
type UserXP struct {
	UserID        uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	TotalXP       int  `gorm:"not null;default:0" json:"total_xp"`
	Level         int  `gorm:"not null;default:1" json:"level"`
	DailyGoalMins int  `gorm:"not null;default:30" json:"daily_goal_mins"`
}

func (UserXP) TableName() string {
	return "user_xp"
}

type QuizAttempt struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	CourseID       uint      `json:"course_id"`
	CorrectAnswers int       `gorm:"not null" json:"correct_answers"`
	TotalQuestions int       `gorm:"not null" json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
}

type VideoMastery struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	VideoPath string    `gorm:"primaryKey" json:"video_path"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}
