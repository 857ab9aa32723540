package models

// All lists every table for AutoMigrate. New columns must carry defaults so
// existing databases upgrade in place.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserSettings{},
		&Course{},
		&Module{},
		&Video{},
		&CourseProgress{},
		&WatchedVideo{},
		&VideoProgress{},
		&DailyActivity{},
		&UserAchievement{},
		&UserXP{},
		&QuizAttempt{},
		&VideoMastery{},
		&Flashcard{},
		&VideoNote{},
		&Bookmark{},
		&Playlist{},
		&PlaylistItem{},
	}
}

func (VideoProgress) TableName() string { return "video_progress" }

func (DailyActivity) TableName() string { return "daily_activity" }

func (VideoMastery) TableName() string { return "video_mastery" }

func (CourseProgress) TableName() string { return "course_progress" }
