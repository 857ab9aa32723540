package models

import "time"

// ActivityBucket is one day of the activity heatmap.
type ActivityBucket struct {
	Date    string  `json:"date" db:"date"`
	Seconds float64 `json:"seconds" db:"seconds_watched"`
	Count   int     `json:"count" db:"videos_completed"`
}

// AchievementView is a catalog entry annotated with the user's unlock state.
type AchievementView struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// LevelProgress is the XP view shown on the analytics page.
type LevelProgress struct {
	TotalXP          int `json:"total_xp"`
	Level            int `json:"level"`
	DailyGoalMins    int `json:"daily_goal_mins"`
	NextLevelXP      int `json:"next_level_xp"`
	CurrentLevelBase int `json:"current_level_base"`
	Pct              int `json:"pct"`
}

type QuizSummary struct {
	Attempts int `json:"attempts" db:"attempts"`
	Correct  int `json:"correct" db:"correct"`
	Total    int `json:"total" db:"total"`
}

type MasterySummary struct {
	AvgScore   float64 `json:"avg_score" db:"avg_score"`
	TotalRated int     `json:"total_rated" db:"total_rated"`
}

type AnalyticsSummary struct {
	TotalWatchTime float64                   `json:"total_watch_time"`
	TotalCompleted int64                     `json:"total_completed"`
	Activity       map[string]ActivityBucket `json:"activity"`
	Streak         int                       `json:"streak"`
	Achievements   []AchievementView         `json:"achievements"`
	Quiz           QuizSummary               `json:"quiz"`
	Mastery        MasterySummary            `json:"mastery"`
	XP             LevelProgress             `json:"xp"`
}
