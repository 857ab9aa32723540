package services

import (
	"context"
	"fmt"
	"time"

	"skillforge/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TickCreditSeconds is the watch time credited per tick, regardless of wall-clock time between ticks.
const TickCreditSeconds = 5

// Activity is the per-day rollup of watch time and completions.
type Activity struct {
	DB *gorm.DB
}

func NewActivity(db *gorm.DB) *Activity {
	return &Activity{DB: db}
}

// AddActivity adds the deltas to the user's bucket for date, creating it if needed.
func (a *Activity) AddActivity(ctx context.Context, userID uint, date string, secondsDelta float64, completedDelta int) error {
	row := models.DailyActivity{
		UserID:          userID,
		Date:            date,
		SecondsWatched:  secondsDelta,
		VideosCompleted: completedDelta,
	}
	err := a.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"seconds_watched":  gorm.Expr("daily_activity.seconds_watched + excluded.seconds_watched"),
			"videos_completed": gorm.Expr("daily_activity.videos_completed + excluded.videos_completed"),
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("add daily activity: %w", err)
	}
	return nil
}

func (a *Activity) TotalSecondsAllTime(ctx context.Context, userID uint) (float64, error) {
	var total float64
	err := a.DB.WithContext(ctx).Model(&models.DailyActivity{}).
		Select("COALESCE(SUM(seconds_watched), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

// DailyBuckets returns every recorded day of the user keyed by date.
func (a *Activity) DailyBuckets(ctx context.Context, userID uint) (map[string]models.ActivityBucket, error) {
	var rows []models.DailyActivity
	if err := a.DB.WithContext(ctx).Where("user_id = ?", userID).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load daily activity: %w", err)
	}
	return BucketsFromRows(rows), nil
}

func BucketsFromRows(rows []models.DailyActivity) map[string]models.ActivityBucket {
	buckets := make(map[string]models.ActivityBucket, len(rows))
	for _, r := range rows {
		buckets[r.Date] = models.ActivityBucket{Date: r.Date, Seconds: r.SecondsWatched, Count: r.VideosCompleted}
	}
	return buckets
}

// Streak counts consecutive days with watch time, walking back from today.
// An empty today does not break the streak; the first other empty day ends it.
func Streak(buckets map[string]models.ActivityBucket, today time.Time) int {
	day := civilDay(today)
	if buckets[DateKey(day)].Seconds <= 0 {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for buckets[DateKey(day)].Seconds > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// ActiveWeekdays reports which weekdays have at least one day with watch time.
func ActiveWeekdays(buckets map[string]models.ActivityBucket) map[time.Weekday]bool {
	days := make(map[time.Weekday]bool, 7)
	for date, b := range buckets {
		if b.Seconds <= 0 {
			continue
		}
		t, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		days[t.Weekday()] = true
	}
	return days
}
