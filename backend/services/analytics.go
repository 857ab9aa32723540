package services

import (
	"context"
	"fmt"

	"skillforge/backend/models"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Analytics answers the read-only aggregate queries of the analytics page.
// It shares gorm's connection pool through sqlx.
type Analytics struct {
	DB           *sqlx.DB
	Achievements *Achievements
	XP           *XP
	Clock        Clock
}

func NewAnalytics(db *gorm.DB, achievements *Achievements, xp *XP, clock Clock) (*Analytics, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &Analytics{
		DB:           sqlx.NewDb(sqlDB, sqlxDriverName(db)),
		Achievements: achievements,
		XP:           xp,
		Clock:        clock,
	}, nil
}

func sqlxDriverName(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

const (
	totalWatchTimeQuery = `SELECT COALESCE(SUM(seconds_watched), 0) FROM daily_activity WHERE user_id = ?`
	totalCompletedQuery = `SELECT COUNT(*) FROM video_progress WHERE user_id = ? AND is_completed`
	activityQuery       = `SELECT date, seconds_watched, videos_completed FROM daily_activity WHERE user_id = ? ORDER BY date`
	quizQuery           = `SELECT COUNT(*) AS attempts,
		COALESCE(SUM(correct_answers), 0) AS correct,
		COALESCE(SUM(total_questions), 0) AS total
		FROM quiz_attempts WHERE user_id = ?`
	masteryQuery = `SELECT COALESCE(AVG(score), 0) AS avg_score, COUNT(*) AS total_rated
		FROM video_mastery WHERE user_id = ?`
)

func (a *Analytics) Summary(ctx context.Context, userID uint) (models.AnalyticsSummary, error) {
	var out models.AnalyticsSummary

	if err := a.DB.GetContext(ctx, &out.TotalWatchTime, a.DB.Rebind(totalWatchTimeQuery), userID); err != nil {
		return out, fmt.Errorf("total watch time: %w", err)
	}
	if err := a.DB.GetContext(ctx, &out.TotalCompleted, a.DB.Rebind(totalCompletedQuery), userID); err != nil {
		return out, fmt.Errorf("total completed: %w", err)
	}

	var rows []models.ActivityBucket
	if err := a.DB.SelectContext(ctx, &rows, a.DB.Rebind(activityQuery), userID); err != nil {
		return out, fmt.Errorf("activity heatmap: %w", err)
	}
	out.Activity = make(map[string]models.ActivityBucket, len(rows))
	for _, r := range rows {
		out.Activity[r.Date] = r
	}
	out.Streak = Streak(out.Activity, a.Clock())

	if err := a.DB.GetContext(ctx, &out.Quiz, a.DB.Rebind(quizQuery), userID); err != nil {
		return out, fmt.Errorf("quiz summary: %w", err)
	}
	if err := a.DB.GetContext(ctx, &out.Mastery, a.DB.Rebind(masteryQuery), userID); err != nil {
		return out, fmt.Errorf("mastery summary: %w", err)
	}

	var err error
	if out.Achievements, err = a.Achievements.List(ctx, userID); err != nil {
		return out, err
	}
	if out.XP, err = a.XP.Get(ctx, userID); err != nil {
		return out, err
	}
	return out, nil
}

// LedgerRow is a ledger entry joined with its catalog titles.
type LedgerRow struct {
	CourseTitle string  `db:"course_title"`
	VideoTitle  string  `db:"video_title"`
	VideoPath   string  `db:"video_path"`
	WatchedTime float64 `db:"watched_time"`
	Duration    float64 `db:"duration"`
	IsCompleted bool    `db:"is_completed"`
}

const ledgerRowsQuery = `SELECT COALESCE(c.title, '') AS course_title, COALESCE(v.title, '') AS video_title,
	vp.video_path, vp.watched_time, COALESCE(v.duration, 0) AS duration, vp.is_completed
	FROM video_progress vp
	LEFT JOIN videos v ON v.path = vp.video_path
	LEFT JOIN modules m ON m.id = v.module_id
	LEFT JOIN courses c ON c.id = m.course_id
	WHERE vp.user_id = ?
	ORDER BY c.title, m.order_index, v.order_index, vp.video_path`

func (a *Analytics) LedgerRows(ctx context.Context, userID uint) ([]LedgerRow, error) {
	var rows []LedgerRow
	if err := a.DB.SelectContext(ctx, &rows, a.DB.Rebind(ledgerRowsQuery), userID); err != nil {
		return nil, fmt.Errorf("ledger rows: %w", err)
	}
	return rows, nil
}
