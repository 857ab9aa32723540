package services

import (
	"context"
	"fmt"
	"time"

	"skillforge/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is the read-only state achievement rules are evaluated against.
type Snapshot struct {
	TotalSeconds float64
	Streak       int
	Hour         int
	Weekdays     map[time.Weekday]bool
}

type Achievement struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Icon        string                `json:"icon"`
	Unlocks     func(s Snapshot) bool `json:"-"`
}

// AchievementRules is the fixed badge catalog, in display order.
var AchievementRules = []Achievement{
	{
		ID: "first_steps", Title: "First Steps", Icon: "🌱",
		Description: "Watch your first video segment.",
		// two ticks (10s) are not enough
		Unlocks: func(s Snapshot) bool { return s.TotalSeconds > 10 },
	},
	{
		ID: "dedicated_learner", Title: "Dedicated Learner", Icon: "🎓",
		Description: "Accumulate 1 hour of watch time.",
		Unlocks:     func(s Snapshot) bool { return s.TotalSeconds >= 3600 },
	},
	{
		ID: "knowledge_sponge", Title: "Knowledge Sponge", Icon: "🧠",
		Description: "Accumulate 10 hours of watch time.",
		Unlocks:     func(s Snapshot) bool { return s.TotalSeconds >= 36000 },
	},
	{
		ID: "night_owl", Title: "Night Owl", Icon: "🦉",
		Description: "Watch a video between 12 AM and 4 AM.",
		Unlocks:     func(s Snapshot) bool { return s.Hour >= 0 && s.Hour < 4 },
	},
	{
		ID: "early_bird", Title: "Early Bird", Icon: "🐦",
		Description: "Watch a video between 5 AM and 8 AM.",
		Unlocks:     func(s Snapshot) bool { return s.Hour >= 5 && s.Hour < 8 },
	},
	{
		ID: "on_fire", Title: "On Fire", Icon: "🔥",
		Description: "Maintain a 3-day learning streak.",
		Unlocks:     func(s Snapshot) bool { return s.Streak >= 3 },
	},
	{
		ID: "unstoppable", Title: "Unstoppable", Icon: "🚀",
		Description: "Maintain a 7-day learning streak.",
		Unlocks:     func(s Snapshot) bool { return s.Streak >= 7 },
	},
	{
		ID: "weekend_warrior", Title: "Weekend Warrior", Icon: "📅",
		Description: "Learn on both Saturday and Sunday.",
		Unlocks:     func(s Snapshot) bool { return s.Weekdays[time.Saturday] && s.Weekdays[time.Sunday] },
	},
}

// Evaluate returns the rules that hold for snap and are not yet unlocked.
func Evaluate(snap Snapshot, unlocked map[string]bool) []Achievement {
	var out []Achievement
	for _, a := range AchievementRules {
		if unlocked[a.ID] {
			continue
		}
		if a.Unlocks(snap) {
			out = append(out, a)
		}
	}
	return out
}

type Achievements struct {
	DB       *gorm.DB
	Activity *Activity
	Clock    Clock
}

func NewAchievements(db *gorm.DB, activity *Activity, clock Clock) *Achievements {
	return &Achievements{DB: db, Activity: activity, Clock: clock}
}

// Snapshot reads the state the rules need. The streak is always recomputed.
func (e *Achievements) Snapshot(ctx context.Context, userID uint) (Snapshot, error) {
	now := e.Clock()
	buckets, err := e.Activity.DailyBuckets(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	total, err := e.Activity.TotalSecondsAllTime(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("total watch time: %w", err)
	}
	return Snapshot{
		TotalSeconds: total,
		Streak:       Streak(buckets, now),
		Hour:         now.Hour(),
		Weekdays:     ActiveWeekdays(buckets),
	}, nil
}

func (e *Achievements) unlockedAt(ctx context.Context, userID uint) (map[string]time.Time, error) {
	var rows []models.UserAchievement
	if err := e.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	out := make(map[string]time.Time, len(rows))
	for _, r := range rows {
		out[r.AchievementID] = r.UnlockedAt
	}
	return out, nil
}

// CheckAndUnlock persists and returns achievements that became true since the last check.
// Calling it again without new activity returns nothing.
func (e *Achievements) CheckAndUnlock(ctx context.Context, userID uint) ([]Achievement, error) {
	if userID == models.AnonymousUserID {
		return nil, ErrAnonymousUser
	}

	existing, err := e.unlockedAt(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[string]bool, len(existing))
	for id := range existing {
		unlocked[id] = true
	}

	snap, err := e.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := Evaluate(snap, unlocked)
	if len(candidates) == 0 {
		return nil, nil
	}

	now := e.Clock()
	var fresh []Achievement
	err = e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range candidates {
			row := models.UserAchievement{UserID: userID, AchievementID: a.ID, UnlockedAt: now}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				return fmt.Errorf("unlock %s: %w", a.ID, res.Error)
			}
			// a concurrent check may have written it first
			if res.RowsAffected == 1 {
				fresh = append(fresh, a)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fresh, nil
}

// List returns the whole catalog with the user's unlock state.
func (e *Achievements) List(ctx context.Context, userID uint) ([]models.AchievementView, error) {
	existing, err := e.unlockedAt(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.AchievementView, 0, len(AchievementRules))
	for _, a := range AchievementRules {
		view := models.AchievementView{ID: a.ID, Title: a.Title, Description: a.Description, Icon: a.Icon}
		if at, ok := existing[a.ID]; ok {
			at := at
			view.Unlocked = true
			view.UnlockedAt = &at
		}
		out = append(out, view)
	}
	return out, nil
}
