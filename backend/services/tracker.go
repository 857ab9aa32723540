package services

import (
	"context"
	"fmt"

	"skillforge/backend/models"
)

// TickOutcome is the reply to a watch tick.
type TickOutcome struct {
	IsCompleted     bool          `json:"is_completed"`
	NewAchievements []Achievement `json:"new_achievements"`
}

// Tracker runs one watch tick through ledger, activity, achievements and xp, in that order.
// The ledger write commits first and is kept even when a later step fails;
// those steps are retried naturally by the next tick.
type Tracker struct {
	Ledger       *Ledger
	Activity     *Activity
	Achievements *Achievements
	XP           *XP
	Clock        Clock
}

func NewTracker(ledger *Ledger, activity *Activity, achievements *Achievements, xp *XP, clock Clock) *Tracker {
	return &Tracker{
		Ledger:       ledger,
		Activity:     activity,
		Achievements: achievements,
		XP:           xp,
		Clock:        clock,
	}
}

// HandleTick records the tick, credits TickCreditSeconds of activity and,
// for logged-in users, unlocks achievements and awards XP. The completion
// bonus is paid only on the tick that completed the video.
func (t *Tracker) HandleTick(ctx context.Context, tick Tick) (TickOutcome, error) {
	res, err := t.Ledger.RecordTick(ctx, tick)
	if err != nil {
		return TickOutcome{}, err
	}
	out := TickOutcome{IsCompleted: res.IsCompleted, NewAchievements: []Achievement{}}

	completed := 0
	if res.JustCompleted {
		completed = 1
	}
	today := DateKey(t.Clock())
	if err := t.Activity.AddActivity(ctx, tick.UserID, today, TickCreditSeconds, completed); err != nil {
		return out, err
	}

	if tick.UserID == models.AnonymousUserID {
		return out, nil
	}

	unlocked, err := t.Achievements.CheckAndUnlock(ctx, tick.UserID)
	if err != nil {
		return out, fmt.Errorf("check achievements: %w", err)
	}
	if unlocked != nil {
		out.NewAchievements = unlocked
	}

	xp := TickCreditSeconds * XPPerTickSecond
	if res.JustCompleted {
		xp += CompletionBonusXP
	}
	if _, err := t.XP.Award(ctx, tick.UserID, xp); err != nil {
		return out, fmt.Errorf("award xp: %w", err)
	}
	return out, nil
}
