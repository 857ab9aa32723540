package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(list []Achievement) []string {
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, a.ID)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	snap := Snapshot{TotalSeconds: 3600, Streak: 3, Hour: 6, Weekdays: ActiveWeekdays(nil)}
	got := ids(Evaluate(snap, nil))
	assert.ElementsMatch(t, []string{"first_steps", "dedicated_learner", "early_bird", "on_fire"}, got)

	got = ids(Evaluate(snap, map[string]bool{"first_steps": true, "on_fire": true}))
	assert.ElementsMatch(t, []string{"dedicated_learner", "early_bird"}, got)
}

func TestEvaluateBoundaries(t *testing.T) {
	assert.Empty(t, Evaluate(Snapshot{TotalSeconds: 10, Hour: 12}, nil))
	assert.Equal(t, []string{"night_owl"}, ids(Evaluate(Snapshot{Hour: 0}, nil)))
	assert.Empty(t, Evaluate(Snapshot{Hour: 4}, nil))
	assert.Empty(t, Evaluate(Snapshot{Hour: 8}, nil))
	assert.Contains(t, ids(Evaluate(Snapshot{TotalSeconds: 36000, Hour: 12}, nil)), "knowledge_sponge")
	assert.Contains(t, ids(Evaluate(Snapshot{Streak: 7, Hour: 12}, nil)), "unstoppable")
}

func TestCheckAndUnlockIsIdempotent(t *testing.T) {
	_, clock := newTestClock(at("2024-05-15", 12))
	db, svc := newTestServices(t, clock)
	user := seedUser(t, db, "alice")
	ctx := context.Background()

	require.NoError(t, svc.Activity.AddActivity(ctx, user.ID, "2024-05-15", 20, 0))

	first, err := svc.Achievements.CheckAndUnlock(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"first_steps"}, ids(first))

	second, err := svc.Achievements.CheckAndUnlock(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestWeekendWarrior(t *testing.T) {
	ctx := context.Background()

	t.Run("saturday and sunday far apart", func(t *testing.T) {
		_, clock := newTestClock(at("2024-06-05", 12))
		db, svc := newTestServices(t, clock)
		user := seedUser(t, db, "bob")

		require.NoError(t, svc.Activity.AddActivity(ctx, user.ID, "2024-05-11", 5, 0)) // Saturday
		require.NoError(t, svc.Activity.AddActivity(ctx, user.ID, "2024-06-02", 5, 0)) // Sunday

		got, err := svc.Achievements.CheckAndUnlock(ctx, user.ID)
		require.NoError(t, err)
		assert.Contains(t, ids(got), "weekend_warrior")
	})

	t.Run("two saturdays", func(t *testing.T) {
		_, clock := newTestClock(at("2024-06-05", 12))
		db, svc := newTestServices(t, clock)
		user := seedUser(t, db, "carol")

		require.NoError(t, svc.Activity.AddActivity(ctx, user.ID, "2024-05-11", 5, 0))
		require.NoError(t, svc.Activity.AddActivity(ctx, user.ID, "2024-05-18", 5, 0))

		got, err := svc.Achievements.CheckAndUnlock(ctx, user.ID)
		require.NoError(t, err)
		assert.NotContains(t, ids(got), "weekend_warrior")
	})
}

func TestListMarksUnlocked(t *testing.T) {
	_, clock := newTestClock(at("2024-05-15", 2))
	db, svc := newTestServices(t, clock)
	user := seedUser(t, db, "dave")
	ctx := context.Background()

	_, err := svc.Achievements.CheckAndUnlock(ctx, user.ID)
	require.NoError(t, err)

	list, err := svc.Achievements.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, len(AchievementRules))
	for _, a := range list {
		if a.ID == "night_owl" {
			assert.True(t, a.Unlocked)
			assert.NotNil(t, a.UnlockedAt)
		} else {
			assert.False(t, a.Unlocked, a.ID)
		}
	}
}

func TestCheckAndUnlockRejectsAnonymous(t *testing.T) {
	_, clock := newTestClock(at("2024-05-15", 12))
	_, svc := newTestServices(t, clock)
	_, err := svc.Achievements.CheckAndUnlock(context.Background(), 0)
	assert.ErrorIs(t, err, ErrAnonymousUser)
}
