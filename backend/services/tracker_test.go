package services

import (
	"context"
	"testing"

	"skillforge/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleTickCreditsActivityAndXP(t *testing.T) {
	clk, clock := newTestClock(at("2024-05-10", 12))
	db, svc := newTestServices(t, clock)
	user := seedUser(t, db, "alice")
	course := seedCourse(t, db, "go", 100)
	path := course.Modules[0].Videos[0].Path
	ctx := context.Background()

	out, err := svc.Tracker.HandleTick(ctx, Tick{UserID: user.ID, VideoPath: path, Position: 10})
	require.NoError(t, err)
	assert.False(t, out.IsCompleted)
	assert.Empty(t, out.NewAchievements)

	// the third tick crosses 10 seconds of credited time
	_, err = svc.Tracker.HandleTick(ctx, Tick{UserID: user.ID, VideoPath: path, Position: 20})
	require.NoError(t, err)
	out, err = svc.Tracker.HandleTick(ctx, Tick{UserID: user.ID, VideoPath: path, Position: 95})
	require.NoError(t, err)
	assert.True(t, out.IsCompleted)
	assert.Equal(t, []string{"first_steps"}, ids(out.NewAchievements))

	xp, err := svc.XP.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3*TickCreditSeconds*XPPerTickSecond+CompletionBonusXP, xp.TotalXP)

	// completion bonus is paid once
	clk.now = at("2024-05-10", 13)
	_, err = svc.Tracker.HandleTick(ctx, Tick{UserID: user.ID, VideoPath: path, Position: 99})
	require.NoError(t, err)
	xp, err = svc.XP.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 4*TickCreditSeconds*XPPerTickSecond+CompletionBonusXP, xp.TotalXP)

	b, err := svc.Activity.DailyBuckets(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(4*TickCreditSeconds), b["2024-05-10"].Seconds)
	assert.Equal(t, 1, b["2024-05-10"].Count)
}

func TestHandleTickAnonymous(t *testing.T) {
	_, clock := newTestClock(at("2024-05-10", 2))
	db, svc := newTestServices(t, clock)
	course := seedCourse(t, db, "go", 100)
	path := course.Modules[0].Videos[0].Path
	ctx := context.Background()

	for _, p := range []float64{30, 60, 92} {
		out, err := svc.Tracker.HandleTick(ctx, Tick{UserID: models.AnonymousUserID, VideoPath: path, Position: p})
		require.NoError(t, err)
		assert.Empty(t, out.NewAchievements)
	}

	row, err := svc.Ledger.Get(ctx, models.AnonymousUserID, path)
	require.NoError(t, err)
	assert.True(t, row.IsCompleted)

	var achievements, xpRows int64
	require.NoError(t, db.Model(&models.UserAchievement{}).Count(&achievements).Error)
	require.NoError(t, db.Model(&models.UserXP{}).Count(&xpRows).Error)
	assert.Zero(t, achievements)
	assert.Zero(t, xpRows)
}

func TestHandleTickValidationWritesNothing(t *testing.T) {
	_, clock := newTestClock(at("2024-05-10", 12))
	db, svc := newTestServices(t, clock)
	user := seedUser(t, db, "alice")

	_, err := svc.Tracker.HandleTick(context.Background(), Tick{UserID: user.ID, VideoPath: "missing.mp4", Position: 1})
	assert.ErrorIs(t, err, ErrVideoNotFound)

	var activity int64
	require.NoError(t, db.Model(&models.DailyActivity{}).Count(&activity).Error)
	assert.Zero(t, activity)
}

func TestHandleTickKeepsLedgerWhenXPFails(t *testing.T) {
	_, clock := newTestClock(at("2024-05-10", 12))
	db, svc := newTestServices(t, clock)
	user := seedUser(t, db, "alice")
	course := seedCourse(t, db, "go", 100)
	path := course.Modules[0].Videos[0].Path
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&models.UserXP{}))
	_, err := svc.Tracker.HandleTick(ctx, Tick{UserID: user.ID, VideoPath: path, Position: 95})
	require.Error(t, err)

	row, err := svc.Ledger.Get(ctx, user.ID, path)
	require.NoError(t, err)
	assert.True(t, row.IsCompleted)
	assert.Equal(t, 95.0, row.WatchedTime)

	// the replayed tick finds the video already complete, so no second bonus
	require.NoError(t, db.AutoMigrate(&models.UserXP{}))
	out, err := svc.Tracker.HandleTick(ctx, Tick{UserID: user.ID, VideoPath: path, Position: 95})
	require.NoError(t, err)
	assert.True(t, out.IsCompleted)

	xp, err := svc.XP.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, TickCreditSeconds*XPPerTickSecond, xp.TotalXP)

	b, err := svc.Activity.DailyBuckets(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(2*TickCreditSeconds), b["2024-05-10"].Seconds)
	assert.Equal(t, 1, b["2024-05-10"].Count)
}
