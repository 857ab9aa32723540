package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(999))
	assert.Equal(t, 2, LevelFor(1000))
	assert.Equal(t, 4, LevelFor(3500))
}

func TestAwardKeepsLevelConsistent(t *testing.T) {
	db := newTestDB(t)
	xp := NewXP(db)
	ctx := context.Background()

	row, err := xp.Award(ctx, 7, 999)
	require.NoError(t, err)
	assert.Equal(t, 999, row.TotalXP)
	assert.Equal(t, 1, row.Level)

	row, err = xp.Award(ctx, 7, 1)
	require.NoError(t, err)
	assert.Equal(t, 1000, row.TotalXP)
	assert.Equal(t, 2, row.Level)

	view, err := xp.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Level)
	assert.Equal(t, 2000, view.NextLevelXP)
	assert.Equal(t, 1000, view.CurrentLevelBase)
	assert.Equal(t, 0, view.Pct)
	assert.Equal(t, DefaultDailyGoalMins, view.DailyGoalMins)
}

func TestAwardRejectsNegative(t *testing.T) {
	xp := NewXP(newTestDB(t))
	_, err := xp.Award(context.Background(), 7, -5)
	assert.ErrorIs(t, err, ErrNegativeXP)
}

func TestGetWithoutRow(t *testing.T) {
	xp := NewXP(newTestDB(t))
	view, err := xp.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0, view.TotalXP)
	assert.Equal(t, 1, view.Level)
	assert.Equal(t, 1000, view.NextLevelXP)
	assert.Equal(t, DefaultDailyGoalMins, view.DailyGoalMins)
}

func TestSetDailyGoal(t *testing.T) {
	xp := NewXP(newTestDB(t))
	ctx := context.Background()

	_, err := xp.Award(ctx, 3, 1500)
	require.NoError(t, err)
	require.NoError(t, xp.SetDailyGoal(ctx, 3, 45))

	view, err := xp.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 45, view.DailyGoalMins)
	assert.Equal(t, 1500, view.TotalXP)
	assert.Equal(t, 50, view.Pct)

	assert.ErrorIs(t, xp.SetDailyGoal(ctx, 3, 0), ErrInvalidGoal)
	assert.ErrorIs(t, xp.SetDailyGoal(ctx, 3, 1441), ErrInvalidGoal)
}
