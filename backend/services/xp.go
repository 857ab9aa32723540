package services

import (
	"context"
	"errors"
	"fmt"

	"skillforge/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	XPPerLevel           = 1000
	XPPerTickSecond      = 2
	CompletionBonusXP    = 100
	XPPerCorrectAnswer   = 50
	DefaultDailyGoalMins = 30
	MaxDailyGoalMins     = 24 * 60
)

// LevelFor derives the level from total xp. Level 1 starts at zero.
func LevelFor(totalXP int) int {
	if totalXP < 0 {
		totalXP = 0
	}
	return totalXP/XPPerLevel + 1
}

// NewLevelProgress builds the progress-bar view for a stored xp row.
func NewLevelProgress(totalXP, dailyGoalMins int) models.LevelProgress {
	level := LevelFor(totalXP)
	base := (level - 1) * XPPerLevel
	return models.LevelProgress{
		TotalXP:          totalXP,
		Level:            level,
		DailyGoalMins:    dailyGoalMins,
		NextLevelXP:      level * XPPerLevel,
		CurrentLevelBase: base,
		Pct:              int((totalXP - base) * 100 / XPPerLevel),
	}
}

// XP owns the per-user experience row and daily goal.
type XP struct {
	DB *gorm.DB
}

func NewXP(db *gorm.DB) *XP {
	return &XP{DB: db}
}

// Award adds amount to the user's total and recomputes the level in the same transaction.
func (x *XP) Award(ctx context.Context, userID uint, amount int) (models.UserXP, error) {
	if amount < 0 {
		return models.UserXP{}, ErrNegativeXP
	}
	if userID == models.AnonymousUserID {
		return models.UserXP{}, ErrAnonymousUser
	}

	var out models.UserXP
	err := x.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureXPRow(tx, userID); err != nil {
			return err
		}
		err := tx.Model(&models.UserXP{}).Where("user_id = ?", userID).
			Update("total_xp", gorm.Expr("total_xp + ?", amount)).Error
		if err != nil {
			return fmt.Errorf("add xp: %w", err)
		}
		if err := tx.Where("user_id = ?", userID).First(&out).Error; err != nil {
			return fmt.Errorf("reload xp: %w", err)
		}
		out.Level = LevelFor(out.TotalXP)
		return tx.Model(&models.UserXP{}).Where("user_id = ?", userID).Update("level", out.Level).Error
	})
	if err != nil {
		return models.UserXP{}, err
	}
	return out, nil
}

// Get returns the level view. A user without a row is at level 1 with the default goal.
func (x *XP) Get(ctx context.Context, userID uint) (models.LevelProgress, error) {
	var row models.UserXP
	err := x.DB.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewLevelProgress(0, DefaultDailyGoalMins), nil
	}
	if err != nil {
		return models.LevelProgress{}, err
	}
	return NewLevelProgress(row.TotalXP, row.DailyGoalMins), nil
}

// SetDailyGoal stores the goal without touching xp or level.
func (x *XP) SetDailyGoal(ctx context.Context, userID uint, minutes int) error {
	if minutes < 1 || minutes > MaxDailyGoalMins {
		return ErrInvalidGoal
	}
	if userID == models.AnonymousUserID {
		return ErrAnonymousUser
	}
	return x.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureXPRow(tx, userID); err != nil {
			return err
		}
		return tx.Model(&models.UserXP{}).Where("user_id = ?", userID).Update("daily_goal_mins", minutes).Error
	})
}

func ensureXPRow(tx *gorm.DB, userID uint) error {
	row := models.UserXP{UserID: userID, Level: 1, DailyGoalMins: DefaultDailyGoalMins}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("init xp row: %w", err)
	}
	return nil
}
