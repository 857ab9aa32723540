package controllers

import (
	"skillforge/backend/config"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OverviewController serves the gamification views: level, goal, badges and review suggestions.
type OverviewController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *services.Services
}

func NewOverviewController(db *gorm.DB, cfg *config.Config, svc *services.Services) *OverviewController {
	return &OverviewController{DB: db, Cfg: cfg, Svc: svc}
}

type GoalRequest struct {
	Minutes int `json:"minutes" validate:"required,min=1,max=1440"`
}

// GetXP godoc
// @Summary Get level progress
// @Tags overview
// @Produce json
// @Success 200 {object} models.LevelProgress
// @Security ApiKeyAuth
// @Router /xp [get]
func (oc *OverviewController) GetXP(c *fiber.Ctx) error {
	xp, err := oc.Svc.XP.Get(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, xp)
}

// SetGoal godoc
// @Summary Set daily goal
// @Tags overview
// @Accept json
// @Produce json
// @Param input body GoalRequest true "Daily goal in minutes"
// @Success 200 {object} models.LevelProgress
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /xp/goal [post]
func (oc *OverviewController) SetGoal(c *fiber.Ctx) error {
	var input GoalRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}
	ctx := c.UserContext()
	userID := utils.CurrentUserID(c)

	if err := oc.Svc.XP.SetDailyGoal(ctx, userID, input.Minutes); err != nil {
		return renderServiceError(c, err)
	}
	xp, err := oc.Svc.XP.Get(ctx, userID)
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, xp)
}

// GetAchievements godoc
// @Summary List achievements
// @Description Returns the whole badge catalog with the user's unlock state
// @Tags overview
// @Produce json
// @Success 200 {array} models.AchievementView
// @Security ApiKeyAuth
// @Router /achievements [get]
func (oc *OverviewController) GetAchievements(c *fiber.Ctx) error {
	list, err := oc.Svc.Achievements.List(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, list)
}

// GetReview godoc
// @Summary Suggested review
// @Description Returns low-rated videos and the number of due flashcards
// @Tags overview
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /review [get]
func (oc *OverviewController) GetReview(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := utils.CurrentUserID(c)

	weak, err := oc.Svc.Quiz.WeakSpots(ctx, userID)
	if err != nil {
		return renderServiceError(c, err)
	}
	due, err := oc.Svc.Flashcards.Due(ctx, userID)
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"weak_spots":     weak,
		"due_flashcards": len(due),
	})
}
