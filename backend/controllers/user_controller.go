package controllers

import (
	"errors"
	"sort"

	"skillforge/backend/config"
	"skillforge/backend/models"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *services.Services
}

func NewUserController(db *gorm.DB, cfg *config.Config, svc *services.Services) *UserController {
	return &UserController{DB: db, Cfg: cfg, Svc: svc}
}

type UpdateUserRequest struct {
	Username    string `json:"username" validate:"omitempty,min=3,max=32" example:"john_doe"`
	Name        string `json:"name" validate:"max=100"`
	Address     string `json:"address" validate:"max=255"`
	ProfilePic  string `json:"profile_pic" validate:"omitempty,url"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"omitempty,min=6"`
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns authenticated user's profile with level and streak
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	ctx := c.UserContext()

	var user models.User
	if err := uc.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	xp, err := uc.Svc.XP.Get(ctx, userID)
	if err != nil {
		return renderServiceError(c, err)
	}
	buckets, err := uc.Svc.Activity.DailyBuckets(ctx, userID)
	if err != nil {
		return renderServiceError(c, err)
	}

	// Формируем ответ без чувствительных данных
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":          user.ID,
		"username":    user.Username,
		"name":        user.Name,
		"address":     user.Address,
		"profile_pic": user.ProfilePic,
		"role":        user.Role,
		"created_at":  user.CreatedAt,
		"xp":          xp,
		"streak":      services.Streak(buckets, uc.Svc.Clock()),
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Updates authenticated user's profile data
// @Tags users
// @Accept json
// @Produce json
// @Param input body UpdateUserRequest true "Profile update data"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)

	var input UpdateUserRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	// Проверяем, не занято ли имя
	if input.Username != "" && input.Username != user.Username {
		var existingUser models.User
		err := uc.DB.Where("username = ?", input.Username).First(&existingUser).Error
		if err == nil && existingUser.ID != user.ID {
			return utils.Conflict(c, "Username already taken")
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.InternalServerError(c, "Could not query database")
		}
		user.Username = input.Username
	}

	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashedPassword)
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Address != "" {
		user.Address = input.Address
	}
	if input.ProfilePic != "" {
		user.ProfilePic = input.ProfilePic
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Message(c, "Profile updated successfully")
}

// GetSettings godoc
// @Summary Get user settings
// @Description Returns the stored settings or the defaults when none were saved
// @Tags users
// @Produce json
// @Success 200 {object} models.UserSettings
// @Security ApiKeyAuth
// @Router /user/settings [get]
func (uc *UserController) GetSettings(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)

	settings := models.DefaultSettings(userID)
	err := uc.DB.WithContext(c.UserContext()).Where("user_id = ?", userID).First(&settings).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update user settings
// @Description Replaces the user's settings. Fields missing from the body keep their current value.
// @Tags users
// @Accept json
// @Produce json
// @Param input body models.UserSettings true "Settings"
// @Success 200 {object} models.UserSettings
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/settings [put]
func (uc *UserController) UpdateSettings(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	db := uc.DB.WithContext(c.UserContext())

	settings := models.DefaultSettings(userID)
	if err := db.Where("user_id = ?", userID).First(&settings).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}

	// body is decoded over the current values
	if err := utils.ParseAndValidate(c, &settings); err != nil {
		return utils.RenderValidation(c, err)
	}
	settings.UserID = userID

	err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&settings).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not save settings")
	}
	return utils.Success(c, fiber.StatusOK, settings)
}

// GetActivity godoc
// @Summary Get daily activity
// @Description Returns the user's activity buckets, newest first
// @Tags users
// @Produce json
// @Param days query int false "Number of days to return" default(30)
// @Success 200 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /user/activity [get]
func (uc *UserController) GetActivity(c *fiber.Ctx) error {
	userID := utils.CurrentUserID(c)
	days := c.QueryInt("days", 30)
	if days < 1 {
		days = 30
	}

	buckets, err := uc.Svc.Activity.DailyBuckets(c.UserContext(), userID)
	if err != nil {
		return renderServiceError(c, err)
	}

	cutoff := services.DateKey(uc.Svc.Clock().AddDate(0, 0, -(days - 1)))
	out := make([]models.ActivityBucket, 0, days)
	for date, b := range buckets {
		if date >= cutoff {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"activity":    out,
		"streak":      services.Streak(buckets, uc.Svc.Clock()),
		"period_days": days,
	})
}
