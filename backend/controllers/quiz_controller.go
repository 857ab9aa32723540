package controllers

import (
	"skillforge/backend/config"
	"skillforge/backend/models"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuizController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *services.Services
}

func NewQuizController(db *gorm.DB, cfg *config.Config, svc *services.Services) *QuizController {
	return &QuizController{DB: db, Cfg: cfg, Svc: svc}
}

type QuizAttemptRequest struct {
	CourseID uint `json:"course_id"`
	Correct  *int `json:"correct" validate:"required,gte=0"`
	Total    *int `json:"total" validate:"required,gte=0"`
}

type MasteryRequest struct {
	VideoPath string `json:"video_path" validate:"required"`
	Score     int    `json:"score" validate:"required,min=1,max=5"`
}

// SubmitAttempt godoc
// @Summary Submit quiz result
// @Description Stores a quiz attempt and awards 50 xp per correct answer
// @Tags quiz
// @Accept json
// @Produce json
// @Param input body QuizAttemptRequest true "Quiz result"
// @Success 201 {object} services.QuizResult
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /quiz/attempts [post]
func (qc *QuizController) SubmitAttempt(c *fiber.Ctx) error {
	var input QuizAttemptRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	res, err := qc.Svc.Quiz.Submit(c.UserContext(), utils.CurrentUserID(c), input.CourseID, *input.Correct, *input.Total)
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Created(c, res)
}

// ListAttempts godoc
// @Summary Quiz history
// @Tags quiz
// @Produce json
// @Param course_id query int false "Course ID"
// @Success 200 {array} models.QuizAttempt
// @Security ApiKeyAuth
// @Router /quiz/attempts [get]
func (qc *QuizController) ListAttempts(c *fiber.Ctx) error {
	query := qc.DB.WithContext(c.UserContext()).
		Where("user_id = ?", utils.CurrentUserID(c)).
		Order("created_at DESC")
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var attempts []models.QuizAttempt
	if err := query.Find(&attempts).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, attempts)
}

// SetMastery godoc
// @Summary Rate video mastery
// @Description Stores a 1-5 self-rating for a video
// @Tags quiz
// @Accept json
// @Produce json
// @Param input body MasteryRequest true "Mastery score"
// @Success 200 {object} utils.SuccessResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /mastery [post]
func (qc *QuizController) SetMastery(c *fiber.Ctx) error {
	var input MasteryRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}
	if err := qc.Svc.Quiz.SetMastery(c.UserContext(), utils.CurrentUserID(c), input.VideoPath, input.Score); err != nil {
		return renderServiceError(c, err)
	}
	return utils.Message(c, "Mastery saved")
}
