package controllers

import (
	"skillforge/backend/config"
	"skillforge/backend/models"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *services.Services
}

func NewProgressController(db *gorm.DB, cfg *config.Config, svc *services.Services) *ProgressController {
	return &ProgressController{DB: db, Cfg: cfg, Svc: svc}
}

type TickRequest struct {
	VideoPath  string   `json:"video_path" validate:"required"`
	CourseID   uint     `json:"course_id"`
	VideoTitle string   `json:"video_title"`
	Timestamp  *float64 `json:"timestamp" validate:"required,gte=0"`
}

// VideoProgressResponse is a ledger row with the catalog duration, 0 when unknown.
type VideoProgressResponse struct {
	models.VideoProgress
	Duration float64 `json:"duration"`
}

type ResetRequest struct {
	Scope     string `json:"scope" validate:"required,oneof=all course video"`
	CourseID  uint   `json:"course_id" validate:"required_if=Scope course"`
	VideoPath string `json:"video_path" validate:"required_if=Scope video"`
}

// Tick godoc
// @Summary Report playback position
// @Description Records a watch tick. Anonymous viewers are tracked in a shared bucket without achievements or xp.
// @Tags progress
// @Accept json
// @Produce json
// @Param input body TickRequest true "Playback position"
// @Success 200 {object} services.TickOutcome
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /progress/tick [post]
func (pc *ProgressController) Tick(c *fiber.Ctx) error {
	var input TickRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	outcome, err := pc.Svc.Tracker.HandleTick(c.UserContext(), services.Tick{
		UserID:     utils.CurrentUserID(c),
		VideoPath:  input.VideoPath,
		CourseID:   input.CourseID,
		Position:   *input.Timestamp,
		VideoTitle: input.VideoTitle,
	})
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, outcome)
}

// Reset godoc
// @Summary Reset progress
// @Description Clears progress for everything, one course or one video
// @Tags progress
// @Accept json
// @Produce json
// @Param input body ResetRequest true "Reset scope"
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /progress/reset [post]
func (pc *ProgressController) Reset(c *fiber.Ctx) error {
	var input ResetRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	err := pc.Svc.Resetter.Reset(c.UserContext(), utils.CurrentUserID(c), services.ResetRequest{
		Scope:     services.ResetScope(input.Scope),
		CourseID:  input.CourseID,
		VideoPath: input.VideoPath,
	})
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Message(c, "Progress reset")
}

// GetCourseProgress godoc
// @Summary Get course progress
// @Description Returns completion stats and the resume pointer of a course
// @Tags progress
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /progress/courses/{id} [get]
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	ctx := c.UserContext()
	userID := utils.CurrentUserID(c)

	if _, err := findCourse(pc.DB.WithContext(ctx), courseID); err != nil {
		return renderServiceError(c, err)
	}

	stats, err := pc.Svc.Catalog.CourseStats(ctx, courseID, userID)
	if err != nil {
		return renderServiceError(c, err)
	}
	resume, err := pc.Svc.Ledger.ResumePointer(ctx, userID, courseID)
	if err != nil {
		return renderServiceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course_id": courseID,
		"stats":     stats,
		"resume":    resume,
	})
}

// GetVideoProgress godoc
// @Summary Get video progress
// @Description Returns the ledger entry of one video
// @Tags progress
// @Produce json
// @Param path query string true "Video path"
// @Success 200 {object} VideoProgressResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /progress/video [get]
func (pc *ProgressController) GetVideoProgress(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return renderServiceError(c, services.ErrMissingVideoPath)
	}
	ctx := c.UserContext()
	row, err := pc.Svc.Ledger.Get(ctx, utils.CurrentUserID(c), path)
	if err != nil {
		return renderServiceError(c, err)
	}
	duration, err := pc.Svc.Catalog.GetDuration(ctx, path)
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, VideoProgressResponse{VideoProgress: row, Duration: duration})
}
