package controllers

import (
	"errors"

	"skillforge/backend/config"
	"skillforge/backend/models"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotesController serves per-video notes and timestamp bookmarks.
type NotesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewNotesController(db *gorm.DB, cfg *config.Config) *NotesController {
	return &NotesController{DB: db, Cfg: cfg}
}

type SaveNoteRequest struct {
	VideoPath string `json:"video_path" validate:"required"`
	Content   string `json:"content"`
}

type AddBookmarkRequest struct {
	CourseID   uint     `json:"course_id"`
	VideoPath  string   `json:"video_path" validate:"required"`
	VideoTitle string   `json:"video_title"`
	Timestamp  *float64 `json:"timestamp" validate:"required,gte=0"`
	Note       string   `json:"note" validate:"max=500"`
}

// GetNote godoc
// @Summary Get video note
// @Tags notes
// @Produce json
// @Param path query string true "Video path"
// @Success 200 {object} models.VideoNote
// @Failure 400 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes [get]
func (nc *NotesController) GetNote(c *fiber.Ctx) error {
	videoPath := c.Query("path")
	if videoPath == "" {
		return utils.BadRequest(c, "Video path is required")
	}
	userID := utils.CurrentUserID(c)

	note := models.VideoNote{UserID: userID, VideoPath: videoPath}
	err := nc.DB.WithContext(c.UserContext()).Where("user_id = ? AND video_path = ?", userID, videoPath).First(&note).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, note)
}

// SaveNote godoc
// @Summary Save video note
// @Description Replaces the user's note for a video
// @Tags notes
// @Accept json
// @Produce json
// @Param input body SaveNoteRequest true "Note"
// @Success 200 {object} models.VideoNote
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /notes [put]
func (nc *NotesController) SaveNote(c *fiber.Ctx) error {
	var input SaveNoteRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	note := models.VideoNote{
		UserID:    utils.CurrentUserID(c),
		VideoPath: input.VideoPath,
		Content:   input.Content,
	}
	err := nc.DB.WithContext(c.UserContext()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_path"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&note).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not save note")
	}
	return utils.Success(c, fiber.StatusOK, note)
}

// AddBookmark godoc
// @Summary Add bookmark
// @Tags notes
// @Accept json
// @Produce json
// @Param input body AddBookmarkRequest true "Bookmark"
// @Success 201 {object} models.Bookmark
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /bookmarks [post]
func (nc *NotesController) AddBookmark(c *fiber.Ctx) error {
	var input AddBookmarkRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	bookmark := models.Bookmark{
		UserID:     utils.CurrentUserID(c),
		CourseID:   input.CourseID,
		VideoPath:  input.VideoPath,
		VideoTitle: input.VideoTitle,
		Timestamp:  *input.Timestamp,
		Note:       input.Note,
	}
	if err := nc.DB.WithContext(c.UserContext()).Create(&bookmark).Error; err != nil {
		return utils.InternalServerError(c, "Could not create bookmark")
	}
	return utils.Created(c, bookmark)
}

// ListBookmarks godoc
// @Summary List bookmarks
// @Description Returns bookmarks of one video, one course, or all of them
// @Tags notes
// @Produce json
// @Param path query string false "Video path"
// @Param course_id query int false "Course ID"
// @Success 200 {array} models.Bookmark
// @Security ApiKeyAuth
// @Router /bookmarks [get]
func (nc *NotesController) ListBookmarks(c *fiber.Ctx) error {
	query := nc.DB.WithContext(c.UserContext()).Where("user_id = ?", utils.CurrentUserID(c))
	if videoPath := c.Query("path"); videoPath != "" {
		query = query.Where("video_path = ?", videoPath).Order("timestamp ASC")
	} else {
		query = query.Order("created_at DESC")
	}
	if courseID := c.QueryInt("course_id"); courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var bookmarks []models.Bookmark
	if err := query.Find(&bookmarks).Error; err != nil {
		return utils.InternalServerError(c, "Could not fetch bookmarks")
	}
	return utils.Success(c, fiber.StatusOK, bookmarks)
}

// DeleteBookmark godoc
// @Summary Delete bookmark
// @Tags notes
// @Param id path int true "Bookmark ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /bookmarks/{id} [delete]
func (nc *NotesController) DeleteBookmark(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid bookmark ID")
	}
	res := nc.DB.WithContext(c.UserContext()).Where("id = ? AND user_id = ?", id, utils.CurrentUserID(c)).Delete(&models.Bookmark{})
	if res.Error != nil {
		return utils.InternalServerError(c, "Could not delete bookmark")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "Bookmark not found")
	}
	return utils.NoContent(c)
}
