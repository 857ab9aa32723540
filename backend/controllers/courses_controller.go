package controllers

import (
	"errors"
	"path"

	"skillforge/backend/config"
	"skillforge/backend/models"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *services.Services
}

func NewCoursesController(db *gorm.DB, cfg *config.Config, svc *services.Services) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg, Svc: svc}
}

type CreateVideoRequest struct {
	Title    string  `json:"title" validate:"required"`
	Filename string  `json:"filename" validate:"required"`
	Path     string  `json:"path"`
	Duration float64 `json:"duration" validate:"gte=0"`
	ItemType string  `json:"item_type" validate:"omitempty,oneof=video quiz"`
}

type CreateModuleRequest struct {
	Title  string               `json:"title" validate:"required"`
	Videos []CreateVideoRequest `json:"videos" validate:"dive"`
}

type CreateCourseRequest struct {
	Title       string                `json:"title" validate:"required"`
	FolderName  string                `json:"folder_name" validate:"required"`
	Description string                `json:"description"`
	Modules     []CreateModuleRequest `json:"modules" validate:"dive"`
}

type AddVideoRequest struct {
	ModuleTitle string `json:"module_title" validate:"required"`
	CreateVideoRequest
}

func findCourse(db *gorm.DB, courseID uint) (models.Course, error) {
	var course models.Course
	err := db.First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return course, services.ErrCourseNotFound
	}
	return course, err
}

func newVideo(folder, module string, order int, in CreateVideoRequest) models.Video {
	v := models.Video{
		Title:      in.Title,
		Filename:   in.Filename,
		Path:       in.Path,
		OrderIndex: order,
		Duration:   in.Duration,
		ItemType:   in.ItemType,
	}
	if v.Path == "" {
		v.Path = path.Join(folder, module, in.Filename)
	}
	if v.ItemType == "" {
		v.ItemType = "video"
	}
	return v
}

// ListCourses godoc
// @Summary List courses
// @Description Returns every course with the viewer's completion stats
// @Tags courses
// @Produce json
// @Param favorites query bool false "Only favorites"
// @Param search query string false "Search term"
// @Success 200 {object} map[string]interface{}
// @Router /courses [get]
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := utils.CurrentUserID(c)

	query := cc.DB.WithContext(ctx).Model(&models.Course{}).Order("title ASC")
	if c.QueryBool("favorites") {
		query = query.Where("is_favorite = ?", true)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(alternate_title) LIKE LOWER(?)", "%"+search+"%", "%"+search+"%")
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		stats, err := cc.Svc.Catalog.CourseStats(ctx, course.ID, userID)
		if err != nil {
			return renderServiceError(c, err)
		}
		result = append(result, fiber.Map{
			"id":              course.ID,
			"title":           course.Title,
			"alternate_title": course.AlternateTitle,
			"folder_name":     course.FolderName,
			"description":     course.Description,
			"is_favorite":     course.IsFavorite,
			"stats":           stats,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetCourse godoc
// @Summary Get course structure
// @Description Returns modules and videos with the viewer's per-video progress and mastery
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Router /courses/{id} [get]
func (cc *CoursesController) GetCourse(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	ctx := c.UserContext()
	userID := utils.CurrentUserID(c)

	var course models.Course
	err = cc.DB.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Preload("Modules.Videos", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return renderServiceError(c, services.ErrCourseNotFound)
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	progress, err := cc.Svc.Ledger.ProgressMap(ctx, userID)
	if err != nil {
		return renderServiceError(c, err)
	}
	mastery, err := cc.Svc.Quiz.MasteryMap(ctx, userID)
	if err != nil {
		return renderServiceError(c, err)
	}

	modules := make([]fiber.Map, 0, len(course.Modules))
	for _, m := range course.Modules {
		videos := make([]fiber.Map, 0, len(m.Videos))
		for _, v := range m.Videos {
			p := progress[v.Path]
			videos = append(videos, fiber.Map{
				"id":            v.ID,
				"title":         v.Title,
				"filename":      v.Filename,
				"path":          v.Path,
				"duration":      v.Duration,
				"item_type":     v.ItemType,
				"watched_time":  p.WatchedTime,
				"is_completed":  p.IsCompleted,
				"mastery_score": mastery[v.Path],
			})
		}
		modules = append(modules, fiber.Map{
			"id":     m.ID,
			"title":  m.Title,
			"videos": videos,
		})
	}

	stats, err := cc.Svc.Catalog.CourseStats(ctx, course.ID, userID)
	if err != nil {
		return renderServiceError(c, err)
	}
	resume, err := cc.Svc.Ledger.ResumePointer(ctx, userID, course.ID)
	if err != nil {
		return renderServiceError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":              course.ID,
		"title":           course.Title,
		"alternate_title": course.AlternateTitle,
		"description":     course.Description,
		"is_favorite":     course.IsFavorite,
		"modules":         modules,
		"stats":           stats,
		"resume":          resume,
	})
}

// ToggleFavorite godoc
// @Summary Toggle favorite
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /courses/{id}/favorite [post]
func (cc *CoursesController) ToggleFavorite(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}
	db := cc.DB.WithContext(c.UserContext())

	course, err := findCourse(db, courseID)
	if err != nil {
		return renderServiceError(c, err)
	}
	course.IsFavorite = !course.IsFavorite
	if err := db.Model(&course).Update("is_favorite", course.IsFavorite).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"is_favorite": course.IsFavorite})
}

// CreateCourse godoc
// @Summary Register a course
// @Description Stores a course with its modules and videos as found on disk
// @Tags admin
// @Accept json
// @Produce json
// @Param input body CreateCourseRequest true "Course"
// @Success 201 {object} models.Course
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses [post]
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	var input CreateCourseRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}
	db := cc.DB.WithContext(c.UserContext())

	var existing int64
	if err := db.Model(&models.Course{}).Where("folder_name = ?", input.FolderName).Count(&existing).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if existing > 0 {
		return utils.Conflict(c, "Course folder already registered")
	}

	course := models.Course{
		Title:       input.Title,
		FolderName:  input.FolderName,
		Description: input.Description,
	}
	for i, m := range input.Modules {
		module := models.Module{Title: m.Title, OrderIndex: i}
		for j, v := range m.Videos {
			module.Videos = append(module.Videos, newVideo(input.FolderName, m.Title, j, v))
		}
		course.Modules = append(course.Modules, module)
	}

	if err := db.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}
	return utils.Created(c, course)
}

// UpdateCourseDescription godoc
// @Summary Update course description
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/description [put]
func (cc *CoursesController) UpdateCourseDescription(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input struct {
		Description    string `json:"description"`
		AlternateTitle string `json:"alternate_title"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	db := cc.DB.WithContext(c.UserContext())
	course, err := findCourse(db, courseID)
	if err != nil {
		return renderServiceError(c, err)
	}

	// both fields are replaced, so clearing them is possible
	course.Description = input.Description
	course.AlternateTitle = input.AlternateTitle
	err = db.Model(&course).Updates(map[string]interface{}{
		"description":     course.Description,
		"alternate_title": course.AlternateTitle,
	}).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}
	return utils.Success(c, fiber.StatusOK, course)
}

// AddVideo godoc
// @Summary Add a video to a course
// @Description Appends a video to the named module, creating the module when missing
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param input body AddVideoRequest true "Video"
// @Success 201 {object} models.Video
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /admin/courses/{id}/videos [post]
func (cc *CoursesController) AddVideo(c *fiber.Ctx) error {
	courseID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input AddVideoRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	var video models.Video
	err = cc.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		course, err := findCourse(tx, courseID)
		if err != nil {
			return err
		}

		var module models.Module
		err = tx.Where("course_id = ? AND title = ?", courseID, input.ModuleTitle).First(&module).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			var modules int64
			if err := tx.Model(&models.Module{}).Where("course_id = ?", courseID).Count(&modules).Error; err != nil {
				return err
			}
			module = models.Module{CourseID: courseID, Title: input.ModuleTitle, OrderIndex: int(modules)}
			err = tx.Create(&module).Error
		}
		if err != nil {
			return err
		}

		// Get current video count to set order
		var videos int64
		if err := tx.Model(&models.Video{}).Where("module_id = ?", module.ID).Count(&videos).Error; err != nil {
			return err
		}

		video = newVideo(course.FolderName, module.Title, int(videos), input.CreateVideoRequest)
		video.ModuleID = module.ID
		return tx.Create(&video).Error
	})
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Created(c, video)
}
