package controllers

import (
	"errors"

	"skillforge/backend/config"
	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FlashcardsController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Svc *services.Services
}

func NewFlashcardsController(db *gorm.DB, cfg *config.Config, svc *services.Services) *FlashcardsController {
	return &FlashcardsController{DB: db, Cfg: cfg, Svc: svc}
}

// AddFlashcardsRequest accepts either a single card or a batch in Cards.
type AddFlashcardsRequest struct {
	services.NewFlashcard
	Cards []services.NewFlashcard `json:"cards" validate:"omitempty,dive"`
}

type ReviewRequest struct {
	Quality *int `json:"quality" validate:"required,min=0,max=5"`
}

// AddFlashcards godoc
// @Summary Add flashcards
// @Description Adds one card, or every card in "cards". New cards are due today.
// @Tags flashcards
// @Accept json
// @Produce json
// @Param input body AddFlashcardsRequest true "Cards"
// @Success 201 {array} models.Flashcard
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /flashcards [post]
func (fc *FlashcardsController) AddFlashcards(c *fiber.Ctx) error {
	var input AddFlashcardsRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	cards := input.Cards
	if len(cards) == 0 {
		cards = []services.NewFlashcard{input.NewFlashcard}
	}
	ctx := c.UserContext()
	for i := range cards {
		if err := utils.Validate(&cards[i]); err != nil {
			return utils.RenderValidation(c, err)
		}
		// курс берём из каталога, если клиент его не прислал
		if cards[i].CourseID == 0 && cards[i].VideoPath != "" {
			courseID, err := fc.Svc.Catalog.GetCourseID(ctx, cards[i].VideoPath)
			if err != nil && !errors.Is(err, services.ErrVideoNotFound) {
				return renderServiceError(c, err)
			}
			cards[i].CourseID = courseID
		}
	}

	created, err := fc.Svc.Flashcards.Add(ctx, utils.CurrentUserID(c), cards...)
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Created(c, created)
}

// GetDue godoc
// @Summary Due flashcards
// @Tags flashcards
// @Produce json
// @Success 200 {array} models.Flashcard
// @Security ApiKeyAuth
// @Router /flashcards/due [get]
func (fc *FlashcardsController) GetDue(c *fiber.Ctx) error {
	cards, err := fc.Svc.Flashcards.Due(c.UserContext(), utils.CurrentUserID(c))
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, cards)
}

// ListFlashcards godoc
// @Summary List flashcards
// @Description Returns every card of the user, optionally for one course, with a due flag
// @Tags flashcards
// @Produce json
// @Param course_id query int false "Course ID"
// @Success 200 {array} services.FlashcardView
// @Security ApiKeyAuth
// @Router /flashcards [get]
func (fc *FlashcardsController) ListFlashcards(c *fiber.Ctx) error {
	courseID := c.QueryInt("course_id", 0)
	if courseID < 0 {
		return utils.BadRequest(c, "Invalid course ID")
	}
	cards, err := fc.Svc.Flashcards.List(c.UserContext(), utils.CurrentUserID(c), uint(courseID))
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, cards)
}

// Review godoc
// @Summary Review a flashcard
// @Description Grades a card (0 forgot, 3 hard, 4 good, 5 easy) and returns its new schedule
// @Tags flashcards
// @Accept json
// @Produce json
// @Param id path int true "Flashcard ID"
// @Param input body ReviewRequest true "Grade"
// @Success 200 {object} services.Schedule
// @Failure 404 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /flashcards/{id}/review [post]
func (fc *FlashcardsController) Review(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid flashcard ID")
	}

	var input ReviewRequest
	if err := utils.ParseAndValidate(c, &input); err != nil {
		return utils.RenderValidation(c, err)
	}

	sched, err := fc.Svc.Flashcards.Review(c.UserContext(), utils.CurrentUserID(c), cardID, *input.Quality)
	if err != nil {
		return renderServiceError(c, err)
	}
	return utils.Success(c, fiber.StatusOK, sched)
}

// DeleteFlashcard godoc
// @Summary Delete a flashcard
// @Tags flashcards
// @Param id path int true "Flashcard ID"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /flashcards/{id} [delete]
func (fc *FlashcardsController) DeleteFlashcard(c *fiber.Ctx) error {
	cardID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid flashcard ID")
	}
	if err := fc.Svc.Flashcards.Delete(c.UserContext(), utils.CurrentUserID(c), cardID); err != nil {
		return renderServiceError(c, err)
	}
	return utils.NoContent(c)
}
