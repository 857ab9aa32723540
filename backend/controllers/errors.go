package controllers

import (
	"errors"

	"skillforge/backend/services"
	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
)

var badRequestErrors = []error{
	services.ErrMissingVideoPath,
	services.ErrInvalidPosition,
	services.ErrNegativeXP,
	services.ErrInvalidGoal,
	services.ErrInvalidQuality,
	services.ErrInvalidQuiz,
	services.ErrInvalidMastery,
	services.ErrUnsupportedBackup,
	services.ErrInvalidBackup,
	services.ErrMissingCourseID,
	services.ErrInvalidResetScope,
}

var notFoundErrors = []error{
	services.ErrVideoNotFound,
	services.ErrCourseNotFound,
	services.ErrFlashcardNotFound,
	services.ErrNotFound,
}

// renderServiceError maps service sentinel errors to HTTP statuses.
func renderServiceError(c *fiber.Ctx, err error) error {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return utils.Error(c, fiber.StatusBadRequest, err)
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return utils.Error(c, fiber.StatusNotFound, err)
		}
	}
	if errors.Is(err, services.ErrAnonymousUser) {
		return utils.Unauthorized(c, err.Error())
	}
	return utils.Error(c, fiber.StatusInternalServerError, err)
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}
