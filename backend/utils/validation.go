package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

var ErrCannotParse = errors.New("Cannot parse JSON")

// ParseAndValidate decodes the request body into out and runs struct validation on it.
// It writes nothing; render a failure with RenderValidation.
func ParseAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return ErrCannotParse
	}
	return validate.Struct(out)
}

// Validate runs struct validation on v.
func Validate(v interface{}) error {
	return validate.Struct(v)
}

// RenderValidation writes validator errors as a field -> tag map, anything else as 400.
func RenderValidation(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return BadRequest(c, err.Error())
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[strings.ToLower(fe.Field())] = fe.Tag()
	}
	return ValidationError(c, fields)
}
