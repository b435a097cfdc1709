package middleware

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var Validate *validator.Validate

var matricPattern = regexp.MustCompile(`^[A-Za-z0-9]{5,15}$`)

// InitValidator initializes validator and custom rules
func InitValidator() {
	Validate = validator.New()

	// Matric numbers are 5-15 alphanumeric characters; case is normalized
	// by the service layer.
	Validate.RegisterValidation("matric", func(fl validator.FieldLevel) bool {
		return matricPattern.MatchString(fl.Field().String())
	})
}

func translateValidationErrors(err validator.ValidationErrors) map[string]string {
	errorsMap := make(map[string]string)
	for _, e := range err {
		field := e.Field()
		tag := e.Tag()
		switch tag {
		case "required":
			errorsMap[field] = field + " is required"
		case "matric":
			errorsMap[field] = field + " must be 5 to 15 alphanumeric characters"
		case "min":
			errorsMap[field] = field + " is too short"
		default:
			errorsMap[field] = field + " is invalid"
		}
	}
	return errorsMap
}

// ValidateBody is Fiber middleware that validates request body
func ValidateBody[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body T

		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}

		if err := Validate.Struct(&body); err != nil {
			if errs, ok := err.(validator.ValidationErrors); ok {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
					"errors": translateValidationErrors(errs),
				})
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		c.Locals("body", &body)
		return c.Next()
	}
}
