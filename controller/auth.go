package controller

import (
	"errors"

	"student_auth_ms/apperrors"
	"student_auth_ms/dtos/request"
	"student_auth_ms/middleware"
	"student_auth_ms/services"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	Home(c *fiber.Ctx) error
	CreateStudent(c *fiber.Ctx) error
	VerifyStudent(c *fiber.Ctx) error
	RefreshToken(c *fiber.Ctx) error
}

type AuthController struct {
	authService services.IAuthService
}

func NewAuthController(authService services.IAuthService) IAuthController {
	return &AuthController{authService: authService}
}

func (ac *AuthController) Home(c *fiber.Ctx) error {
	return c.JSON(true)
}

func (ac *AuthController) CreateStudent(c *fiber.Ctx) error {
	req := c.Locals("body").(*request.CreateStudentRequest)

	response, err := ac.authService.CreateStudent(req)
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

func (ac *AuthController) VerifyStudent(c *fiber.Ctx) error {
	req := c.Locals("body").(*request.LoginRequest)

	response, err := ac.authService.VerifyStudent(req)
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	accessToken, ok := middleware.BearerToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing or invalid token",
		})
	}
	req := c.Locals("body").(*request.RefreshTokenRequest)

	response, err := ac.authService.RefreshToken(accessToken, req)
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusOK).JSON(response)
}

// StatusFromError maps the service error taxonomy to HTTP statuses.
func StatusFromError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrStudentExists):
		return fiber.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperrors.ErrValidation):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
