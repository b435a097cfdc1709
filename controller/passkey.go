package controller

import (
	"errors"
	"net/http"

	"student_auth_ms/apperrors"
	"student_auth_ms/dtos/response"
	"student_auth_ms/services"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type IPasskeyController interface {
	RegistrationOptions(c *fiber.Ctx) error
	VerifyRegistration(c *fiber.Ctx) error
	AuthenticationOptions(c *fiber.Ctx) error
	VerifyAuthentication(c *fiber.Ctx) error
}

type PasskeyController struct {
	service services.IPasskeyService
}

func NewPasskeyController(service services.IPasskeyService) IPasskeyController {
	return &PasskeyController{service: service}
}

func (pc *PasskeyController) RegistrationOptions(c *fiber.Ctx) error {
	matricNumber := c.Locals("matricNumber").(string)

	options, err := pc.service.RegistrationOptions(matricNumber)
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(options)
}

func (pc *PasskeyController) VerifyRegistration(c *fiber.Ctx) error {
	matricNumber := c.Locals("matricNumber").(string)

	// go-webauthn parses *http.Request, so bridge from fasthttp.
	req := new(http.Request)
	if err := fasthttpadaptor.ConvertRequest(c.Context(), req, true); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to convert request"})
	}

	if err := pc.service.VerifyRegistration(matricNumber, req); err != nil {
		return ceremonyFailure(c, err)
	}
	return c.JSON(response.CeremonyResponse{Verified: true})
}

func (pc *PasskeyController) AuthenticationOptions(c *fiber.Ctx) error {
	matricNumber := c.Locals("matricNumber").(string)

	options, err := pc.service.AuthenticationOptions(matricNumber)
	if err != nil {
		return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(options)
}

func (pc *PasskeyController) VerifyAuthentication(c *fiber.Ctx) error {
	matricNumber := c.Locals("matricNumber").(string)

	req := new(http.Request)
	if err := fasthttpadaptor.ConvertRequest(c.Context(), req, true); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to convert request"})
	}

	if err := pc.service.VerifyAuthentication(matricNumber, req); err != nil {
		return ceremonyFailure(c, err)
	}
	return c.JSON(response.CeremonyResponse{Verified: true})
}

// ceremonyFailure reports a failed verification explicitly instead of a
// success envelope: verified=false with the reason, or the taxonomy status
// for non-ceremony errors such as a missing challenge.
func ceremonyFailure(c *fiber.Ctx, err error) error {
	if errors.Is(err, apperrors.ErrCeremonyFailed) {
		return c.Status(fiber.StatusOK).JSON(response.CeremonyResponse{
			Verified: false,
			Error:    err.Error(),
		})
	}
	return c.Status(StatusFromError(err)).JSON(fiber.Map{"error": err.Error()})
}
