package main

import (
	"time"

	"student_auth_ms/config"
	"student_auth_ms/controller"
	"student_auth_ms/dtos/request"
	"student_auth_ms/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Server struct {
	AuthController    controller.IAuthController
	PasskeyController controller.IPasskeyController
	RequireAuth       fiber.Handler
	RequireService    fiber.Handler
	RateLimitStorage  fiber.Storage
	Logger            *zap.Logger
}

// NOTE: Server Constructor
func NewServer(
	authController controller.IAuthController,
	passkeyController controller.IPasskeyController,
	requireAuth fiber.Handler,
	requireService fiber.Handler,
	rateLimitStorage fiber.Storage,
	logger *zap.Logger,
) *Server {
	return &Server{
		AuthController:    authController,
		PasskeyController: passkeyController,
		RequireAuth:       requireAuth,
		RequireService:    requireService,
		RateLimitStorage:  rateLimitStorage,
		Logger:            logger,
	}
}

// NOTE: Start Fiber Server
func (s *Server) Start() *fiber.App {
	app := fiber.New()

	app.Use(middleware.RecoveryMiddleware())
	app.Use(middleware.LoggingMiddleware(s.Logger))
	app.Use(middleware.GlobalRateLimiter(s.RateLimitStorage))

	app.Get("/", s.AuthController.Home)

	// NOTE: Define API paths (context path and grouping by version)
	contextPath := app.Group(config.Conf.Application.Server.ContextPath)
	apiVersion := contextPath.Group(config.Conf.Application.Server.ApiVersion)

	apiVersion.Post("/create-student", s.RequireService, middleware.ValidateBody[request.CreateStudentRequest](), s.AuthController.CreateStudent)
	// Tighter limit on the password login route to slow down guessing.
	apiVersion.Post("/verify-student", middleware.RouteRateLimiter(5, time.Minute, s.RateLimitStorage), middleware.ValidateBody[request.LoginRequest](), s.AuthController.VerifyStudent)
	apiVersion.Post("/refresh", middleware.ValidateBody[request.RefreshTokenRequest](), s.AuthController.RefreshToken)

	apiVersion.Get("/generate-registration-options", s.RequireAuth, s.PasskeyController.RegistrationOptions)
	apiVersion.Post("/verify-registration-response", s.RequireAuth, s.PasskeyController.VerifyRegistration)
	apiVersion.Get("/generate-authentication-options", s.RequireAuth, s.PasskeyController.AuthenticationOptions)
	apiVersion.Post("/verify-authentication-response", s.RequireAuth, s.PasskeyController.VerifyAuthentication)

	return app
}
