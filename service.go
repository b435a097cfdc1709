package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"student_auth_ms/config"
	"student_auth_ms/controller"
	"student_auth_ms/middleware"
	"student_auth_ms/repository"
	"student_auth_ms/services"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	//DB
	dbConnection *gorm.DB

	//Redis Client
	redisClient *redis.Client

	//WebAuthn Conf
	webAuthn *webauthn.WebAuthn

	//Logger
	logger *zap.Logger

	// Repository
	studentRepository repository.IStudentRepository

	// Service
	jwtService     services.IJWTService
	authService    services.IAuthService
	passkeyService services.IPasskeyService
	eventPublisher services.IAuthEventPublisher

	// Controller
	authController    controller.IAuthController
	passkeyController controller.IPasskeyController
}

// NOTE: Service Start
func (s *service) Start() {
	log.Info("Opening database connection...")
	s.dbConnection = config.OpenDatabaseConnection(config.Conf.Application.Datasource.PrimaryURL)
	config.Migrate(config.Conf.Application.Datasource.PrimaryURL)

	log.Info("Opening redis connection...")
	s.redisClient = config.ConnectToRedis(config.Conf.Application.Redis.Host)

	log.Info("WebAuthn config")
	s.webAuthn = config.InitWebAuthn()

	s.logger = config.InitLogger()
	middleware.InitValidator()

	// NOTE: Dependency Injections
	s.DependencyInjection()

	requireAuth := middleware.AuthMiddleware(s.jwtService, s.dbConnection, s.studentRepository)
	requireService := middleware.ServiceAuthMiddleware(s.jwtService)
	rateLimitStorage := middleware.NewRedisStorage(s.redisClient)

	app := NewServer(s.authController, s.passkeyController, requireAuth, requireService, rateLimitStorage, s.logger).Start()

	log.Info("Server starting..")
	// NOTE: Server start with goroutine
	go func() {
		if err := app.Listen(config.Conf.Application.Server.Port); err != nil {
			log.Fatal("Server failed to start")
		}
	}()
	// NOTE: Keep OS signals for graceful shutdown
	s.gracefulShutdown(app)
}

// NOTE: Depency Injection Operation
func (s *service) DependencyInjection() {
	security := config.Conf.Application.Security

	s.jwtService = services.NewJWTService(
		[]byte(security.Secret),
		security.Issuer,
		security.ServiceSecretMessage,
		time.Duration(security.TokenValidityInSeconds)*time.Second,
		time.Duration(security.TokenValidityInSecondsForRefresh)*time.Second,
	)

	// NOTE: Repositories Injections
	s.studentRepository = repository.NewStudentRepository()

	// NOTE: Services Injections
	s.eventPublisher = services.NewKafkaEventPublisher(config.Conf.Application.Kafka.Brokers, config.Conf.Application.Kafka.Enabled)
	s.authService = services.NewAuthService(s.dbConnection, s.studentRepository, s.jwtService, s.eventPublisher)
	s.passkeyService = services.NewPasskeyService(
		s.webAuthn,
		s.dbConnection,
		s.studentRepository,
		s.eventPublisher,
		time.Duration(config.Conf.Application.WebAuthn.ChallengeTTLSeconds)*time.Second,
	)

	// NOTE: Controllers Injections
	s.authController = controller.NewAuthController(s.authService)
	s.passkeyController = controller.NewPasskeyController(s.passkeyService)
}

// NOTE: Graceful shutdown operation
func (s *service) gracefulShutdown(app *fiber.App) {

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// NOTE:Server Shutdown when keep signal
	<-sigChan
	log.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// NOTE: Shutdown Fiber server
	if err := app.Shutdown(); err != nil {
		log.Error("error while shutting down app", err)
	}

	// NOTE: Shutdown Database connection
	done := make(chan bool)
	go func() {
		config.CloseDatabaseConnection(s.dbConnection)
		done <- true
	}()

	select {
	case <-ctx.Done():
		log.Error("timeout while shutting down database", ctx.Err())
	case <-done:
		log.Info("database is gracefully shutdown")
	}
}
