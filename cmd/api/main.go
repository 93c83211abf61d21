package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/fyp-go-api/internal/config"
	"github.com/noah-isme/fyp-go-api/internal/database"
	"github.com/noah-isme/fyp-go-api/internal/handler"
	"github.com/noah-isme/fyp-go-api/internal/middleware"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/repository"
	"github.com/noah-isme/fyp-go-api/internal/router"
	"github.com/noah-isme/fyp-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Lecturer{},
		&models.Student{},
		&models.ProjectGroup{},
		&models.Deliverable{},
		&models.Rubric{},
		&models.RubricScoreRange{},
		&models.Submission{},
		&models.Evaluation{},
		&models.EvaluationRubricScore{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured; evaluation view caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured; grade events disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	deliverableRepo := repository.NewDeliverableRepository(db)
	rubricRepo := repository.NewRubricRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	eligibilityService := service.NewEligibilityService(deliverableRepo, submissionRepo, evaluationRepo, groupRepo, logger)
	viewService := service.NewEvaluationViewService(deliverableRepo, submissionRepo, evaluationRepo, groupRepo, redisClient, cfg.ViewCacheTTL, logger)
	gradeEvents := service.NewNATSGradeEventPublisher(natsConn, "fyp.grades.submitted", logger)
	evaluationService := service.NewEvaluationService(deliverableRepo, evaluationRepo, auditRepo, eligibilityService, viewService, gradeEvents, validate, logger)
	deliverableService := service.NewDeliverableService(deliverableRepo, rubricRepo, evaluationRepo, validate, logger)

	deliverableHandler := handler.NewDeliverableHandler(deliverableService, validate, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, eligibilityService, viewService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		DeliverableHandler: deliverableHandler,
		EvaluationHandler:  evaluationHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
