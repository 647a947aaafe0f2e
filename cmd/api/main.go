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
	"github.com/rs/zerolog"

	"github.com/sparrowhq/talent-api/internal/config"
	"github.com/sparrowhq/talent-api/internal/database"
	"github.com/sparrowhq/talent-api/internal/handler"
	"github.com/sparrowhq/talent-api/internal/middleware"
	"github.com/sparrowhq/talent-api/internal/models"
	"github.com/sparrowhq/talent-api/internal/repository"
	"github.com/sparrowhq/talent-api/internal/router"
	"github.com/sparrowhq/talent-api/internal/service"
	"github.com/sparrowhq/talent-api/pkg/ai"
	cloud "github.com/sparrowhq/talent-api/pkg/cloudinary"
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
		&models.JobOpening{},
		&models.JobRoundTemplate{},
		&models.Candidate{},
		&models.CandidateRound{},
		&models.Evaluation{},
		&models.View{},
		&models.Resume{},
		&models.RoundSetting{},
		&models.ProgressEvent{},
		&models.ProgressionReceipt{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryResumeFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	evaluator, err := ai.NewOpenAIEvaluator(ai.OpenAIConfig{
		APIKey: cfg.OpenAIAPIKey,
		Model:  cfg.OpenAIModel,
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("failed to create evaluator: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	jobRepo := repository.NewJobOpeningRepository(db)
	templateRepo := repository.NewRoundTemplateRepository(db)
	candidateRepo := repository.NewCandidateRepository(db)
	roundRepo := repository.NewCandidateRoundRepository(db)
	progressionRepo := repository.NewProgressionRepository(db)
	viewRepo := repository.NewViewRepository(db)
	resumeRepo := repository.NewResumeRepository(db)
	settingRepo := repository.NewRoundSettingRepository(db)
	eventRepo := repository.NewProgressEventRepository(db)

	eventService := service.NewProgressEventService(eventRepo, redisClient, cfg.EventChannelBase, natsConn, validate, logger)
	jobService := service.NewJobOpeningService(jobRepo, templateRepo, validate, logger)
	templateService := service.NewRoundTemplateService(templateRepo, jobRepo, validate, logger)
	candidateService := service.NewCandidateService(candidateRepo, jobRepo, validate, logger)
	draftService := service.NewDraftService(roundRepo, redisClient, cfg.DraftTTL, validate, logger)
	settingService := service.NewRoundSettingService(settingRepo, templateRepo, validate, logger)
	progressionService := service.NewProgressionService(templateRepo, roundRepo, progressionRepo, eventService, validate, logger)
	evaluationService := service.NewEvaluationService(templateRepo, roundRepo, settingService, eventService, evaluator, cfg.EvaluationBatchDelay, logger)
	viewService := service.NewViewService(viewRepo, jobRepo, templateRepo, roundRepo, settingService, redisClient, cfg.AggregationCacheTTL, validate, logger)
	resumeService := service.NewResumeService(resumeRepo, candidateRepo, uploader, validate, logger)

	appCtx, stopServices := context.WithCancel(context.Background())
	defer stopServices()
	eventService.Start(appCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		JobOpeningHandler:    handler.NewJobOpeningHandler(jobService, logger),
		RoundTemplateHandler: handler.NewRoundTemplateHandler(templateService, logger),
		CandidateHandler:     handler.NewCandidateHandler(candidateService, logger),
		DraftHandler:         handler.NewDraftHandler(draftService, logger),
		ProgressionHandler:   handler.NewProgressionHandler(progressionService, logger),
		EvaluationHandler:    handler.NewEvaluationHandler(evaluationService, logger),
		ViewHandler:          handler.NewViewHandler(viewService, logger),
		ResumeHandler:        handler.NewResumeHandler(resumeService, logger),
		RoundSettingHandler:  handler.NewRoundSettingHandler(settingService, logger),
		EventHandler:         handler.NewEventHandler(eventService, logger, 30*time.Second),
		JWTMiddleware:        middleware.JWTProtected(cfg.JWTSecret),
		EvaluationRateLimit:  middleware.RateLimit("evaluations", cfg.EvaluationRateMax, cfg.EvaluationRateWindow),
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
