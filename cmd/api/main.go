package main

import (
	"context"
	"log"
	"time"

	"starpost/config"
	"starpost/internal/clients"
	"starpost/internal/handler"
	appredis "starpost/internal/redis"
	"starpost/internal/repository"
	"starpost/internal/server"
	"starpost/internal/services"
	"starpost/internal/storage"
	"starpost/pkg/database"
	"starpost/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)

	database.Connect(cfg)
	if err := database.ApplyRawMigrations("migrations"); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	attemptRepo := repository.NewPostAttemptRepository(database.DB)
	credRepo := repository.NewCredentialRepository(database.DB)

	redisClient := appredis.NewClient(appredis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	planCache := appredis.NewPlanCache(redisClient)

	uploader := buildUploader(cfg)

	var prompts services.PromptStrategy = services.StaticPrompt{}
	if cfg.PromptMode == "dynamic" {
		prompts = services.NewDynamicPrompt(clients.NewPromptGenClient(cfg.PromptModelURL, cfg.PromptModelKey, cfg.PromptModel))
	}

	imageGen := clients.NewImageGenClient(cfg.ImageModelURL, cfg.ImageModelKey)
	pipeline := services.NewPipeline(prompts, imageGen, uploader, l)
	verifier := services.NewVerifier(l)
	publisher := services.NewPublisher(clients.NewSocialClient(cfg.GraphAPIBase), l)
	poster := services.NewPoster(attemptRepo, pipeline, verifier, publisher, l)

	var plans services.PlanLookup
	if cfg.PlanAPIBase != "" {
		plans = clients.NewPlanClient(cfg.PlanAPIBase)
	}
	quota := services.NewQuotaManager(attemptRepo, plans, planCache, l)

	source := clients.NewReviewSourceClient(cfg.ReviewAPIBase)
	sweeper := services.NewSweeper(credRepo, attemptRepo, quota, source, poster, l)

	if cfg.SweepIntervalMin > 0 {
		go runScheduler(sweeper, time.Duration(cfg.SweepIntervalMin)*time.Minute, l)
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Posting: handler.NewPostingHandler(sweeper, quota, attemptRepo, credRepo),
		Webhook: handler.NewWebhookHandler(cfg.AppSecret, poster, credRepo, attemptRepo, l),
	})

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func buildUploader(cfg *config.Config) storage.Uploader {
	switch cfg.StorageBackend {
	case "imghost":
		client, err := storage.NewImgHostClient(cfg.ImgHostURL, cfg.ImgHostKey)
		if err != nil {
			log.Fatalf("Failed to configure image host storage: %v", err)
		}
		return client
	default:
		client, err := storage.NewS3Client(context.Background(), storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PublicBase: cfg.S3PublicBase,
		})
		if err != nil {
			log.Fatalf("Failed to configure s3 storage: %v", err)
		}
		return client
	}
}

func runScheduler(sweeper *services.Sweeper, interval time.Duration, l *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		outcome := sweeper.RequestRun()
		l.Infof("scheduled sweep: %s", outcome)
	}
}
