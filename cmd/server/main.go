// @title           Hug Studio Backend API
// @version         1.0.0
// @description     Backend API for AI-generated hug images and videos. Handles photo uploads, Gemini image generation, Sora video jobs with archival into Supabase Storage, the gallery and share pages.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"hug-studio-backend/internal/config"
	"hug-studio-backend/internal/database"
	"hug-studio-backend/internal/gemini"
	"hug-studio-backend/internal/handlers"
	"hug-studio-backend/internal/lock"
	"hug-studio-backend/internal/logging"
	"hug-studio-backend/internal/middleware"
	"hug-studio-backend/internal/services"
	"hug-studio-backend/internal/sora"
	"hug-studio-backend/internal/supabase"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = time.Minute
	// check-video may download and re-upload a whole video inline.
	writeTimeout    = 5 * time.Minute
	idleTimeout     = 2 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("production").Fatal().Err(err).Msg("failed to load configuration")
	}
	logger := logging.New(cfg.Environment)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize Supabase client")
	}

	jobs, closeJobs := newJobStore(ctx, cfg, supabaseClient, logger)
	defer closeJobs()

	// Provider clients stay nil without a key so requests fail with a
	// configuration error instead of the process refusing to start.
	var generator services.ImageGenerator
	if cfg.GeminiAPIKey != "" {
		if cfg.GeminiClient == "sdk" {
			sdk, err := gemini.NewSDKGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
			if err != nil {
				logger.Fatal().Err(err).Msg("failed to initialize Gemini SDK client")
			}
			generator = sdk
		} else {
			generator = gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
		}
	} else {
		logger.Warn().Msg("GEMINI_API_KEY not set, image generation is disabled")
	}

	var provider services.VideoProvider
	if cfg.OpenAIAPIKey != "" {
		provider = sora.NewClient(cfg.SoraBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIOrgID, cfg.SoraModel)
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, video generation is disabled")
	}

	locker, closeLocker := newLocker(ctx, cfg, logger)
	defer closeLocker()

	store := supabaseClient.Storage
	uploadService := services.NewUploadService(store, cfg, logger)
	imageService := services.NewImageService(generator, store, jobs, cfg, logger)
	storageService := services.NewStorageService(provider, store, jobs, cfg, logger)
	videoService := services.NewVideoService(provider, store, jobs, storageService, locker, cfg, logger)
	galleryService := services.NewGalleryService(store, jobs, cfg, logger)

	uploadHandler := handlers.NewUploadHandler(uploadService, cfg.MaxUploadSize)
	imagesHandler := handlers.NewImagesHandler(imageService, galleryService)
	videosHandler := handlers.NewVideosHandler(videoService, galleryService)
	shareHandler := handlers.NewShareHandler(galleryService, cfg.BaseURL)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.AccessLog())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	router.GET("/health", handlers.HealthHandler)
	router.GET("/share/:id", shareHandler.SharePage)

	api := router.Group("/api")
	api.GET("/config", handlers.GetClientConfig)

	api.POST("/upload", uploadHandler.Upload)
	api.POST("/create-image", imagesHandler.CreateImage)
	api.GET("/list-images", imagesHandler.ListImages)

	api.POST("/create-video", videosHandler.CreateVideo)
	api.POST("/check-video", videosHandler.CheckVideo)
	api.POST("/download-and-store-video", videosHandler.DownloadAndStore)
	api.GET("/list-videos", videosHandler.ListVideos)

	api.GET("/pricing", handlers.GetPricing)
	api.POST("/pricing/confirm", handlers.ConfirmPricing)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// newJobStore uses direct Postgres when DATABASE_URL is set, running
// migrations first, and PostgREST otherwise.
func newJobStore(ctx context.Context, cfg *config.Config, client *supabase.Client, logger zerolog.Logger) (services.JobStore, func()) {
	if cfg.DatabaseURL == "" {
		logger.Info().Msg("DATABASE_URL not set, using PostgREST for records; migrations skipped")
		return client.Records, func() {}
	}

	migrator, err := database.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize migrator")
	} else {
		if err := migrator.Run(ctx); err != nil {
			logger.Warn().Err(err).Msg("migration failed")
		} else {
			logger.Info().Msg("migrations completed successfully")
		}
		migrator.Close()
	}

	db, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize database client, falling back to PostgREST")
		return client.Records, func() {}
	}
	return db, func() { db.Close() }
}

// newLocker returns a Redis lock when REDIS_URL is set so archive guards hold
// across instances, else an in-process one.
func newLocker(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (lock.Locker, func()) {
	if cfg.RedisURL == "" {
		return lock.NewMemoryLocker(), func() {}
	}

	rdb, err := lock.Connect(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to Redis, using in-process archive locks")
		return lock.NewMemoryLocker(), func() {}
	}
	logger.Info().Msg("using Redis archive locks")
	return lock.NewRedisLocker(rdb, logger), func() { rdb.Close() }
}
