package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stayhost/internal/config"
	"stayhost/internal/handler"
	"stayhost/internal/logger"
	"stayhost/internal/media"
	"stayhost/internal/middleware"
	"stayhost/internal/repository"
	"stayhost/internal/service"
	"stayhost/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceName = "stayhost"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		// The logger depends on config, so fall back to a bare one here.
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, ServiceName: serviceName})
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if logger.IsProduction(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	// Ensure the transient download directory exists
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Fatal("Failed to create uploads directory", zap.String("dir", cfg.UploadsDir), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DSN(), log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	if err := config.RunMigrations(ctx, dbPool); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// --- Object Storage ---
	store, err := media.NewS3Store(ctx, media.S3Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBaseURL,
		UsePathStyle:  cfg.S3UsePathStyle,
	})
	if err != nil {
		log.Fatal("Failed to initialize object store", zap.Error(err))
	}
	fetcher := media.NewFetcher(&http.Client{Timeout: cfg.FetchTimeout}, cfg.UploadsDir, cfg.MaxFetchBytes)

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, cfg.TokenTTL)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	listingRepo := repository.NewListingRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, log)
	listingService := service.NewListingService(listingRepo)
	mediaService := service.NewMediaService(store, fetcher, cfg.S3Folder, cfg.MaxUploadFiles, log)

	// --- Setup Gin Router ---
	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: cfg.Origins(),
		Cookies:        handler.CookieConfig{Secure: cfg.CookieSecure, SameSite: cfg.SameSite()},
		JWT:            jwtUtil,
		Log:            log,
		Metrics:        middleware.NewHTTPMetrics(),
		DB:             dbPool,
		Auth:           authService,
		Listings:       listingService,
		Media:          mediaService,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
}
