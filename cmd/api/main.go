package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mehdi-Zafar/job-portal-app/internal/app"
	"github.com/Mehdi-Zafar/job-portal-app/internal/config"
	"github.com/Mehdi-Zafar/job-portal-app/internal/database"
	apphttp "github.com/Mehdi-Zafar/job-portal-app/internal/http"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/handlers"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/metrics"
	httpmw "github.com/Mehdi-Zafar/job-portal-app/internal/http/middleware"
	"github.com/Mehdi-Zafar/job-portal-app/internal/http/response"
	"github.com/Mehdi-Zafar/job-portal-app/internal/notification"
	"github.com/Mehdi-Zafar/job-portal-app/internal/observability"
	"github.com/Mehdi-Zafar/job-portal-app/internal/repository/postgres"
	"github.com/Mehdi-Zafar/job-portal-app/internal/security"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	httpmw.SetLogger(logger)

	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancelMigrate()
		log.Fatal(err)
	}
	cancelMigrate()

	userRepo := postgres.NewUserRepository(db)
	refreshRepo := postgres.NewRefreshTokenRepository(db)
	applicantRepo := postgres.NewApplicantProfileRepository(db)
	employerRepo := postgres.NewEmployerProfileRepository(db)
	jobRepo := postgres.NewJobRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	events := notification.NewLogSink(logger)

	authService := app.NewAuthService(userRepo, refreshRepo, jwtProvider, events, cfg.BcryptCost, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := app.NewUserService(userRepo, events)
	profileService := app.NewProfileService(applicantRepo, employerRepo, events)
	jobService := app.NewJobService(jobRepo, employerRepo, events)
	applicationService := app.NewApplicationService(applicationRepo, jobRepo, applicantRepo, employerRepo, events, logger)

	var rateLimiter httpmw.Limiter = httpmw.NewRateLimiter()
	if cfg.RedisAddr != "" {
		rateLimiter = httpmw.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	authHandler := handlers.NewAuthHandler(authService, rateLimiter)
	userHandler := handlers.NewUserHandler(userService)
	profileHandler := handlers.NewProfileHandler(profileService)
	jobHandler := handlers.NewJobHandler(jobService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, rateLimiter)
	middleware := httpmw.NewAuthMiddleware(jwtProvider)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		ProfileHandler:     profileHandler,
		JobHandler:         jobHandler,
		ApplicationHandler: applicationHandler,
		MetricsHandler:     handlers.NewMetricsHandler(collector),
		AuthMiddleware:     middleware,
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
