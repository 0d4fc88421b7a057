package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lenteraedu/lentera-backend/internal/config"
	"github.com/lenteraedu/lentera-backend/internal/database"
	"github.com/lenteraedu/lentera-backend/internal/handler"
	"github.com/lenteraedu/lentera-backend/internal/logger"
	"github.com/lenteraedu/lentera-backend/internal/repository"
	"github.com/lenteraedu/lentera-backend/internal/router"
	"github.com/lenteraedu/lentera-backend/internal/service"
	"github.com/lenteraedu/lentera-backend/internal/validator"
	"github.com/lenteraedu/lentera-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Lentera Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	studentRepo := repository.NewStudentRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	enrollRepo := repository.NewEnrollmentRepository(pool)
	certRepo := repository.NewCertificateRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService)
	adminService := service.NewAdminService(adminRepo, authService)
	courseService := service.NewCourseService(courseRepo, quizRepo, progressRepo, log)
	quizService := service.NewQuizService(rdb, quizRepo, courseRepo, attemptRepo, log)
	enrollmentService := service.NewEnrollmentService(pool, enrollRepo, progressRepo, attemptRepo, certRepo, courseRepo, log)
	certificateService := service.NewCertificateService(rdb, attemptRepo, quizRepo, certRepo, log)
	attemptService := service.NewAttemptService(
		cfg, pool, rdb,
		quizRepo, attemptRepo, progressRepo, enrollRepo, courseRepo, studentRepo,
		certificateService, log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, studentService, adminService),
		Course:      handler.NewCourseHandler(courseService, quizService),
		Enrollment:  handler.NewEnrollmentHandler(enrollmentService),
		Attempt:     handler.NewAttemptHandler(attemptService, quizService),
		Certificate: handler.NewCertificateHandler(certificateService),
		WS:          handler.NewWSHandler(attemptService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	certificateWorker := worker.NewCertificateWorker(rdb, certificateService, log)
	go certificateWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the certificate worker and give it a moment to finish the
	// in-flight item.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
