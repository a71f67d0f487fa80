package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/learnhub/backend/docs"
	"github.com/learnhub/backend/internal/access"
	"github.com/learnhub/backend/internal/cache"
	"github.com/learnhub/backend/internal/handlers"
	"github.com/learnhub/backend/internal/models"
	"github.com/learnhub/backend/internal/payments"
	"github.com/learnhub/backend/internal/repositories"
	"github.com/learnhub/backend/internal/services"
	"github.com/learnhub/backend/libs/auth/middleware"
	"github.com/learnhub/backend/libs/auth/service"
	"github.com/learnhub/backend/libs/config"
	"github.com/learnhub/backend/libs/logger"
	loggerMiddleware "github.com/learnhub/backend/libs/logger/middleware"
	sharedMiddleware "github.com/learnhub/backend/libs/middlewares"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title LearnHub API
// @version 1.0
// @description API for courses, enrollment, payments and lesson progress

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting LearnHub API")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Course list cache, Redis is optional
	var courseCache services.CourseListCache = cache.NoopCourseListCache{}
	if cfg.Redis.Host != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Logger.Warn("Redis unavailable, course list cache reads will fall through", zap.Error(err))
		}
		cancel()
		courseCache = cache.NewCourseListCache(redisClient, cfg.Cache.CourseListTTL)
	}

	// Initialize JWT token generator
	tokenGenerator := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize payment gateway
	gateway := payments.NewRazorpayClient(payments.Config{
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
		BaseURL:   cfg.Razorpay.BaseURL,
		Timeout:   cfg.Razorpay.Timeout,
	})

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	courseRepo := repositories.NewCourseRepository(db)
	moduleRepo := repositories.NewModuleRepository(db)
	lessonRepo := repositories.NewLessonRepository(db)
	enrollmentRepo := repositories.NewEnrollmentRepository(db)
	completionRepo := repositories.NewLessonCompletionRepository(db)
	orderRepo := repositories.NewPaymentOrderRepository(db, logger.Logger)

	// Initialize services
	lessonPolicy := access.NewPolicy(lessonRepo, enrollmentRepo)
	authService := services.NewAuthService(userRepo, tokenGenerator, logger.Logger)
	profileService := services.NewProfileService(userRepo, logger.Logger)
	adminService := services.NewAdminService(userRepo, logger.Logger)
	courseService := services.NewCourseService(courseRepo, moduleRepo, lessonRepo, enrollmentRepo, courseCache, logger.Logger)
	moduleService := services.NewModuleService(courseRepo, moduleRepo, lessonRepo, logger.Logger)
	lessonService := services.NewLessonService(courseRepo, moduleRepo, lessonRepo, lessonPolicy, logger.Logger)
	enrollmentService := services.NewEnrollmentService(courseRepo, enrollmentRepo, orderRepo, gateway, logger.Logger)
	progressService := services.NewProgressService(lessonRepo, completionRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger, cfg.Server.SecureCookies)
	profileHandler := handlers.NewProfileHandler(profileService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger.Logger)
	courseHandler := handlers.NewCourseHandler(courseService, enrollmentService, logger.Logger)
	moduleHandler := handlers.NewModuleHandler(moduleService, logger.Logger)
	lessonHandler := handlers.NewLessonHandler(lessonService, progressService, logger.Logger)

	// Initialize auth middleware
	authMiddleware := middleware.AuthMiddleware(tokenGenerator)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(tokenGenerator)
	adminMiddleware := middleware.RoleMiddleware(int(models.RoleAdmin))

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chiMiddleware.StripSlashes)
	r.Use(sharedMiddleware.RequestIDMiddleware)
	r.Use(loggerMiddleware.LoggerMiddleware(logger.Logger))
	r.Use(sharedMiddleware.RecoveryMiddleware(logger.Logger))
	r.Use(sharedMiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(sharedMiddleware.RequestSizeLimitMiddleware(1 * 1024 * 1024)) // 1MB

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api", func(r chi.Router) {
		authHandler.RegisterRoutes(r)
		profileHandler.RegisterRoutes(r, authMiddleware)
		courseHandler.RegisterRoutes(r, authMiddleware, optionalAuthMiddleware)
		moduleHandler.RegisterRoutes(r, authMiddleware)
		lessonHandler.RegisterRoutes(r, authMiddleware)
		// Register admin routes with role middleware
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)
			adminHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "learnhub_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		// Running from cmd/api
		if _, err := os.Stat("../../migrations"); err == nil {
			migrationPath = "file://../../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
