package main

import (
	"alcyxob/routine-tracker/internal/api"
	"alcyxob/routine-tracker/internal/config"
	"alcyxob/routine-tracker/internal/logging"
	"alcyxob/routine-tracker/internal/metrics"
	"alcyxob/routine-tracker/internal/repository"
	"alcyxob/routine-tracker/internal/repository/mongo"
	"alcyxob/routine-tracker/internal/repository/sqlstore"
	"alcyxob/routine-tracker/internal/service"
	"alcyxob/routine-tracker/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

// @title Routine Tracker API
// @version 1.0
// @description API for logging workout routines, tracking progress and sharing training programs.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Log.FileName,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.WithField("environment", cfg.Server.Environment).Info("starting routine tracker server")

	// --- Repositories ---
	repos, closeRepos, err := openRepositories(cfg.Database)
	if err != nil {
		log.Fatalf("could not open %s database: %v", cfg.Database.Driver, err)
	}
	defer closeRepos()
	log.WithField("driver", cfg.Database.Driver).Info("database connection established")

	// --- Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.Enabled() {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Warn("s3.bucket_name is not set, routine video uploads are disabled")
	}

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsManager := metrics.NewManager("routine_tracker", "server", registry)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)
	deps := api.Dependencies{
		Tokens:                 tokens,
		Users:                  repos.users,
		AuthService:            service.NewAuthService(repos.users, tokens),
		UserService:            service.NewUserService(repos.users),
		RoutineService:         service.NewRoutineService(repos.routines, fileStorage),
		TrainingProgramService: service.NewTrainingProgramService(repos.users, repos.programs, repos.routines),
		ProgressService:        service.NewProgressService(repos.routines),
		Metrics:                metricsManager,
		MetricsHandler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AuthPerMinute:          cfg.Redis.AuthPerMinute,
		SecureCookies:          cfg.Server.IsProduction(),
	}

	// --- Rate limiting ---
	if cfg.Redis.Address != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("failed to close redis client: %v", err)
			}
		}()
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatalf("could not reach redis at %s: %v", cfg.Redis.Address, err)
		}
		cancelPing()
		deps.RateLimiter = redis_rate.NewLimiter(rdb)
	} else {
		log.Warn("redis.address is not set, auth endpoints are not rate limited")
	}

	// --- Router ---
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, deps)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      corsMiddleware.Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	// in-flight requests get 5 seconds to finish
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}
	log.Info("server exiting")
}

type repositories struct {
	users    repository.UserRepository
	routines repository.RoutineRepository
	programs repository.TrainingProgramRepository
}

// openRepositories connects the configured backend. The returned func releases it.
func openRepositories(cfg config.DatabaseConfig) (repositories, func(), error) {
	switch cfg.Driver {
	case "mongo":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return repositories{}, nil, err
		}
		db := client.Database(cfg.Name)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		mongo.EnsureIndexes(ctx, db)
		cancel()

		closeFn := func() {
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("failed to disconnect MongoDB: %v", err)
			}
		}
		return repositories{
			users:    mongo.NewMongoUserRepository(db),
			routines: mongo.NewMongoRoutineRepository(db),
			programs: mongo.NewMongoTrainingProgramRepository(db),
		}, closeFn, nil

	case sqlstore.DriverSQLite, sqlstore.DriverPostgres:
		dsn := cfg.URI
		if cfg.Driver == sqlstore.DriverSQLite {
			dsn = cfg.Path
		}
		database, err := sqlstore.Open(cfg.Driver, dsn)
		if err != nil {
			return repositories{}, nil, err
		}
		closeFn := func() {
			if err := sqlstore.Close(database); err != nil {
				log.Errorf("failed to close database: %v", err)
			}
		}
		return repositories{
			users:    sqlstore.NewUserRepository(database),
			routines: sqlstore.NewRoutineRepository(database),
			programs: sqlstore.NewTrainingProgramRepository(database),
		}, closeFn, nil
	}
	return repositories{}, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
