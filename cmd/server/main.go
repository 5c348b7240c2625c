package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"testgen/internal/cache"
	"testgen/internal/config"
	"testgen/internal/firestore"
	"testgen/internal/platform/logger"
	"testgen/internal/repository"
	"testgen/internal/service"
	"testgen/internal/transport/rest"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	if cfg.FirebaseProjectID == "" {
		log.Fatal("FIREBASE_PROJECT_ID is required")
	}

	// Load AI config and log model settings
	aiConfig := config.DefaultAIConfig()
	if aiConfig.IsEnabled() {
		log.Info("AI generation configured", "provider", aiConfig.Provider, "model", aiConfig.Model, "endpoint", aiConfig.ModelEndpoint())
	} else {
		log.Warn("AI API key not set, tests will use sample questions", "provider", aiConfig.Provider)
	}

	store := firestore.NewClient(firestore.Config{
		ProjectID: cfg.FirebaseProjectID,
		BaseURL:   cfg.FirestoreBaseURL,
		Timeout:   cfg.StoreTimeout,
	}, log)

	// MongoDB connection (generation history)
	var runRepo repository.GenerationRunRepo = repository.NopGenerationRunRepo{}
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", "error", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatal("failed to ping MongoDB", "error", err)
		}
		log.Info("connected to MongoDB", "database", cfg.MongoDatabase)
		runRepo = repository.NewGenerationRunRepo(mongoClient.Database(cfg.MongoDatabase))
	} else {
		log.Warn("MONGO_URI not set, generation history disabled")
	}

	// Redis connection (export cache)
	var exportCache cache.ExportCache = cache.NopExportCache{}
	if cfg.RedisURI != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: strings.TrimPrefix(cfg.RedisURI, "redis://"),
		})
		defer rdb.Close()

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("failed to ping Redis", "error", err)
		}
		log.Info("connected to Redis")
		exportCache = cache.NewExportCache(rdb)
	} else {
		log.Warn("REDIS_URI not set, export cache disabled")
	}

	// Initialize repositories
	coreValueRepo := repository.NewCoreValueRepo(store, log)
	testRepo := repository.NewTestRepo(store, log)

	// Initialize services
	validate := validator.New()
	verifier := service.NewTokenVerifier(cfg.FirebaseProjectID, cfg.FirebaseJWKSURL, cfg.StoreTimeout)
	authSvc := service.NewAuthService(cfg.IdentityBaseURL, cfg.FirebaseAPIKey, cfg.StoreTimeout, verifier, log)
	generatorSvc := service.NewGeneratorService(aiConfig, service.NewTextGenerator(aiConfig), log)
	coreValueSvc := service.NewCoreValueService(coreValueRepo, validate, log)
	testSvc := service.NewTestService(coreValueRepo, testRepo, runRepo, exportCache, generatorSvc, validate, log)

	if cfg.FirebaseAPIKey == "" {
		log.Warn("FIREBASE_API_KEY not set, login is disabled")
	}
	if cfg.FirebaseProjectID == "" {
		log.Warn("FIREBASE_PROJECT_ID not set, user routes will reject every token")
	}

	router := rest.NewRouter(&rest.Container{
		AuthService:      authSvc,
		CoreValueService: coreValueSvc,
		TestService:      testSvc,
		Validate:         validate,
		Log:              log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "project", cfg.FirebaseProjectID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe failed", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	log.Info("server exited")
}
