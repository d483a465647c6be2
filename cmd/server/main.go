package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ibtsamraza/psychometric-analysis/internal/agent"
	"github.com/ibtsamraza/psychometric-analysis/internal/cache"
	"github.com/ibtsamraza/psychometric-analysis/internal/classifier"
	"github.com/ibtsamraza/psychometric-analysis/internal/config"
	"github.com/ibtsamraza/psychometric-analysis/internal/repository"
	"github.com/ibtsamraza/psychometric-analysis/internal/service"
	"github.com/ibtsamraza/psychometric-analysis/internal/session"
	"github.com/ibtsamraza/psychometric-analysis/internal/transport/rest"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	logger.Info("AI config",
		zap.String("generate", cfg.AI.Models.Generate),
		zap.String("completeness", cfg.AI.Models.Completeness),
		zap.String("judge", cfg.AI.Models.Judge),
		zap.String("correlate", cfg.AI.Models.Correlate),
		zap.String("items", cfg.AI.Models.Items),
		zap.Bool("apiKeyConfigured", cfg.AI.IsEnabled()))
	if !cfg.AI.IsEnabled() {
		logger.Warn("GEMINI_API_KEY not set, serving mock narratives")
	}

	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		logger.Fatal("ping MongoDB", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		logger.Fatal("ping Redis", zap.Error(err))
	}
	logger.Info("connected to Redis")

	// Core wiring
	sessions := session.NewStore()
	reportRepo := repository.NewReportRepo(db)
	reportCache := cache.NewReportCache(rdb)

	generator := service.NewGeneratorService(&cfg.AI, logger)
	orchestrator := agent.NewOrchestrator(generator, sessions, classifier.CorrelatedDomains, cfg.GateRetryBudget, logger)

	authSvc := service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret)
	analysisSvc := service.NewAnalysisService(orchestrator, sessions, reportRepo, reportCache, logger)

	router := rest.NewRouter(&rest.Container{
		AuthService:     authSvc,
		AnalysisService: analysisSvc,
		Sessions:        sessions,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen and serve", zap.Error(err))
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
