package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/insightcrew/relata/internal/adapter/handler"
	"github.com/insightcrew/relata/internal/adapter/repository"
	"github.com/insightcrew/relata/internal/infrastructure/cache"
	"github.com/insightcrew/relata/internal/infrastructure/database"
	"github.com/insightcrew/relata/internal/infrastructure/storage"
	aiusecase "github.com/insightcrew/relata/internal/usecase/ai"
	"github.com/insightcrew/relata/internal/usecase/brief"
	"github.com/insightcrew/relata/internal/usecase/identity"
	"github.com/insightcrew/relata/internal/usecase/transcript"
	pkgai "github.com/insightcrew/relata/pkg/ai"
	"github.com/insightcrew/relata/pkg/config"
	"github.com/insightcrew/relata/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("🔄 Starting relata analysis service",
		zap.String("environment", cfg.Server.Environment))

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		logger.Fatal("❌ Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)
	logger.Info("✅ Database connected")

	// Brief store backend; Redis when configured, in-process otherwise.
	var briefStore brief.Store
	if cfg.Brief.Backend == "redis" {
		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("❌ Failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		briefStore = cache.NewRedisBriefStore(redisClient)
		logger.Info("✅ Redis connected, briefs cached in redis")
	} else {
		briefStore = brief.NewMemoryStore()
		logger.Info("✅ Briefs cached in memory")
	}

	var archive *storage.TranscriptArchive
	if cfg.Storage.Enabled {
		archive, err = storage.NewTranscriptArchive(&cfg.Storage)
		if err != nil {
			// Archival is optional; run without it rather than failing.
			logger.Warn("⚠️ Object storage unavailable, transcripts will not be archived", zap.Error(err))
			archive = nil
		} else {
			logger.Info("✅ Object storage connected", zap.String("bucket", cfg.Storage.BucketName))
		}
	}

	// AI providers and orchestration.
	onDevice := pkgai.NewOnDeviceClient(&cfg.AI)
	cloud := pkgai.NewCloudClient(&cfg.AI)
	factory := aiusecase.NewFactory(onDevice, cloud, &cfg.AI, logger)
	orchestrator := aiusecase.NewOrchestrator(factory, &cfg.AI, logger, func(notice aiusecase.FallbackNotice) {
		logger.Warn("⚠️ AI provider fallback",
			zap.String("from", notice.Primary),
			zap.String("to", notice.Fallback),
			zap.String("reason", notice.Reason))
	})

	personRepo := repository.NewPersonRepository(db)
	conversationRepo := repository.NewConversationRepository(db)

	resolver := identity.NewResolver(personRepo, logger)
	extractor := transcript.NewExtractor(orchestrator, resolver, cfg.AI.CurrentUserName, logger)

	briefCache := brief.NewCache(briefStore, cfg.Brief.TTL, logger)
	briefService := brief.NewService(briefCache, orchestrator, personRepo, conversationRepo, cfg.AI.BriefPrompt, logger)

	jwtManager := jwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)

	analysisHandler := handler.NewAnalysisHandler(orchestrator, extractor, personRepo, conversationRepo, archive, logger)
	briefHandler := handler.NewBriefHandler(briefService, logger)

	e := handler.NewRouter(cfg, jwtManager, analysisHandler, briefHandler)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("🚀 Server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🔄 Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("❌ Forced shutdown", zap.Error(err))
	}
	logger.Info("✅ Server exited")
}
