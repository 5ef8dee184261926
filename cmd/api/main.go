package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"candidate-service/config"
	_ "candidate-service/docs" // Important for Swagger
	v1 "candidate-service/internal/delivery/http/v1"
	"candidate-service/internal/domain"
	"candidate-service/internal/repository/postgres"
	"candidate-service/internal/usecase"
	"candidate-service/pkg/broker"
	"candidate-service/pkg/database"
	"candidate-service/pkg/filestore"
	"candidate-service/pkg/logger"
	"candidate-service/pkg/metrics"
	"candidate-service/pkg/redis"
	"candidate-service/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// @title           Candidate Service API
// @version         1.0
// @description     Candidate profiles with change notifications for the matching pipeline.
// @host            localhost:8080
// @BasePath        /v1
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	logger.Log.Info("Starting candidate service", "port", cfg.Port, "event_delivery", cfg.EventDelivery)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Broker
	producer := broker.NewProducer(broker.Config{
		Brokers:        cfg.KafkaBrokers,
		ClientID:       cfg.KafkaClientID,
		Partitions:     cfg.KafkaTopicPartitions,
		Replication:    cfg.KafkaTopicReplication,
		PublishTimeout: cfg.KafkaPublishTimeout,
	}, logger.Log)
	defer producer.Close()

	var brokerCheck usecase.Pinger
	if len(cfg.KafkaBrokers) > 0 {
		// An unreachable broker degrades notifications, not the API
		if err := producer.Open(ctx); err != nil {
			logger.Log.Error("Kafka unavailable, change events will fail until restart", "error", err)
		} else if cfg.KafkaEnsureTopics {
			if err := producer.EnsureTopics(ctx, domain.AllTopics()...); err != nil {
				logger.Log.Warn("Failed to ensure Kafka topics", "error", err)
			}
		}
		brokerCheck = producer
	}

	// 5. Setup Download URL Cache
	var urlCache filestore.URLCache
	var cacheCheck usecase.Pinger
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, download links will not be cached", "error", err)
		} else {
			defer redisClient.Close()
			cache := redis.NewDownloadURLCache(redisClient, cfg.DownloadURLCacheTTL)
			urlCache = cache
			cacheCheck = cache
		}
	}
	fileClient := filestore.NewClient(cfg.FileServiceURL, cfg.FileServiceTimeout, urlCache, logger.Log)

	// 6. Setup Repositories
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	slotRepo := postgres.NewAssetSlotRepository(dbPool)
	outboxRepo := postgres.NewOutboxRepository(dbPool)
	txm := postgres.NewTxManager(dbPool)

	// 7. Setup UseCases
	m := metrics.New(prometheus.DefaultRegisterer)

	var stagedOutbox domain.OutboxRepository
	if cfg.UsesOutbox() {
		stagedOutbox = outboxRepo
	}
	notifier := usecase.NewChangeNotifier(producer, stagedOutbox, m, logger.Log,
		usecase.WithPublishTimeout(cfg.KafkaPublishTimeout))

	validate := validation.New()
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, txm, notifier, validate, nil)
	assetUC := usecase.NewAssetUsecase(candidateRepo, slotRepo, fileClient, txm, notifier, validate)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database": dbPool,
		"broker":   brokerCheck,
		"cache":    cacheCheck,
	})

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		CandidateUC: candidateUC,
		AssetUC:     assetUC,
		HealthUC:    healthUC,
		Metrics:     m,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.UsesOutbox() {
		relay := usecase.NewOutboxRelay(txm, outboxRepo, producer, cfg.OutboxPollInterval, cfg.OutboxBatchSize, m, logger.Log)
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}

	// Graceful Shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Server forced to shutdown", "error", err)
		}
		// Cleanup notifications outlive their request
		if err := notifier.Wait(shutdownCtx); err != nil {
			logger.Log.Warn("Pending notifications abandoned", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Server stopped with error", "error", err)
	}

	logger.Log.Info("Server exiting")
}
