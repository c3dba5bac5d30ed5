package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	redisCache "github.com/nyius/HouseMarketplace/internal/adapter/cache/redis"
	"github.com/nyius/HouseMarketplace/internal/adapter/geocode"
	httpAdapter "github.com/nyius/HouseMarketplace/internal/adapter/http"
	mongoAdapter "github.com/nyius/HouseMarketplace/internal/adapter/mongo"
	natsAdapter "github.com/nyius/HouseMarketplace/internal/adapter/nats"
	minioStorage "github.com/nyius/HouseMarketplace/internal/adapter/storage/minio"
	"github.com/nyius/HouseMarketplace/internal/config"
	"github.com/nyius/HouseMarketplace/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	configPath := "config.yaml"
	if cp := os.Getenv("CONFIG_PATH"); cp != "" {
		configPath = cp
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()

	mongoClient, err := mongoAdapter.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	logger.Info("Successfully connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	listingRepo := mongoAdapter.NewListingMongoRepository(mongoClient, cfg.Mongo.Database)
	userRepo := mongoAdapter.NewUserMongoRepository(mongoClient, cfg.Mongo.Database)

	redisClient, err := redisCache.NewRedisClient(&cfg.Redis, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheRepo := redisCache.NewRedisCacheRepository(redisClient, logger)

	publisher, err := natsAdapter.NewNATSPublisher(&cfg.NATS, logger)
	if err != nil {
		logger.Fatal("Failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	fileStorage, err := minioStorage.NewMinioStorage(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.Bucket,
		cfg.Storage.UseSSL,
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to initialize file storage", zap.Error(err))
	}

	geocoder := geocode.NewGoogleGeocoder(cfg.Geocoder.BaseURL, cfg.Geocoder.APIKey, cfg.Geocoder.Timeout, logger)

	reader := usecase.NewListingReader(listingRepo, logger)
	pipeline := usecase.NewSubmissionPipeline(listingRepo, userRepo, fileStorage, geocoder, publisher, cacheRepo, logger)
	listingUC := usecase.NewListingUseCase(listingRepo, publisher, cacheRepo, logger)
	userUC := usecase.NewUserUseCase(userRepo, logger)

	handlers := httpAdapter.NewHandlers(reader, pipeline, listingUC, userUC, logger)
	router := httpAdapter.NewRouter(handlers, cfg.JWT.Secret, logger)

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
}
