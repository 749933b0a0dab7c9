package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shrush07/puff-n-sip-backend/configs"
	"github.com/shrush07/puff-n-sip-backend/internal/auth"
	"github.com/shrush07/puff-n-sip-backend/internal/cache"
	"github.com/shrush07/puff-n-sip-backend/internal/catalog"
	"github.com/shrush07/puff-n-sip-backend/internal/events"
	httpapi "github.com/shrush07/puff-n-sip-backend/internal/http"
	"github.com/shrush07/puff-n-sip-backend/internal/logging"
	"github.com/shrush07/puff-n-sip-backend/internal/payment"
	"github.com/shrush07/puff-n-sip-backend/internal/reporting"
	"github.com/shrush07/puff-n-sip-backend/internal/repository"
	"github.com/shrush07/puff-n-sip-backend/internal/service"
)

func main() {
	configDir := getEnv("PUFFNSIP_CONFIG_DIR", "./configs")
	envName := getEnv("PUFFNSIP_ENV", "dev")

	cfg, err := configs.Load(configDir, envName)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logging.Init(cfg.App.Name, cfg.App.LogFile, parseLevel(cfg.App.LogLevel))

	ctx := context.Background()
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	log.Info("connected to MongoDB", "uri", cfg.Mongo.URI)

	cartRepo := repository.NewMongoCartRepository(mongoDB)
	orderRepo := repository.NewMongoOrderRepository(mongoDB)
	if err := cartRepo.EnsureIndexes(ctx); err != nil {
		log.Error("failed to create cart indexes", "error", err)
		os.Exit(1)
	}
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Error("failed to create order indexes", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis", "addr", cfg.Redis.Addr)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		defer kp.Close()
		publisher = kp
		log.Info("kafka publisher enabled", "topic", cfg.Kafka.OrdersTopic)
	}

	cartCache := cache.NewRedisCache(redisClient, cfg.Redis.CartTTL)
	cat := catalog.NewMongoCatalog(mongoDB)

	cartSvc := service.NewCartService(cartRepo, cat, cartCache, logging.New("cart"))
	orderSvc := service.NewOrderService(orderRepo, cartRepo, cfg.Payment.Currency, logging.New("orders"))
	bridge := service.NewPaymentBridge(payment.StubProvider{}, orderSvc, publisher, cfg.Payment.MinCharge, cfg.Payment.Currency, logging.New("payments"))
	reports := reporting.NewService(mongoDB)

	verifier := auth.NewVerifier(cfg.Security.JWTSecret)

	router := httpapi.NewRouter(
		verifier,
		cfg.HTTP.RequestTimeout,
		httpapi.NewCartHandler(cartSvc),
		httpapi.NewOrderHandler(orderSvc, bridge),
		httpapi.NewAdminHandler(reports),
	)

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("server starting", "addr", cfg.App.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	if err := mongoDB.Client().Disconnect(shutdownCtx); err != nil {
		log.Error("mongo disconnect error", "error", err)
	}
	log.Info("stopped")
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
