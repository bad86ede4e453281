package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Jerry1921/mini-ecommerce-api-2/internal/repository"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/service"
	transport "github.com/Jerry1921/mini-ecommerce-api-2/internal/transport/http"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/transport/http/handler"
	"github.com/Jerry1921/mini-ecommerce-api-2/internal/transport/http/middleware"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/config"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/db"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/kafka"
	outbox "github.com/Jerry1921/mini-ecommerce-api-2/pkg/outbox/repository"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/outbox/worker"
	"github.com/Jerry1921/mini-ecommerce-api-2/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found, using system envs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "shop-api", cfg.Env)
	if err != nil {
		log.Fatalf("Error init tracer: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: "info",
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("error creating postgres pool: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("error creating kafka producer: %v", err)
	}

	userRepo := repository.NewUserRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	outboxRepo := outbox.NewOutboxRepository(pool, logger)

	outboxProcessor := worker.NewOutboxProcessor(pool, outboxRepo, kafkaProducer, logger)
	go outboxProcessor.Start(ctx)

	authService := service.NewAuthService(userRepo, cartRepo, pool, logger, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	productService := service.NewCachedProductService(
		service.NewProductService(productRepo, logger),
		redisClient,
		cfg.Cache.ProductTTL,
		logger,
	)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		productRepo,
		outboxRepo,
		pool,
		cfg.Kafka.Topic,
		logger,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	httpMetrics := middleware.NewHTTPMetrics(reg)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
			Registry: reg,
		}))
		log.Printf("Metrics server is listening on %s", cfg.Metrics.Port)

		if err := http.ListenAndServe(cfg.Metrics.Port, mux); err != nil {
			log.Printf("Metrics serving failed: %v", err)
		}
	}()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.Timeout,
	})

	app.Use(otelfiber.Middleware())
	app.Use(httpMetrics.Handler())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Limiter.RPC,
		Expiration: cfg.Limiter.TTL,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	handlers := &transport.Handlers{
		Auth:    handler.NewAuthHandler(authService, logger),
		Product: handler.NewProductHandler(productService, logger),
		Cart:    handler.NewCartHandler(cartService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
	}

	transport.RegisterRoutes(app, handlers, cfg.Auth.Secret)

	go func() {
		logger.Info("HTTP server listening", zap.String("port", cfg.HTTP.Port))
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP: %v", err)
	}

	if err := kafkaProducer.Close(); err != nil {
		log.Printf("Kafka close error: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}

	pool.Close()

	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error closing telemetry: %v", err)
	}
}
