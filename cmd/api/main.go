package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/iyanu752/e-commerce-api/internal/cache"
	"github.com/iyanu752/e-commerce-api/internal/events"
	apihttp "github.com/iyanu752/e-commerce-api/internal/http"
	"github.com/iyanu752/e-commerce-api/internal/inventory"
	"github.com/iyanu752/e-commerce-api/internal/payment"
	"github.com/iyanu752/e-commerce-api/internal/repository"
	"github.com/iyanu752/e-commerce-api/internal/service"
)

type config struct {
	httpPort           string
	mongoURI           string
	mongoDBName        string
	redisAddr          string
	redisPassword      string
	kafkaBrokers       []string
	paymentSuccessRate float64
	paymentDelay       time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := loadConfig()

	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.mongoURI, cfg.mongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := repository.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.mongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.redisAddr,
		Password: cfg.redisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.kafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.kafkaBrokers...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Printf("Publishing order events to Kafka at %s", strings.Join(cfg.kafkaBrokers, ","))
	} else {
		log.Println("KAFKA_BROKERS not set, order events disabled")
	}

	products := repository.NewMongoProductRepository(mongoDB)
	carts := repository.NewMongoCartRepository(mongoDB)
	orders := repository.NewMongoOrderRepository(mongoDB)
	ledger := inventory.NewMongoLedger(mongoDB)
	catalogCache := cache.NewRedisCache(redisClient)
	gateway := payment.NewRandomGateway(cfg.paymentSuccessRate, cfg.paymentDelay)

	productService := service.NewProductService(products, catalogCache)
	cartService := service.NewCartService(carts, products)
	orderService := service.NewOrderService(orders, carts, products, ledger, catalogCache, publisher)
	checkoutService := service.NewCheckoutService(orders, products, ledger, gateway, catalogCache, publisher)

	router := apihttp.NewRouter(
		apihttp.NewProductHandler(productService),
		apihttp.NewCartHandler(cartService),
		apihttp.NewOrderHandler(orderService),
		apihttp.NewCheckoutHandler(checkoutService),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.httpPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Storefront API listening on port %s", cfg.httpPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down storefront API...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := mongoDB.Client().Disconnect(ctx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
	log.Println("Storefront API stopped")
}

func loadConfig() config {
	successRate, err := strconv.ParseFloat(getEnv("PAYMENT_SUCCESS_RATE", "0.9"), 64)
	if err != nil || successRate < 0 || successRate > 1 {
		log.Fatalf("Invalid PAYMENT_SUCCESS_RATE: %v", getEnv("PAYMENT_SUCCESS_RATE", "0.9"))
	}
	delayMS, err := strconv.Atoi(getEnv("PAYMENT_DELAY_MS", "100"))
	if err != nil || delayMS < 0 {
		log.Fatalf("Invalid PAYMENT_DELAY_MS: %v", getEnv("PAYMENT_DELAY_MS", "100"))
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	return config{
		httpPort:           getEnv("HTTP_PORT", "8080"),
		mongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		mongoDBName:        getEnv("MONGO_DB_NAME", "storefront"),
		redisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		redisPassword:      getEnv("REDIS_PASSWORD", ""),
		kafkaBrokers:       brokers,
		paymentSuccessRate: successRate,
		paymentDelay:       time.Duration(delayMS) * time.Millisecond,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
