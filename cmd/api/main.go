package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/arjunks/vendora/internal/cache"
	"github.com/arjunks/vendora/internal/config"
	httphandler "github.com/arjunks/vendora/internal/delivery/http"
	"github.com/arjunks/vendora/internal/delivery/kafka"
	"github.com/arjunks/vendora/internal/repository"
	"github.com/arjunks/vendora/internal/usecase"
)

func main() {
	cfg := config.Load()

	pool, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(pool, "db/migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := repository.New(pool)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()

	couponCache := cache.NewCouponCache(rdb, cfg.CacheTTL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sink usecase.ReportSink
	var producerClient *kgo.Client
	var consumerClient *kgo.Client

	if cfg.EventDrivenEnabled == "true" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")

		producerClient, err = kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.ClientID(cfg.KafkaClientID),
		)
		if err != nil {
			log.Fatalf("Failed to create kafka producer: %v", err)
		}

		if err := kafka.EnsureTopics(ctx, producerClient, cfg); err != nil {
			log.Printf("Warning: failed to ensure topics: %v", err)
		}

		consumerClient, err = kgo.NewClient(
			kgo.SeedBrokers(brokers...),
			kgo.ClientID(cfg.KafkaClientID+"-reporting"),
			kgo.ConsumerGroup(cfg.KafkaGroupID),
			kgo.ConsumeTopics(kafka.TopicOrderPlaced, kafka.TopicOrderStatus),
			kgo.DisableAutoCommit(),
		)
		if err != nil {
			log.Fatalf("Failed to create kafka consumer: %v", err)
		}

		sink = kafka.NewPublisher(producerClient)

		consumer := kafka.NewConsumer(consumerClient, store)
		go consumer.Start(ctx)
	} else {
		sink = kafka.NewDirectSink(store)
	}

	resolver := usecase.NewOfferResolver(store)
	coupons := usecase.NewCouponService(store, couponCache)
	pricing := usecase.NewPricingEngine(resolver, coupons)
	carts := usecase.NewCartService(store, store, pricing, coupons)
	checkout := usecase.NewCheckoutService(store, resolver, coupons, sink)
	offers := usecase.NewOfferService(store)
	orders := usecase.NewOrderService(store, sink)
	wallets := usecase.NewWalletService(store)

	handler := httphandler.NewHandler(carts, checkout, coupons, offers, orders, wallets)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler.Routes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on port %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	if producerClient != nil {
		producerClient.Close()
	}
	if consumerClient != nil {
		consumerClient.Close()
	}

	wg.Wait()
	log.Println("Shutdown complete")
}

func initDB(cfg *config.Config) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}
