package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/broker"
	"storefront-service/internal/cart"
	"storefront-service/internal/checkout"
	"storefront-service/internal/ledger"
	"storefront-service/internal/service"
	"storefront-service/internal/store"
	"storefront-service/internal/uploads"
	"storefront-service/internal/util"
	"storefront-service/internal/worker"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting storefront service")

	tp, err := util.InitTracer("storefront-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	carts, err := cart.NewManager(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.CartTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer carts.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	ctx := context.Background()

	var gcpOpts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		gcpOpts = append(gcpOpts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}

	// Auth and object storage are best-effort at startup: the
	// storefront still serves reads without them, admin writes and
	// uploads fail with a clear error instead.
	var authClient *fbauth.Client
	if cfg.Firebase.ProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, gcpOpts...)
		if err != nil {
			log.Printf("Firebase init failed, admin auth disabled: %v", err)
		} else if authClient, err = app.Auth(ctx); err != nil {
			log.Printf("Firebase auth init failed, admin auth disabled: %v", err)
		} else {
			log.Println("Firebase auth initialized")
		}
	}

	gcsClient, err := storage.NewClient(ctx, gcpOpts...)
	if err != nil {
		log.Printf("GCS init failed, uploads disabled: %v", err)
	}
	uploader := uploads.NewUploader(gcsClient, cfg.Storage.Bucket, cfg.Storage.MaxImageBytes, cfg.Storage.MaxProductFiles)

	hub := ledger.NewHub()
	catalogService := service.NewCatalogService(db)
	orderService := service.NewOrderService(db, hub, eventPublisher)
	checkoutService := checkout.New(carts, db, eventPublisher, cfg.Checkout)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	ledgerConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder, cfg.Kafka.ConsumerGroup)
	ledgerWorker := worker.NewLedgerWorker(ledgerConsumer, orderService)
	go func() {
		if err := ledgerWorker.Start(workerCtx); err != nil {
			log.Printf("Ledger worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(catalogService, orderService, checkoutService, carts, uploader, hub, authClient)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	ledgerWorker.Stop()

	log.Println("Server exited")
}
