package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/upright/escrow/pkg/auth"
	"github.com/upright/escrow/pkg/escrow"
	"github.com/upright/escrow/pkg/handlers"
	"github.com/upright/escrow/pkg/kvstore"
	dydbstore "github.com/upright/escrow/pkg/kvstore/dynamodb"
	"github.com/upright/escrow/pkg/metrics"
	"github.com/upright/escrow/pkg/middleware"
	"github.com/upright/escrow/pkg/notify"
	"github.com/upright/escrow/pkg/payments"
	"github.com/upright/escrow/pkg/storage"
)

// paymentDelay is how long the simulated funding step takes.
const paymentDelay = 1500 * time.Millisecond

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	metrics.Init()

	// Persisted store backend.
	blobs, err := newBlobStore()
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}
	store := storage.NewKV(blobs)

	// Mail gateway and dispatcher.
	notifier, err := newNotifier(logger)
	if err != nil {
		log.Fatalf("failed to initialize mail gateway: %v", err)
	}

	engine := escrow.New(store, notifier, logger)
	authSvc := auth.New(store, store)
	handler := handlers.NewApiHandler(engine, authSvc, &payments.Simulator{Delay: paymentDelay})

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.Recoverer)
	router.Use(middleware.NewStructuredLogger(logger))

	handler.Routes(router)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newBlobStore picks the persisted store backend from STORE_BACKEND:
// "dynamodb" for the shared table, anything else for local files.
func newBlobStore() (kvstore.Store, error) {
	switch os.Getenv("STORE_BACKEND") {
	case "dynamodb":
		tableName := os.Getenv("DYNAMODB_STORE_TABLE_NAME")
		if tableName == "" {
			log.Fatal("DYNAMODB_STORE_TABLE_NAME environment variable not set")
		}
		cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, err
		}
		return dydbstore.New(dynamodb.NewFromConfig(cfg), tableName), nil
	default:
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		return kvstore.NewFileStore(dataDir)
	}
}

// newNotifier picks the mail gateway from MAIL_BACKEND: "sqs" queues emails
// for the notifier Lambda, "relay" posts straight to the mail-relay function,
// and anything else disables mail entirely.
func newNotifier(logger *slog.Logger) (notify.Notifier, error) {
	switch os.Getenv("MAIL_BACKEND") {
	case "sqs":
		queueURL := os.Getenv("MAIL_QUEUE_URL")
		if queueURL == "" {
			log.Fatal("MAIL_QUEUE_URL environment variable not set")
		}
		cfg, err := awsconfig.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, err
		}
		return notify.NewDispatcher(notify.NewSQSGateway(sqs.NewFromConfig(cfg), queueURL), logger), nil
	case "relay":
		endpoint := os.Getenv("MAIL_RELAY_URL")
		if endpoint == "" {
			log.Fatal("MAIL_RELAY_URL environment variable not set")
		}
		return notify.NewDispatcher(notify.NewHTTPRelay(endpoint, os.Getenv("MAIL_RELAY_API_KEY")), logger), nil
	default:
		log.Println("MAIL_BACKEND not set, notifications disabled")
		return notify.NoOpNotifier{}, nil
	}
}
