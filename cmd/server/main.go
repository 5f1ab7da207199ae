package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"alcyxob/fitcrm/internal/api"
	"alcyxob/fitcrm/internal/config"
	"alcyxob/fitcrm/internal/repository"
	fileslot "alcyxob/fitcrm/internal/repository/file"
	mongoslot "alcyxob/fitcrm/internal/repository/mongo"
	sqliteslot "alcyxob/fitcrm/internal/repository/sqlite"
	"alcyxob/fitcrm/internal/service"
	"alcyxob/fitcrm/internal/storage"
)

func main() {
	log.Println("Starting FitCRM server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Collection Slot ---
	slot, closeSlot, err := openSlot(cfg)
	if err != nil {
		log.Fatalf("FATAL: Could not initialize %q storage backend: %v", cfg.Storage.Backend, err)
	}
	defer closeSlot()
	log.Printf("Storage backend %q ready.", cfg.Storage.Backend)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	clientService := service.NewClientService(slot)
	suggestionService := service.NewSuggestionService(cfg.Suggestions.CatalogURL, cfg.Suggestions.PageLimit)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, clientService, suggestionService, cfg.Suggestions.SampleSize)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// openSlot builds the configured CollectionSlot backend. The returned
// close function releases whatever the backend holds open.
func openSlot(cfg config.Config) (repository.CollectionSlot, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case "file":
		slot, err := fileslot.NewFileSlot(cfg.Storage.FilePath)
		if err != nil {
			return nil, noop, err
		}
		return slot, noop, nil

	case "sqlite":
		db, err := sqliteslot.Open(cfg.Storage.DBPath)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := db.Close(); err != nil {
				log.Printf("ERROR: Failed to close sqlite database: %v", err)
			}
		}
		return sqliteslot.NewSQLiteSlot(db, repository.SlotName), closeFn, nil

	case "mongo":
		dbClient, err := mongoslot.ConnectDB(cfg.Storage.MongoURI)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongoslot.DisconnectDB(dbClient); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}
		appDB := dbClient.Database(cfg.Storage.MongoDB)
		return mongoslot.NewMongoSlot(appDB, repository.SlotName), closeFn, nil

	case "s3":
		slot, err := storage.NewS3Slot(cfg.S3, repository.SlotName+".json")
		if err != nil {
			return nil, noop, err
		}
		return slot, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
