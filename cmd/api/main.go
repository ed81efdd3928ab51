package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xelth-com/invoiceflow/internal/config"
	"github.com/xelth-com/invoiceflow/internal/database"
	"github.com/xelth-com/invoiceflow/internal/events"
	"github.com/xelth-com/invoiceflow/internal/extract"
	"github.com/xelth-com/invoiceflow/internal/handlers"
	"github.com/xelth-com/invoiceflow/internal/imaging"
	"github.com/xelth-com/invoiceflow/internal/models"
	"github.com/xelth-com/invoiceflow/internal/orders"
	"github.com/xelth-com/invoiceflow/internal/pipeline"
	"github.com/xelth-com/invoiceflow/internal/storage"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.AuthRequired && cfg.JWTSecret == "" {
		log.Fatal("AUTH_REQUIRED is set but JWT_SECRET is empty")
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-migrate schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.SalesOrderHeader{},
		&models.SalesOrderDetail{},
		&models.Document{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Build the pipeline collaborators
	fileStore, err := storage.NewFileStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize upload storage: %v", err)
	}

	extractor, err := extract.New(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize extraction provider: %v", err)
	}
	log.Printf("🤖 Extraction provider: %s", cfg.LLM.Provider)

	bus := events.NewBus()
	store := orders.NewStore(db)
	svc := pipeline.NewService(store, fileStore, bus, extractor, imaging.NormalizeToPNG)

	// 5. Set up HTTP router
	router := handlers.NewRouter(cfg, svc, store, bus)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	if closer, ok := extractor.(interface{ Close() }); ok {
		closer.Close()
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
