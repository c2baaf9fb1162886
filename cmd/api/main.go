package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/db"
	carehttp "github.com/CareConnect-Health/care-service/internal/http"
	"github.com/CareConnect-Health/care-service/internal/messaging"
	"github.com/CareConnect-Health/care-service/internal/storage"
	"github.com/CareConnect-Health/care-service/internal/telemetry"
)

func main() {
	log.Println("care-service starting")

	ctx := context.Background()

	// Telemetry is optional; the service runs without a collector
	provider, err := telemetry.InitProvider(ctx, telemetry.LoadConfig())
	if err != nil {
		log.Printf("Warning: telemetry disabled: %v", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Printf("Warning: telemetry shutdown: %v", err)
			}
		}()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: metrics disabled: %v", err)
		metrics = nil
	}

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("✓ Database connected")

	// Role permissions
	permsPath := os.Getenv("PERMISSIONS_FILE")
	if permsPath == "" {
		permsPath = "permissions.yml"
	}
	perms, err := auth.LoadPermissions(permsPath)
	if err != nil {
		log.Fatalf("Failed to load permissions from %s: %v", permsPath, err)
	}
	log.Printf("✓ Permissions loaded for %d roles", len(perms))

	// Keycloak JWKS with background refresh
	authCfg := auth.LoadConfig()
	jwks, err := auth.NewJWKS(authCfg.JWKSURL, 15*time.Minute)
	if err != nil {
		log.Fatalf("Failed to fetch JWKS: %v", err)
	}
	defer jwks.Close()
	verifier := auth.NewVerifier(authCfg, jwks)
	log.Println("✓ Token verifier ready")

	// Event publisher is optional; the service degrades to logging only
	publisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: event publishing disabled: %v", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Avatar blob storage
	avatars, err := storage.NewAvatarStore(ctx, os.Getenv("GCS_AVATAR_BUCKET"))
	if err != nil {
		log.Fatalf("Failed to initialize avatar storage: %v", err)
	}
	defer avatars.Close()

	var eventPublisher messaging.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	router := carehttp.SetupRouter(database, verifier, perms, eventPublisher, avatars, metrics)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      carehttp.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("✓ care-service listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	log.Println("care-service stopped")
}
