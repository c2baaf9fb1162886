package main

import (
	"context"
	"log"
	"time"

	"github.com/CareConnect-Health/care-service/internal/activity"
	"github.com/CareConnect-Health/care-service/internal/carelink"
	"github.com/CareConnect-Health/care-service/internal/db"
	"github.com/CareConnect-Health/care-service/internal/detector"
	"github.com/CareConnect-Health/care-service/internal/medication"
	"github.com/CareConnect-Health/care-service/internal/messaging"
	"github.com/CareConnect-Health/care-service/internal/notification"
	"github.com/CareConnect-Health/care-service/internal/task"
	"github.com/CareConnect-Health/care-service/internal/telemetry"
	"github.com/CareConnect-Health/care-service/internal/users"
)

func main() {
	log.Println("Missed-Dose Detector Job - Starting")

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: metrics disabled: %v", err)
		metrics = nil
	}

	// Event publisher is optional; notifications still land in the database
	publisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: event publishing disabled: %v", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	var eventPublisher messaging.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	userRepo := users.NewRepository(database, eventPublisher)
	linkRepo := carelink.NewRepository(database, eventPublisher)
	notifier := notification.NewService(notification.NewRepository(database), userRepo, linkRepo, eventPublisher, metrics)

	d := detector.New(
		medication.NewRepository(database),
		task.NewRepository(database),
		activity.NewRepository(database),
		userRepo,
		notifier,
		metrics,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := d.Run(ctx, time.Now()); err != nil {
		log.Fatalf("Detection sweep failed: %v", err)
	}

	log.Println("✓ Detection sweep completed")
	log.Println("Missed-Dose Detector Job - Finished")
}
