package http

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/CareConnect-Health/care-service/internal/activity"
	"github.com/CareConnect-Health/care-service/internal/alert"
	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/CareConnect-Health/care-service/internal/carelink"
	"github.com/CareConnect-Health/care-service/internal/medication"
	"github.com/CareConnect-Health/care-service/internal/messaging"
	"github.com/CareConnect-Health/care-service/internal/notification"
	"github.com/CareConnect-Health/care-service/internal/storage"
	"github.com/CareConnect-Health/care-service/internal/task"
	"github.com/CareConnect-Health/care-service/internal/telemetry"
	"github.com/CareConnect-Health/care-service/internal/users"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// SetupRouter initializes all routes for the application
func SetupRouter(db *sql.DB, verifier *auth.Verifier, perms auth.Permissions, publisher messaging.EventPublisher, avatars *storage.AvatarStore, metrics *telemetry.Metrics) *mux.Router {
	// Initialize Keycloak admin client
	keycloakAdmin, err := auth.NewKeycloakAdminClient()
	if err != nil {
		log.Fatalf("failed to initialize Keycloak admin client: %v", err)
	}

	return SetupRouterWithKeycloak(db, verifier, perms, publisher, avatars, metrics, keycloakAdmin)
}

// SetupRouterWithKeycloak wires the routes against an injected identity
// provider and avatar store, used by the e2e tests.
func SetupRouterWithKeycloak(db *sql.DB, verifier *auth.Verifier, perms auth.Permissions, publisher messaging.EventPublisher, avatars users.AvatarStorage, metrics *telemetry.Metrics, keycloakAdmin users.KeycloakAdmin) *mux.Router {
	// Initialize user components
	userRepo := users.NewRepository(db, publisher)
	userService := users.NewService(userRepo, keycloakAdmin, avatars)
	userHandler := users.NewHandler(userService)

	// Initialize care link components
	linkRepo := carelink.NewRepository(db, publisher)
	linkService := carelink.NewService(linkRepo, userRepo)
	linkHandler := carelink.NewHandler(linkService)

	// Initialize activity components
	activityRepo := activity.NewRepository(db)
	activityService := activity.NewService(activityRepo, userRepo, linkRepo)
	activityHandler := activity.NewHandler(activityService)

	// Initialize task components
	taskRepo := task.NewRepository(db)
	taskService := task.NewService(taskRepo, userRepo, linkRepo)
	taskHandler := task.NewHandler(taskService)

	// Initialize medication components
	medicationRepo := medication.NewRepository(db)
	medicationService := medication.NewService(medicationRepo, userRepo, linkRepo)
	medicationHandler := medication.NewHandler(medicationService)

	// Initialize notification components
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo, userRepo, linkRepo, publisher, metrics)
	notificationHandler := notification.NewHandler(notificationService)

	// Initialize alert components
	alertService := alert.NewService(taskRepo, activityRepo, userRepo, linkRepo, publisher, metrics)
	alertHandler := alert.NewHandler(alertService)

	authenticate := auth.Middleware(verifier)
	if metrics != nil {
		authenticate = auth.MiddlewareWithMetrics(verifier, metrics)
	}

	requirePermission := func(per string) func(http.Handler) http.Handler {
		if metrics != nil {
			return auth.RequirePermissionWithMetrics(per, perms, metrics)
		}
		return auth.RequirePermission(per, perms)
	}

	protected := func(per string, h http.HandlerFunc) http.Handler {
		return authenticate(requirePermission(per)(h))
	}

	r := mux.NewRouter()
	r.Use(otelmux.Middleware("care-service"))

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"care-service"}`))
	}).Methods("GET")

	// Public auth routes
	r.HandleFunc("/auth/register", userHandler.Register).Methods("POST")
	r.HandleFunc("/auth/reset-password", userHandler.ResetPassword).Methods("POST")

	// Own profile
	r.Handle("/me", protected("profile:view", userHandler.GetMe)).Methods("GET")
	r.Handle("/me", protected("profile:update", userHandler.UpdateMyProfile)).Methods("PATCH")
	r.Handle("/me/avatar", protected("profile:update", userHandler.UploadAvatar)).Methods("PUT")

	// User management (ADMIN, plus self delete)
	r.Handle("/users", protected("user:view", userHandler.ListUsers)).Methods("GET")
	r.Handle("/users/{id}", protected("user:view", userHandler.GetUser)).Methods("GET")
	r.Handle("/users/{id}", protected("user:update", userHandler.UpdateUser)).Methods("PATCH")
	r.Handle("/users/{id}", protected("user:delete", userHandler.DeleteUser)).Methods("DELETE")

	// Care links
	r.Handle("/links", protected("link:create", linkHandler.CreateLink)).Methods("POST")
	r.Handle("/links/patients", protected("link:view", linkHandler.ListPatients)).Methods("GET")
	r.Handle("/links/members", protected("link:view", linkHandler.ListMembers)).Methods("GET")
	r.Handle("/links/{id}", protected("link:delete", linkHandler.Unlink)).Methods("DELETE")

	// Activity logs (older adults confirm their own periods)
	r.Handle("/activity/{category}/confirm", protected("activity:confirm", activityHandler.Confirm)).Methods("POST")
	r.Handle("/activity/{category}/today", protected("activity:view", activityHandler.Today)).Methods("GET")
	r.Handle("/patients/{id}/stats", protected("stats:view", activityHandler.Stats)).Methods("GET")

	// Tasks
	r.Handle("/patients/{id}/tasks", protected("task:create", taskHandler.Create)).Methods("POST")
	r.Handle("/patients/{id}/tasks", protected("task:view", taskHandler.ListForPatient)).Methods("GET")
	r.Handle("/tasks", protected("task:view", taskHandler.ListMine)).Methods("GET")
	r.Handle("/tasks/{id}/status", protected("task:update", taskHandler.UpdateStatus)).Methods("PATCH")
	r.Handle("/tasks/{id}", protected("task:delete", taskHandler.Delete)).Methods("DELETE")

	// Medications
	r.Handle("/patients/{id}/medications", protected("medication:create", medicationHandler.Create)).Methods("POST")
	r.Handle("/patients/{id}/medications", protected("medication:view", medicationHandler.ListForPatient)).Methods("GET")
	r.Handle("/medications", protected("medication:view", medicationHandler.ListMine)).Methods("GET")
	r.Handle("/medications/schedule", protected("medication:view", medicationHandler.Schedule)).Methods("GET")
	r.Handle("/medications/{id}/taken", protected("medication:take", medicationHandler.MarkTaken)).Methods("POST")

	// Alerts
	r.Handle("/alerts", protected("alert:view", alertHandler.List)).Methods("GET")
	r.Handle("/alerts/{id}", protected("alert:dismiss", alertHandler.Dismiss)).Methods("DELETE")

	// Notifications
	r.Handle("/notifications", protected("notification:view", notificationHandler.List)).Methods("GET")
	r.Handle("/notifications/{id}/read", protected("notification:update", notificationHandler.MarkRead)).Methods("PATCH")
	r.Handle("/emergency", protected("emergency:raise", notificationHandler.Emergency)).Methods("POST")

	return r
}
