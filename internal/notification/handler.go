package notification

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/CareConnect-Health/care-service/internal/auth"
	"github.com/gorilla/mux"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Emergency(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	count, err := h.service.Emergency(r.Context(), principal)
	if err != nil {
		log.Printf("Failed to raise emergency alert: %v", err)

		switch err {
		case ErrNotAPatient:
			http.Error(w, err.Error(), http.StatusForbidden)
		case ErrNoRecipients:
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, "failed to raise emergency alert", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notified": count,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	notifications, err := h.service.List(principal)
	if err != nil {
		log.Printf("Failed to list notifications: %v", err)
		http.Error(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}

	if notifications == nil {
		notifications = []Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	notificationID := mux.Vars(r)["id"]

	if err := h.service.MarkRead(notificationID, principal); err != nil {
		log.Printf("Failed to mark notification %s read: %v", notificationID, err)

		if err == ErrNotificationNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, "failed to mark notification read", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
