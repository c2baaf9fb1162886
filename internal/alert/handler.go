package alert

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	alerts, err := h.service.Aggregate(r.Context(), principal)
	if err != nil {
		log.Printf("Failed to aggregate alerts: %v", err)

		if err == ErrRoleMismatch {
			http.Error(w, err.Error(), http.StatusForbidden)
		} else {
			http.Error(w, "failed to aggregate alerts", http.StatusInternalServerError)
		}
		return
	}

	if alerts == nil {
		alerts = []Alert{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	alertID := mux.Vars(r)["id"]

	if err := h.service.Dismiss(r.Context(), alertID, principal); err != nil {
		log.Printf("Failed to dismiss alert %s: %v", alertID, err)

		switch err {
		case ErrAlertNotFound:
			http.Error(w, err.Error(), http.StatusNotFound)
		case ErrRoleMismatch:
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "failed to dismiss alert", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
