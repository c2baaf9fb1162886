package activity

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

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	category := vars["category"]

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	entry, err := h.service.Confirm(category, req, principal)
	if err != nil {
		log.Printf("Failed to confirm %s: %v", category, err)

		switch err {
		case ErrUnknownCategory, ErrUnknownPeriod:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case ErrNotAPatient:
			http.Error(w, err.Error(), http.StatusForbidden)
		case ErrAlreadyConfirmed:
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to confirm activity", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

func (h *Handler) Today(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	category := vars["category"]

	logs, err := h.service.Today(category, principal)
	if err != nil {
		log.Printf("Failed to list today's %s logs: %v", category, err)

		switch err {
		case ErrUnknownCategory:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case ErrNotAPatient:
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "failed to list activity logs", http.StatusInternalServerError)
		}
		return
	}

	if logs == nil {
		logs = []Log{}
	}

	periods, _ := PeriodsFor(category)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"logs":    logs,
		"periods": periods,
	})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	patientID := vars["id"]

	stats, err := h.service.Stats(patientID, principal)
	if err != nil {
		log.Printf("Failed to compute stats for %s: %v", patientID, err)

		if err == ErrNotLinked {
			http.Error(w, err.Error(), http.StatusForbidden)
		} else {
			http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
