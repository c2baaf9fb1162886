package medication

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	patientID := mux.Vars(r)["id"]

	var req CreateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	medication, err := h.service.Create(patientID, req, principal)
	if err != nil {
		log.Printf("Failed to create medication for patient %s: %v", patientID, err)

		switch err {
		case ErrMissingName, ErrMissingDosage, ErrInvalidDate, ErrInvalidDateRange,
			ErrInvalidFirstHour, ErrInvalidInterval, ErrInvalidTimesPerDay:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case ErrNotLinked:
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "failed to create medication", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✓ Medication '%s' created for patient %s", medication.Name, patientID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(medication)
}

func (h *Handler) ListForPatient(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	patientID := mux.Vars(r)["id"]

	medications, err := h.service.ListForPatient(patientID, principal)
	if err != nil {
		log.Printf("Failed to list medications for patient %s: %v", patientID, err)

		if err == ErrNotLinked {
			http.Error(w, err.Error(), http.StatusForbidden)
		} else {
			http.Error(w, "failed to list medications", http.StatusInternalServerError)
		}
		return
	}

	if medications == nil {
		medications = []Medication{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"medications": medications,
		"count":       len(medications),
	})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	medications, err := h.service.ListMine(principal)
	if err != nil {
		log.Printf("Failed to list medications: %v", err)
		http.Error(w, "failed to list medications", http.StatusInternalServerError)
		return
	}

	if medications == nil {
		medications = []Medication{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"medications": medications,
		"count":       len(medications),
	})
}

func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	date := r.URL.Query().Get("date")

	entries, err := h.service.Schedule(date, principal)
	if err != nil {
		log.Printf("Failed to compute medication schedule: %v", err)

		if err == ErrInvalidDate {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, "failed to compute schedule", http.StatusInternalServerError)
		}
		return
	}

	if entries == nil {
		entries = []ScheduleEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"schedule": entries,
		"count":    len(entries),
	})
}

func (h *Handler) MarkTaken(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	medicationID := mux.Vars(r)["id"]

	var req MarkTakenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	medication, err := h.service.MarkTaken(medicationID, req, principal)
	if err != nil {
		log.Printf("Failed to mark dose taken for medication %s: %v", medicationID, err)

		switch err {
		case ErrInvalidDate, ErrInvalidDoseIndex:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case ErrInactiveDate:
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case ErrMedicationNotFound:
			http.Error(w, err.Error(), http.StatusNotFound)
		case ErrForbidden:
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "failed to mark dose taken", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(medication)
}
