package task

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

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.service.Create(patientID, req, principal)
	if err != nil {
		log.Printf("Failed to create task for patient %s: %v", patientID, err)

		switch err {
		case ErrMissingName, ErrInvalidDate, ErrInvalidTime:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case ErrNotLinked:
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "failed to create task", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✓ Task '%s' created for patient %s", task.Name, patientID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(task)
}

func (h *Handler) ListForPatient(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	patientID := mux.Vars(r)["id"]

	tasks, err := h.service.ListForPatient(patientID, principal)
	if err != nil {
		log.Printf("Failed to list tasks for patient %s: %v", patientID, err)

		if err == ErrNotLinked {
			http.Error(w, err.Error(), http.StatusForbidden)
		} else {
			http.Error(w, "failed to list tasks", http.StatusInternalServerError)
		}
		return
	}

	if tasks == nil {
		tasks = []Task{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	tasks, err := h.service.ListMine(principal)
	if err != nil {
		log.Printf("Failed to list tasks: %v", err)
		http.Error(w, "failed to list tasks", http.StatusInternalServerError)
		return
	}

	if tasks == nil {
		tasks = []Task{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	taskID := mux.Vars(r)["id"]

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	task, err := h.service.UpdateStatus(taskID, req, principal)
	if err != nil {
		log.Printf("Failed to update status of task %s: %v", taskID, err)

		switch err {
		case ErrInvalidStatus:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case ErrTaskNotFound:
			http.Error(w, err.Error(), http.StatusNotFound)
		case ErrForbidden:
			http.Error(w, err.Error(), http.StatusForbidden)
		case ErrInvalidTransition:
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to update task", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	taskID := mux.Vars(r)["id"]

	if err := h.service.Delete(taskID, principal); err != nil {
		log.Printf("Failed to delete task %s: %v", taskID, err)

		switch err {
		case ErrTaskNotFound:
			http.Error(w, err.Error(), http.StatusNotFound)
		case ErrForbidden:
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "failed to delete task", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
