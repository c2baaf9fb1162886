package carelink

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

func (h *Handler) CreateLink(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	link, err := h.service.CreateLink(req, principal)
	if err != nil {
		log.Printf("Failed to create link: %v", err)

		switch err {
		case ErrMissingEmail, ErrSelfLink:
			http.Error(w, err.Error(), http.StatusBadRequest)
		case ErrUserNotFound:
			http.Error(w, err.Error(), http.StatusNotFound)
		case ErrRoleMismatch:
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case ErrAlreadyLinked:
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "failed to create link", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(link)
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	patients, err := h.service.ListPatients(principal)
	if err != nil {
		log.Printf("Failed to list linked patients: %v", err)

		if err == ErrRoleMismatch {
			http.Error(w, err.Error(), http.StatusForbidden)
		} else {
			http.Error(w, "failed to list linked patients", http.StatusInternalServerError)
		}
		return
	}

	if patients == nil {
		patients = []LinkedUser{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"patients": patients,
		"count":    len(patients),
	})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	members, err := h.service.ListMembers(principal)
	if err != nil {
		log.Printf("Failed to list linked members: %v", err)

		if err == ErrRoleMismatch {
			http.Error(w, err.Error(), http.StatusForbidden)
		} else {
			http.Error(w, "failed to list linked members", http.StatusInternalServerError)
		}
		return
	}

	if members == nil {
		members = []LinkedUser{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"members": members,
		"count":   len(members),
	})
}

func (h *Handler) Unlink(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	linkID := vars["id"]

	if err := h.service.Unlink(linkID, principal); err != nil {
		log.Printf("Failed to remove link: %v", err)

		switch err {
		case ErrLinkNotFound:
			http.Error(w, err.Error(), http.StatusNotFound)
		case ErrForbidden:
			http.Error(w, err.Error(), http.StatusForbidden)
		default:
			http.Error(w, "failed to remove link", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
