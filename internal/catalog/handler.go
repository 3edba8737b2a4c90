package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/estudai/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.store.GetSubjects()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load catalog"})
		return
	}
	if subjects == nil {
		subjects = []models.Subject{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": subjects})
}

func (h *Handler) GetSubject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	subject, err := h.store.GetSubject(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load subject"})
		return
	}
	if subject == nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Subject not found"})
		return
	}
	writeJSON(w, http.StatusOK, subject)
}

// UpsertSubject replaces one subject's full topic tree. Used by content
// seeding scripts rather than the student app.
func (h *Handler) UpsertSubject(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		models.Subject
		Position int `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	req.Subject.ID = id
	if req.Subject.Name == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "name is required"})
		return
	}

	if err := h.store.UpsertSubject(req.Subject, req.Position); err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to save subject"})
		return
	}

	writeJSON(w, http.StatusOK, req.Subject)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
