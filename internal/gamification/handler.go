package gamification

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/estudai/backend/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

// ── Progress State ──────────────────────────────────────

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.GetProgress(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get progress"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	badges, err := h.service.GetBadges(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get badges"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"badges": badges})
}

func (h *Handler) XPHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", 50)

	events, err := h.service.XPHistory(userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get XP history"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}

// ── Activity Completion ─────────────────────────────────

func (h *Handler) CompleteQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.SubjectID == "" || req.TopicID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "subject_id and topic_id are required"})
		return
	}
	if len(req.Attempts) == 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "attempts is required"})
		return
	}

	resp, err := h.service.CompleteQuiz(userID, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete quiz"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.ReviewID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "review_id is required"})
		return
	}

	resp, err := h.service.CompleteReview(userID, req)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Review session not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete review"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompleteCustomQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteCustomQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.QuizID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "quiz_id is required"})
		return
	}

	resp, err := h.service.CompleteCustomQuiz(userID, req)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Custom quiz not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete custom quiz"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompleteSimulado(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteSimuladoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.SimuladoID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "simulado_id is required"})
		return
	}

	resp, err := h.service.CompleteSimulado(userID, req)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Simulado not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete simulado"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompleteGame(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.TopicID == "" || req.GameID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "topic_id and game_id are required"})
		return
	}

	resp, err := h.service.CompleteGame(userID, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete game"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CompleteChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CompleteChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.service.CompleteChallenge(userID, req)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No challenge of that type today"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to complete challenge"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) RateFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req struct {
		FlashcardID string `json:"flashcard_id"`
		WasGood     bool   `json:"was_good"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FlashcardID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "flashcard_id is required"})
		return
	}

	progress, err := h.service.RateFlashcard(userID, req.FlashcardID, req.WasGood)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to rate flashcard"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"srs_flashcard_data": progress.SRSFlashcardData})
}

// ── Creation ────────────────────────────────────────────

func (h *Handler) CreateReviewSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateReviewSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	sess, err := h.service.CreateReviewSession(userID, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create review session"})
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) CreateCustomQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateCustomQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "name is required"})
		return
	}

	quiz, err := h.service.CreateCustomQuiz(userID, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create custom quiz"})
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

func (h *Handler) CreateSimulado(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.CreateSimuladoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "name is required"})
		return
	}

	sim, err := h.service.CreateSimulado(userID, req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create simulado"})
		return
	}

	writeJSON(w, http.StatusCreated, sim)
}

func (h *Handler) GenerateCustomQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	var req models.GenerateCustomQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}
	if req.SubjectID == "" || req.TopicID == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "subject_id and topic_id are required"})
		return
	}

	quiz, err := h.service.GenerateCustomQuiz(r.Context(), userID, req)
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Topic not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate quiz"})
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

// ── Daily Challenges ────────────────────────────────────

func (h *Handler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	challengeType := mux.Vars(r)["type"]
	challenge, err := h.service.GenerateChallenge(r.Context(), userID, challengeType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, challenge)
}

// ── Leaderboard ─────────────────────────────────────────

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", 20)

	resp, err := h.service.GetLeaderboard(userID, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get leaderboard"})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ── Helpers ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
