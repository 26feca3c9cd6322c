package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"dsatutor/models"
	"dsatutor/services/progress"
	"dsatutor/services/tutor"

	"github.com/gorilla/mux"
)

// SessionHistory serves past session records, typically backed by the
// database session log.
type SessionHistory interface {
	RecentForStudent(studentID string, limit int) ([]models.SessionRecord, error)
}

type SessionHandler struct {
	service *tutor.Service
	history SessionHistory
}

func NewSessionHandler(service *tutor.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

// NewSessionHandlerWithHistory serves session history from a durable
// log instead of the tracker's bounded in-memory ring.
func NewSessionHandlerWithHistory(service *tutor.Service, history SessionHistory) *SessionHandler {
	return &SessionHandler{service: service, history: history}
}

func (h *SessionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sessions", h.StartSession).Methods("POST")
	router.HandleFunc("/students/{studentID}/progress", h.GetProgress).Methods("GET")
	router.HandleFunc("/students/{studentID}/sessions", h.GetSessions).Methods("GET")
	router.HandleFunc("/learning-path", h.GenerateLearningPath).Methods("POST")
}

func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received start session request")

	var req models.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode start session request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	topics, difficulty, err := validateSessionRequest(req)
	if err != nil {
		log.Printf("[ERROR] Invalid start session request: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.service.StartLearningSession(r.Context(), req.StudentID, topics, difficulty)
	if err != nil {
		log.Printf("[ERROR] Failed to start session: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Session %s started for student %s", info.SessionID, req.StudentID)
	h.writeJSONResponse(w, http.StatusCreated, info)
}

func validateSessionRequest(req models.StartSessionRequest) ([]models.Topic, models.Difficulty, error) {
	if req.StudentID == "" {
		return nil, "", errors.New("student_id is required")
	}
	if len(req.Topics) == 0 {
		return nil, "", errors.New("at least one topic is required")
	}

	topics := make([]models.Topic, 0, len(req.Topics))
	for _, raw := range req.Topics {
		topic, err := models.ParseTopic(raw)
		if err != nil {
			return nil, "", err
		}
		topics = append(topics, topic)
	}

	difficulty := models.DifficultyEasy
	if req.Difficulty != "" {
		parsed, err := models.ParseDifficulty(req.Difficulty)
		if err != nil {
			return nil, "", err
		}
		difficulty = parsed
	}

	return topics, difficulty, nil
}

func (h *SessionHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentID"]
	log.Printf("[INFO] Received progress request for student %s", studentID)

	report, err := h.service.GetProgress(studentID)
	if err != nil {
		if errors.Is(err, progress.ErrStudentNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Student not found")
			return
		}
		log.Printf("[ERROR] Failed to get progress: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, report)
}

const defaultSessionHistoryLimit = 20

func (h *SessionHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	studentID := mux.Vars(r)["studentID"]
	log.Printf("[INFO] Received session history request for student %s", studentID)

	var records []models.SessionRecord
	if h.history != nil {
		fetched, err := h.history.RecentForStudent(studentID, defaultSessionHistoryLimit)
		if err != nil {
			log.Printf("[ERROR] Failed to load session history: %v", err)
			h.writeErrorResponse(w, http.StatusInternalServerError, "Failed to load session history")
			return
		}
		records = fetched
	} else {
		records = h.service.RecentSessions(studentID, defaultSessionHistoryLimit)
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]any{"sessions": records})
}

func (h *SessionHandler) GenerateLearningPath(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received learning path request")

	var req models.LearningPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode learning path request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(req.Topics) == 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "at least one topic is required")
		return
	}

	topics := make([]models.Topic, 0, len(req.Topics))
	for _, raw := range req.Topics {
		topic, err := models.ParseTopic(raw)
		if err != nil {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
		topics = append(topics, topic)
	}

	path := h.service.GenerateLearningPath(topics)
	h.writeJSONResponse(w, http.StatusOK, map[string]any{"learning_path": path})
}

func (h *SessionHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *SessionHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
