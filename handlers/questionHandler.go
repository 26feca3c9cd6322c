package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"dsatutor/models"
	"dsatutor/services/tutor"

	"github.com/gorilla/mux"
)

const defaultNumVariations = 3

type QuestionHandler struct {
	service *tutor.Service
}

func NewQuestionHandler(service *tutor.Service) *QuestionHandler {
	return &QuestionHandler{service: service}
}

func (h *QuestionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/questions/generate", h.GenerateQuestion).Methods("POST")
	router.HandleFunc("/questions/mcq", h.GenerateMCQ).Methods("POST")
	router.HandleFunc("/questions/variations", h.GenerateVariations).Methods("POST")
}

func (h *QuestionHandler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received question generation request")

	var req models.GenerateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode question request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	topic, err := models.ParseTopic(req.Topic)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	difficulty := models.DifficultyMedium
	if req.Difficulty != "" {
		difficulty, err = models.ParseDifficulty(req.Difficulty)
		if err != nil {
			h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	problem, err := h.service.GenerateQuestion(r.Context(), topic, difficulty, req.Weaknesses)
	if err != nil {
		log.Printf("[ERROR] Question generation failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Generated problem %s", problem.ID)
	h.writeJSONResponse(w, http.StatusOK, problem)
}

func (h *QuestionHandler) GenerateMCQ(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received MCQ generation request")

	var req models.GenerateMCQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode MCQ request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Concept == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "concept is required")
		return
	}

	topic, err := models.ParseTopic(req.Topic)
	if err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	mcq, err := h.service.GenerateMCQ(r.Context(), req.Concept, topic)
	if err != nil {
		log.Printf("[ERROR] MCQ generation failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, mcq)
}

func (h *QuestionHandler) GenerateVariations(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received variation generation request")

	var req models.GenerateVariationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode variations request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Problem.ID == "" || req.Problem.Description == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "problem with id and description is required")
		return
	}

	numVariations := req.NumVariations
	if numVariations <= 0 {
		numVariations = defaultNumVariations
	}

	variations, err := h.service.GenerateVariations(r.Context(), req.Problem, numVariations)
	if err != nil {
		log.Printf("[ERROR] Variation generation failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Generated %d variations of problem %s", len(variations), req.Problem.ID)
	h.writeJSONResponse(w, http.StatusOK, map[string]any{"variations": variations})
}

func (h *QuestionHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *QuestionHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
