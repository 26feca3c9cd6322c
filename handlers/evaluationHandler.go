package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"dsatutor/models"
	"dsatutor/services/tutor"

	"github.com/gorilla/mux"
)

type EvaluationHandler struct {
	service *tutor.Service
}

func NewEvaluationHandler(service *tutor.Service) *EvaluationHandler {
	return &EvaluationHandler{service: service}
}

func (h *EvaluationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/evaluations", h.EvaluateSolution).Methods("POST")
	router.HandleFunc("/evaluations/compare", h.CompareSolutions).Methods("POST")
}

func (h *EvaluationHandler) EvaluateSolution(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received solution evaluation request")

	var req models.EvaluateSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode evaluation request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Code == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "code is required")
		return
	}
	if req.Problem.Title == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "problem with title is required")
		return
	}

	result, err := h.service.EvaluateSolution(r.Context(), req.StudentID, req.Problem, req.Code, req.Explanation)
	if err != nil {
		log.Printf("[ERROR] Solution evaluation failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Evaluated solution for problem %s: score=%d", req.Problem.ID, result.Score)
	h.writeJSONResponse(w, http.StatusOK, result)
}

func (h *EvaluationHandler) CompareSolutions(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received solution comparison request")

	var req models.CompareSolutionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode comparison request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.StudentCode == "" || req.OptimalSolution == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "student_code and optimal_solution are required")
		return
	}

	comparison, err := h.service.CompareWithOptimal(r.Context(), req.StudentCode, req.OptimalSolution)
	if err != nil {
		log.Printf("[ERROR] Solution comparison failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, comparison)
}

func (h *EvaluationHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *EvaluationHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
