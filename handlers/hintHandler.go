package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"dsatutor/models"
	"dsatutor/services/tutor"

	"github.com/gorilla/mux"
)

type HintHandler struct {
	service *tutor.Service
}

func NewHintHandler(service *tutor.Service) *HintHandler {
	return &HintHandler{service: service}
}

func (h *HintHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/hints", h.GetHint).Methods("POST")
	router.HandleFunc("/hints/socratic", h.GetSocraticHint).Methods("POST")
	router.HandleFunc("/hints/stuck-point", h.AnalyzeStuckPoint).Methods("POST")
	router.HandleFunc("/hints/history", h.ClearHistory).Methods("DELETE")
}

func (h *HintHandler) GetHint(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received hint request")

	var req models.HintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode hint request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Problem.ID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "problem with id is required")
		return
	}

	hintResponse, err := h.service.GetHint(r.Context(), req.Problem, req.StudentCode, req.StudentApproach, req.HintLevel)
	if err != nil {
		log.Printf("[ERROR] Hint generation failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Produced level %d hint for problem %s", hintResponse.HintLevel, req.Problem.ID)
	h.writeJSONResponse(w, http.StatusOK, hintResponse)
}

func (h *HintHandler) GetSocraticHint(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received socratic hint request")

	var req models.SocraticHintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode socratic hint request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if req.Question == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}

	hint, err := h.service.GetSocraticHint(r.Context(), req.Problem, req.Question)
	if err != nil {
		log.Printf("[ERROR] Socratic hint failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"hint": hint})
}

func (h *HintHandler) AnalyzeStuckPoint(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received stuck point analysis request")

	var req models.StuckPointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode stuck point request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if len(req.Actions) == 0 {
		h.writeErrorResponse(w, http.StatusBadRequest, "at least one student action is required")
		return
	}

	analysis, err := h.service.AnalyzeStuckPoint(r.Context(), req.Problem, req.Actions)
	if err != nil {
		log.Printf("[ERROR] Stuck point analysis failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writeJSONResponse(w, http.StatusOK, analysis)
}

func (h *HintHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received hint history clear request")

	h.service.ClearHintHistory()
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *HintHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *HintHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
