package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"dsatutor/models"
	"dsatutor/services/tutor"

	"github.com/gorilla/mux"
)

type ConceptHandler struct {
	service *tutor.Service
}

func NewConceptHandler(service *tutor.Service) *ConceptHandler {
	return &ConceptHandler{service: service}
}

func (h *ConceptHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/concepts/explain", h.ExplainConcept).Methods("POST")
}

func (h *ConceptHandler) ExplainConcept(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] Received concept explanation request")

	var req models.ExplainConceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode concept request JSON: %v", err)
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

	explanation, err := h.service.ExplainConcept(r.Context(), req.Concept, topic, req.StudentLevel)
	if err != nil {
		log.Printf("[ERROR] Concept explanation failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Explained concept %q in %s", req.Concept, topic)
	h.writeJSONResponse(w, http.StatusOK, explanation)
}

func (h *ConceptHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *ConceptHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
