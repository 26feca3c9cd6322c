package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"dsatutor/models"
	"dsatutor/services/assistant"

	"github.com/gorilla/mux"
)

type AssistantHandler struct {
	service *assistant.Service
}

func NewAssistantHandler(service *assistant.Service) *AssistantHandler {
	return &AssistantHandler{service: service}
}

func (h *AssistantHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/assistant/chat", h.Chat).Methods("POST")
}

func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.AssistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode chat request JSON: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := validateChatHistory(req.Messages); err != nil {
		log.Printf("[ERROR] Invalid chat history: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Printf("[INFO] Chat turn with %d prior messages", len(req.Messages))

	result, err := h.service.ProcessMessage(req.Messages)
	if err != nil {
		log.Printf("[ERROR] Chat turn failed: %v", err)
		h.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Printf("[INFO] Chat turn completed with %d messages", len(result.Messages))
	h.writeJSONResponse(w, http.StatusOK, result)
}

func validateChatHistory(messages []models.AssistantMessage) error {
	if len(messages) == 0 {
		return fmt.Errorf("at least one message is required")
	}

	for i, msg := range messages {
		switch msg.Role {
		case "user", "assistant", "tool":
		default:
			return fmt.Errorf("message %d has unknown role %q", i, msg.Role)
		}
	}

	return nil
}

func (h *AssistantHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func (h *AssistantHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
