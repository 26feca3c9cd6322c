package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dsatutor/models"
	"dsatutor/services/assistant"
	"dsatutor/services/evaluator"
	"dsatutor/services/hint"
	"dsatutor/services/knowledge"
	"dsatutor/services/progress"
	"dsatutor/services/qgen"
	"dsatutor/services/teach"
	"dsatutor/services/tutor"

	"github.com/gorilla/mux"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	response string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return f.response, nil
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()

	model := &fakeModel{response: "Welcome! Let's think about what each pass over the input can tell you."}
	store := knowledge.NewStore(nil)
	tracker := progress.NewTracker(nil)
	tutorService := tutor.NewService(
		store,
		teach.NewService(model, store, tracker),
		qgen.NewService(model, store),
		hint.NewService(model),
		evaluator.NewService(model, evaluator.DefaultPassThreshold),
		tracker,
	)

	router := mux.NewRouter()
	NewSessionHandler(tutorService).RegisterRoutes(router)
	NewConceptHandler(tutorService).RegisterRoutes(router)
	NewQuestionHandler(tutorService).RegisterRoutes(router)
	NewHintHandler(tutorService).RegisterRoutes(router)
	NewEvaluationHandler(tutorService).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestStartSessionEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/sessions", models.StartSessionRequest{
		StudentID:  "student_001",
		Topics:     []string{"Arrays", "Trees"},
		Difficulty: "Easy",
	})

	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", recorder.Code, recorder.Body.String())
	}

	var info models.SessionInfo
	if err := json.Unmarshal(recorder.Body.Bytes(), &info); err != nil {
		t.Fatalf("response is not session info: %v", err)
	}
	if info.SessionID == "" {
		t.Error("no session id in response")
	}
	if info.WelcomeMessage == "" {
		t.Error("no welcome message in response")
	}
}

func TestStartSessionEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body models.StartSessionRequest
	}{
		{
			name: "missing student id",
			body: models.StartSessionRequest{Topics: []string{"Arrays"}},
		},
		{
			name: "no topics",
			body: models.StartSessionRequest{StudentID: "student_001"},
		},
		{
			name: "unknown topic",
			body: models.StartSessionRequest{StudentID: "student_001", Topics: []string{"Astrology"}},
		},
		{
			name: "unknown difficulty",
			body: models.StartSessionRequest{StudentID: "student_001", Topics: []string{"Arrays"}, Difficulty: "Impossible"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doJSON(t, router, http.MethodPost, "/sessions", tt.body)
			if recorder.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", recorder.Code)
			}
		})
	}
}

func TestProgressEndpointNotFound(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodGet, "/students/ghost/progress", nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", recorder.Code)
	}
}

func TestProgressEndpointAfterSession(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/sessions", models.StartSessionRequest{
		StudentID: "student_001",
		Topics:    []string{"Arrays"},
	})

	recorder := doJSON(t, router, http.MethodGet, "/students/student_001/progress", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", recorder.Code, recorder.Body.String())
	}

	var report models.ProgressReport
	if err := json.Unmarshal(recorder.Body.Bytes(), &report); err != nil {
		t.Fatalf("response is not a progress report: %v", err)
	}
	if report.TotalSessions != 1 {
		t.Errorf("total sessions = %d, want 1", report.TotalSessions)
	}
}

func TestHintEndpointEscalates(t *testing.T) {
	router := newTestRouter(t)

	body := models.HintRequest{
		Problem: models.Problem{ID: "two_sum", Title: "Two Sum", Description: "Find two indices."},
	}

	var levels []int
	for i := 0; i < 2; i++ {
		recorder := doJSON(t, router, http.MethodPost, "/hints", body)
		if recorder.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", recorder.Code, recorder.Body.String())
		}
		var hintResponse models.HintResponse
		if err := json.Unmarshal(recorder.Body.Bytes(), &hintResponse); err != nil {
			t.Fatalf("response is not a hint: %v", err)
		}
		levels = append(levels, hintResponse.HintLevel)
	}

	if levels[0] != 0 || levels[1] != 1 {
		t.Errorf("hint levels = %v, want [0 1]", levels)
	}
}

func TestHintHistoryClearEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := models.HintRequest{Problem: models.Problem{ID: "two_sum", Title: "Two Sum"}}
	doJSON(t, router, http.MethodPost, "/hints", body)
	doJSON(t, router, http.MethodPost, "/hints", body)

	recorder := doJSON(t, router, http.MethodDelete, "/hints/history", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	recorder = doJSON(t, router, http.MethodPost, "/hints", body)
	var hintResponse models.HintResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &hintResponse); err != nil {
		t.Fatalf("response is not a hint: %v", err)
	}
	if hintResponse.HintLevel != 0 {
		t.Errorf("hint level after clear = %d, want 0", hintResponse.HintLevel)
	}
}

func TestEvaluationEndpointValidation(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/evaluations", models.EvaluateSolutionRequest{
		Problem: models.Problem{ID: "two_sum", Title: "Two Sum"},
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing code", recorder.Code)
	}

	recorder = doJSON(t, router, http.MethodPost, "/evaluations", models.EvaluateSolutionRequest{
		Problem: models.Problem{ID: "two_sum"},
		Code:    "def two_sum(nums, target):\n    return []",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing problem title", recorder.Code)
	}
}

func TestEvaluationEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/evaluations", models.EvaluateSolutionRequest{
		StudentID: "student_001",
		Problem:   models.Problem{ID: "two_sum", Title: "Two Sum", Topic: models.TopicArrays},
		Code:      "def two_sum(nums, target):\n    return []",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", recorder.Code, recorder.Body.String())
	}

	var result models.EvaluationResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not an evaluation result: %v", err)
	}
	// The fake model returns prose, so both LLM sub-steps fall back to
	// their defaults: clean syntax 20 + one default positive 10.
	if result.Score != 30 {
		t.Errorf("score = %d, want 30", result.Score)
	}
	if result.Correctness {
		t.Error("correctness = true for a failing score")
	}
}

func TestLearningPathEndpoint(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/learning-path", models.LearningPathRequest{
		Topics: []string{"Graphs"},
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", recorder.Code, recorder.Body.String())
	}

	var payload struct {
		LearningPath []models.LearningPlanItem `json:"learning_path"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not a learning path: %v", err)
	}
	if len(payload.LearningPath) != 4 {
		t.Errorf("path length = %d, want 4", len(payload.LearningPath))
	}
}

func TestConceptEndpointRejectsUnknownTopic(t *testing.T) {
	router := newTestRouter(t)

	recorder := doJSON(t, router, http.MethodPost, "/concepts/explain", models.ExplainConceptRequest{
		Concept: "binary search",
		Topic:   "Numerology",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func TestSessionHistoryEndpoint(t *testing.T) {
	router := newTestRouter(t)

	for i := 0; i < 2; i++ {
		recorder := doJSON(t, router, http.MethodPost, "/sessions", models.StartSessionRequest{
			StudentID: "hist-student",
			Topics:    []string{"Arrays"},
		})
		if recorder.Code != http.StatusCreated {
			t.Fatalf("start session status = %d, want 201", recorder.Code)
		}
	}

	recorder := doJSON(t, router, http.MethodGet, "/students/hist-student/sessions", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	var payload struct {
		Sessions []models.SessionRecord `json:"sessions"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not a session list: %v", err)
	}
	if len(payload.Sessions) != 2 {
		t.Errorf("session count = %d, want 2", len(payload.Sessions))
	}
	for _, record := range payload.Sessions {
		if record.StudentID != "hist-student" {
			t.Errorf("record %s belongs to %s", record.SessionID, record.StudentID)
		}
	}

	recorder = doJSON(t, router, http.MethodGet, "/students/nobody/sessions", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not a session list: %v", err)
	}
	if len(payload.Sessions) != 0 {
		t.Errorf("session count for unknown student = %d, want 0", len(payload.Sessions))
	}
}

func TestChatEndpointValidation(t *testing.T) {
	service, err := assistant.NewService("test-key", nil)
	if err != nil {
		t.Fatalf("failed to build assistant service: %v", err)
	}

	router := mux.NewRouter()
	NewAssistantHandler(service).RegisterRoutes(router)

	recorder := doJSON(t, router, http.MethodPost, "/assistant/chat", models.AssistantRequest{})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty history", recorder.Code)
	}

	recorder = doJSON(t, router, http.MethodPost, "/assistant/chat", models.AssistantRequest{
		Messages: []models.AssistantMessage{{Role: "system", Content: "hi"}},
	})
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unknown role", recorder.Code)
	}
}
