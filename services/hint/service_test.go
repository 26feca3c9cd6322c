package hint

import (
	"context"
	"strings"
	"testing"

	"dsatutor/models"

	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	response string
	prompts  []string
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				f.prompts = append(f.prompts, text.Text)
			}
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.response}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, nil
}

func testProblem() models.Problem {
	return models.Problem{
		ID:          "two_sum",
		Title:       "Two Sum",
		Description: "Given an array of integers, return indices of the two numbers that add up to a target.",
		Topic:       models.TopicArrays,
		Difficulty:  models.DifficultyEasy,
	}
}

func TestGetHintLevelProgression(t *testing.T) {
	service := NewService(&fakeModel{response: "Think about what you need to remember as you scan the array."})
	problem := testProblem()

	for call, wantLevel := range []int{0, 1, 2, 3, 3, 3} {
		response, err := service.GetHint(context.Background(), problem, "", "", 0)
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", call, err)
		}
		if response.HintLevel != wantLevel {
			t.Errorf("call %d: hint level = %d, want %d", call, response.HintLevel, wantLevel)
		}
		if response.MaxLevel != MaxLevel {
			t.Errorf("call %d: max level = %d, want %d", call, response.MaxLevel, MaxLevel)
		}
		wantNext := wantLevel < MaxLevel
		if response.NextLevelAvailable != wantNext {
			t.Errorf("call %d: next level available = %v, want %v", call, response.NextLevelAvailable, wantNext)
		}
	}
}

func TestGetHintRequestedLevelSkipsAhead(t *testing.T) {
	service := NewService(&fakeModel{response: "Use a hash map keyed by the complement."})
	problem := testProblem()

	response, err := service.GetHint(context.Background(), problem, "", "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.HintLevel != 2 {
		t.Errorf("hint level = %d, want 2", response.HintLevel)
	}

	// A lower request afterwards must not go backwards.
	response, err = service.GetHint(context.Background(), problem, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.HintLevel != 3 {
		t.Errorf("hint level after escalation = %d, want 3", response.HintLevel)
	}
}

func TestGetHintClampsRequestsAboveMax(t *testing.T) {
	service := NewService(&fakeModel{response: "Walk the array once, storing complements."})

	response, err := service.GetHint(context.Background(), testProblem(), "", "", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.HintLevel != MaxLevel {
		t.Errorf("hint level = %d, want %d", response.HintLevel, MaxLevel)
	}
	if response.NextLevelAvailable {
		t.Error("next level available = true at terminal level")
	}
}

func TestGetHintProblemsTrackedIndependently(t *testing.T) {
	service := NewService(&fakeModel{response: "hint"})
	first := testProblem()
	second := testProblem()
	second.ID = "coin_change"

	for i := 0; i < 3; i++ {
		if _, err := service.GetHint(context.Background(), first, "", "", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	response, err := service.GetHint(context.Background(), second, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.HintLevel != 0 {
		t.Errorf("fresh problem hint level = %d, want 0", response.HintLevel)
	}
}

func TestClearHistoryResetsAllProblems(t *testing.T) {
	service := NewService(&fakeModel{response: "hint"})
	problem := testProblem()

	for i := 0; i < 3; i++ {
		if _, err := service.GetHint(context.Background(), problem, "", "", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	service.ClearHistory()

	response, err := service.GetHint(context.Background(), problem, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.HintLevel != 0 {
		t.Errorf("hint level after clear = %d, want 0", response.HintLevel)
	}
}

func TestHintPromptIncludesStudentContext(t *testing.T) {
	model := &fakeModel{response: "hint"}
	service := NewService(model)
	problem := testProblem()

	if _, err := service.GetHint(context.Background(), problem, "", "brute force with nested loops", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(model.prompts) == 0 || !strings.Contains(model.prompts[0], "brute force with nested loops") {
		t.Error("approach hint prompt missing student approach")
	}

	model.prompts = nil
	if _, err := service.GetHint(context.Background(), problem, "for i in range(n):", "", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(model.prompts) == 0 || !strings.Contains(model.prompts[0], "for i in range(n):") {
		t.Error("implementation hint prompt missing student code")
	}
}

func TestIdentifyStuckPoint(t *testing.T) {
	tests := []struct {
		name    string
		actions []string
		want    string
	}{
		{
			name:    "input handling wins over iteration",
			actions: []string{"tried to parse the input", "wrote a for loop"},
			want:    "Understanding input format",
		},
		{
			name:    "output handling",
			actions: []string{"not sure what to print at the end"},
			want:    "Understanding output format",
		},
		{
			name:    "iteration",
			actions: []string{"stuck on the while loop bounds"},
			want:    "Implementing iteration logic",
		},
		{
			name:    "conditionals",
			actions: []string{"the else branch never fires"},
			want:    "Handling edge cases",
		},
		{
			name:    "data structure choice",
			actions: []string{"should I use a dict or a set here"},
			want:    "Choosing appropriate data structure",
		},
		{
			name:    "nothing recognized",
			actions: []string{"just staring at it"},
			want:    "Understanding problem requirements",
		},
		{
			name:    "empty actions",
			actions: nil,
			want:    "Understanding problem requirements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := identifyStuckPoint(tt.actions)
			if got != tt.want {
				t.Errorf("identifyStuckPoint(%v) = %q, want %q", tt.actions, got, tt.want)
			}
		})
	}
}

func TestExtractSuggestion(t *testing.T) {
	tests := []struct {
		name     string
		analysis string
		want     string
	}{
		{
			name:     "suggestion line",
			analysis: "The student misreads the bounds.\nSuggestion: trace the loop by hand with n=2.",
			want:     "Suggestion: trace the loop by hand with n=2.",
		},
		{
			name:     "try line",
			analysis: "They seem confused.\nThey could try a smaller example first.",
			want:     "They could try a smaller example first.",
		},
		{
			name:     "no actionable line",
			analysis: "The student is confused about the problem.",
			want:     fallbackSuggestion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractSuggestion(tt.analysis)
			if got != tt.want {
				t.Errorf("extractSuggestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeStuckPoint(t *testing.T) {
	model := &fakeModel{response: "The student is stuck on iteration.\nSuggestion: dry-run the loop on paper."}
	service := NewService(model)

	analysis, err := service.AnalyzeStuckPoint(context.Background(), testProblem(), []string{"rewrote the for loop twice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.StuckPoint != "Implementing iteration logic" {
		t.Errorf("stuck point = %q, want %q", analysis.StuckPoint, "Implementing iteration logic")
	}
	if analysis.Suggestion != "Suggestion: dry-run the loop on paper." {
		t.Errorf("suggestion = %q", analysis.Suggestion)
	}
	if analysis.Analysis == "" {
		t.Error("analysis is empty")
	}
}

func TestGetSocraticHintDoesNotTouchLevels(t *testing.T) {
	service := NewService(&fakeModel{response: "What happens when the array is empty? What do you know after one pass?"})
	problem := testProblem()

	if _, err := service.GetSocraticHint(context.Background(), problem, "should I sort first?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := service.GetHint(context.Background(), problem, "", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.HintLevel != 0 {
		t.Errorf("hint level after socratic hint = %d, want 0", response.HintLevel)
	}
}
