package evaluator

import (
	"context"
	"strings"
	"testing"

	"dsatutor/models"

	"github.com/tmc/langchaingo/llms"
)

// scriptedModel routes prompts to canned replies by substring so one
// fake can serve the whole evaluation pipeline.
type scriptedModel struct {
	replies  map[string]string
	fallback string
}

func (m *scriptedModel) reply(prompt string) string {
	for marker, response := range m.replies {
		if strings.Contains(prompt, marker) {
			return response
		}
	}
	return m.fallback
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	prompt := ""
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt += text.Text
			}
		}
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.reply(prompt)}},
	}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.reply(prompt), nil
}

func testProblem() models.Problem {
	return models.Problem{
		ID:          "two_sum",
		Title:       "Two Sum",
		Description: "Find two numbers that add up to a target.",
		Topic:       models.TopicArrays,
		Difficulty:  models.DifficultyEasy,
	}
}

func TestCheckSyntax(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantIssues []string
	}{
		{
			name: "tiny fragment without definition",
			code: "x = 1",
			wantIssues: []string{
				"Code appears incomplete",
				"No function or class definition found",
			},
		},
		{
			name:       "clean python function",
			code:       "def two_sum(nums, target):\n    seen = {}\n    for i, n in enumerate(nums):\n        if target - n in seen:\n            return [seen[target - n], i]\n        seen[n] = i",
			wantIssues: nil,
		},
		{
			name:       "clean go function",
			code:       "func twoSum(nums []int, target int) []int {\n    seen := map[int]int{}\n    return nil\n}",
			wantIssues: nil,
		},
		{
			name: "infinite loop without break",
			code: "def run():\n    while True:\n        pass",
			wantIssues: []string{
				"Potential infinite loop detected",
			},
		},
		{
			name:       "break anywhere defuses the loop check",
			code:       "def run():\n    while True:\n        print(\"never break out\")",
			wantIssues: nil,
		},
		{
			name: "imports noted",
			code: "import heapq\n\ndef solve(nums):\n    return heapq.nsmallest(2, nums)",
			wantIssues: []string{
				"Note: Imports detected - ensure they're allowed",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckSyntax(tt.code)

			if check.HasIssues != (len(tt.wantIssues) > 0) {
				t.Errorf("has_issues = %v, want %v (issues: %v)", check.HasIssues, len(tt.wantIssues) > 0, check.Issues)
			}
			if len(check.Issues) != len(tt.wantIssues) {
				t.Fatalf("issues = %v, want %v", check.Issues, tt.wantIssues)
			}
			for i, want := range tt.wantIssues {
				if check.Issues[i] != want {
					t.Errorf("issue %d = %q, want %q", i, check.Issues[i], want)
				}
			}
			if check.CodeLength != len(tt.code) {
				t.Errorf("code_length = %d, want %d", check.CodeLength, len(tt.code))
			}
			if check.LineCount != len(strings.Split(tt.code, "\n")) {
				t.Errorf("line_count = %d", check.LineCount)
			}
		})
	}
}

func TestCalculateScore(t *testing.T) {
	cleanSyntax := models.SyntaxCheck{HasIssues: false}
	brokenSyntax := models.SyntaxCheck{HasIssues: true, Issues: []string{"Code appears incomplete"}}

	tests := []struct {
		name       string
		syntax     models.SyntaxCheck
		assessment models.ConceptualAssessment
		feedback   models.Feedback
		want       int
	}{
		{
			name:   "perfect solution scores 100",
			syntax: cleanSyntax,
			assessment: models.ConceptualAssessment{
				ApproachCorrect:  true,
				EdgeCasesHandled: []string{"empty array", "duplicates"},
			},
			feedback: models.Feedback{Positives: []string{"clean", "optimal"}},
			want:     100,
		},
		{
			name:       "everything missing scores 0",
			syntax:     brokenSyntax,
			assessment: models.ConceptualAssessment{},
			feedback:   models.Feedback{},
			want:       0,
		},
		{
			name:   "single edge case and single positive give half credit",
			syntax: cleanSyntax,
			assessment: models.ConceptualAssessment{
				ApproachCorrect:  true,
				EdgeCasesHandled: []string{"empty array"},
			},
			feedback: models.Feedback{Positives: []string{"works"}},
			want:     80,
		},
		{
			name:   "correct approach with broken syntax",
			syntax: brokenSyntax,
			assessment: models.ConceptualAssessment{
				ApproachCorrect:  true,
				EdgeCasesHandled: []string{"a", "b", "c"},
			},
			feedback: models.Feedback{Positives: []string{"x", "y", "z"}},
			want:     80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateScore(tt.syntax, tt.assessment, tt.feedback)
			if got != tt.want {
				t.Errorf("calculateScore() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 100 {
				t.Errorf("score %d outside [0,100]", got)
			}
		})
	}
}

func TestEvaluateSolutionFullPipeline(t *testing.T) {
	model := &scriptedModel{
		replies: map[string]string{
			"Evaluate conceptually":                  `{"approach_correct": true, "edge_cases_handled": ["empty array", "single element"], "time_complexity": "O(n)", "space_complexity": "O(n)", "potential_bugs": []}`,
			"Generate constructive feedback":         `{"positives": ["Correct hash map approach", "Single pass"], "improvements_needed": ["Add input validation"], "concept_gaps": [], "specific_suggestions": ["Guard against empty input"]}`,
			"Suggest 2-3 specific code improvements": `[{"change": "validate input", "reason": "robustness", "example": "if not nums: return []"}]`,
		},
	}
	service := NewService(model, DefaultPassThreshold)

	code := "def two_sum(nums, target):\n    seen = {}\n    for i, n in enumerate(nums):\n        if target - n in seen:\n            return [seen[target - n], i]\n        seen[n] = i"

	result, err := service.EvaluateSolution(context.Background(), testProblem(), code, "hash map single pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Score != 100 {
		t.Errorf("score = %d, want 100", result.Score)
	}
	if !result.Correctness {
		t.Error("correctness = false, want true")
	}
	if result.Assessment.TimeComplexity != "O(n)" {
		t.Errorf("time complexity = %q", result.Assessment.TimeComplexity)
	}
	if len(result.Improvements) != 2 {
		t.Fatalf("improvements = %d, want 2 (one general, one code)", len(result.Improvements))
	}
	if result.Improvements[0].Type != "general" || result.Improvements[1].Type != "code" {
		t.Errorf("improvement types = %q, %q", result.Improvements[0].Type, result.Improvements[1].Type)
	}
	if len(result.NextSteps) != 3 || result.NextSteps[0] != "Try a harder variation of this problem" {
		t.Errorf("next steps = %v", result.NextSteps)
	}
}

func TestEvaluateSolutionMalformedRepliesUseDefaults(t *testing.T) {
	model := &scriptedModel{fallback: "I cannot produce JSON right now, sorry."}
	service := NewService(model, DefaultPassThreshold)

	result, err := service.EvaluateSolution(context.Background(), testProblem(), "x = 1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Assessment.ApproachCorrect {
		t.Error("default assessment should not mark approach correct")
	}
	if result.Assessment.TimeComplexity != "Unknown" {
		t.Errorf("time complexity = %q, want Unknown", result.Assessment.TimeComplexity)
	}
	if len(result.Feedback.Positives) != 1 || result.Feedback.Positives[0] != "Attempted to solve the problem" {
		t.Errorf("feedback positives = %v", result.Feedback.Positives)
	}
	// Syntax 0 (two issues), approach 0, edge cases 0, one default positive 10.
	if result.Score != 10 {
		t.Errorf("score = %d, want 10", result.Score)
	}
	if result.Correctness {
		t.Error("correctness = true for failing score")
	}
}

func TestSuggestImprovementsCappedAtFive(t *testing.T) {
	model := &scriptedModel{
		replies: map[string]string{
			"Suggest 2-3 specific code improvements": `[{"change": "a", "reason": "b", "example": "c"}, {"change": "d", "reason": "e", "example": "f"}, {"change": "g", "reason": "h", "example": "i"}]`,
		},
	}
	service := NewService(model, DefaultPassThreshold)

	feedback := models.Feedback{
		ImprovementsNeeded: []string{"one", "two", "a critical fix", "four"},
	}
	suggestions := service.suggestImprovements(context.Background(), "code", testProblem(), feedback)

	if len(suggestions) != 5 {
		t.Fatalf("suggestions = %d, want 5", len(suggestions))
	}
	if suggestions[2].Priority != "high" {
		t.Errorf("critical improvement priority = %q, want high", suggestions[2].Priority)
	}
	if suggestions[0].Priority != "medium" {
		t.Errorf("plain improvement priority = %q, want medium", suggestions[0].Priority)
	}
	if suggestions[4].Type != "code" {
		t.Errorf("fifth suggestion type = %q, want code", suggestions[4].Type)
	}
}

func TestRecommendNextStepsBands(t *testing.T) {
	tests := []struct {
		score int
		first string
	}{
		{95, "Try a harder variation of this problem"},
		{90, "Try a harder variation of this problem"},
		{75, "Review the suggested improvements"},
		{70, "Review the suggested improvements"},
		{55, "Review the core concept"},
		{50, "Review the core concept"},
		{30, "Review fundamental concepts"},
		{0, "Review fundamental concepts"},
	}

	for _, tt := range tests {
		steps := recommendNextSteps(tt.score)
		if len(steps) != 3 {
			t.Fatalf("score %d: steps = %d, want 3", tt.score, len(steps))
		}
		if steps[0] != tt.first {
			t.Errorf("score %d: first step = %q, want %q", tt.score, steps[0], tt.first)
		}
	}
}

func TestCompareWithOptimal(t *testing.T) {
	model := &scriptedModel{
		fallback: "```json\n{\"differences\": [\"student uses nested loops\"], \"efficiency_analysis\": \"optimal is O(n) vs O(n^2)\", \"readability_comparison\": \"similar\", \"key_learnings\": [\"hash maps trade space for time\"]}\n```",
	}
	service := NewService(model, DefaultPassThreshold)

	comparison, err := service.CompareWithOptimal(context.Background(), "nested loops", "hash map")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comparison.Differences) != 1 || comparison.Differences[0] != "student uses nested loops" {
		t.Errorf("differences = %v", comparison.Differences)
	}
	if comparison.EfficiencyAnalysis == "" {
		t.Error("efficiency analysis is empty")
	}
}
